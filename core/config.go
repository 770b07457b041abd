package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		Debug           bool
		TestMode        bool
		WorkDir         string
		FrontendBaseURL string
		RollbarToken    string
		LogLevel        string

		Server   ServerConfig
		Database DatabaseConfig
		Email    EmailConfig
		SMS      SMSConfig
		Push     PushConfig
		Dispatch DispatchConfig
		Quiz     QuizConfig
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// EmailConfig holds the email transport settings.
	// ConfigURL, when set, points to a JSON document overriding the defaults once at startup.
	EmailConfig struct {
		Provider    string `json:"provider"` // console | sendgrid
		APIKey      string `json:"-"`
		FromName    string `json:"from_name"`
		FromAddress string `json:"from_address"`
		ServiceID   string `json:"service_id"`
		TemplateID  string `json:"template_id"`
		PublicKey   string `json:"public_key"`
		ConfigURL   string `json:"-"`
	}

	SMSConfig struct {
		Provider   string // console | twilio
		AccountSID string
		AuthToken  string
		From       string
		BaseURL    string
		Timeout    time.Duration
	}

	PushConfig struct {
		AppToken string
	}

	DispatchConfig struct {
		Delay   time.Duration
		Workers int
	}

	QuizConfig struct {
		Dir                string
		TitleKeywords      []string
		HeaderKeywords     []string
		TitleMaxLen        int
		DefaultTitle       string
		PassingScore       int
		TimeLimit          int // minutes
		FinalExamTimeLimit int // minutes
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c EmailConfig) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.FromName, Address: c.FromAddress}
}

// NewConfig reads the configuration from defaults, `config/.env.<env>` and the environment.
// Environment variables are prefixed by the env name, eg. `PROD_DATABASE_HOST`.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Bible School")
	v.SetDefault("build", "dev")
	v.SetDefault("workDir", Getwd())
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("logLevel", "info")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "bibleschool")
	v.SetDefault("database.user", "bibleschool")
	v.SetDefault("database.password", "bibleschool")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("email.provider", "console")
	v.SetDefault("email.apiKey", "")
	v.SetDefault("email.fromName", "Bible School")
	v.SetDefault("email.fromAddress", "noreply@localhost")
	v.SetDefault("email.serviceID", "")
	v.SetDefault("email.templateID", "")
	v.SetDefault("email.publicKey", "")
	v.SetDefault("email.configURL", "")

	v.SetDefault("sms.provider", "console")
	v.SetDefault("sms.accountSID", "")
	v.SetDefault("sms.authToken", "")
	v.SetDefault("sms.from", "")
	v.SetDefault("sms.baseURL", "https://api.twilio.com")
	v.SetDefault("sms.timeout", 10*time.Second)

	v.SetDefault("push.appToken", "")

	v.SetDefault("dispatch.delay", 100*time.Millisecond)
	v.SetDefault("dispatch.workers", 1)

	v.SetDefault("quiz.dir", "quizzes")
	v.SetDefault("quiz.titleKeywords", []string{"Week", "quiz"})
	v.SetDefault("quiz.headerKeywords", []string{"Chapter", "Deep Depression"})
	v.SetDefault("quiz.titleMaxLen", 100)
	v.SetDefault("quiz.defaultTitle", "Quiz")
	v.SetDefault("quiz.passingScore", 70)
	v.SetDefault("quiz.timeLimit", 60)
	v.SetDefault("quiz.finalExamTimeLimit", 120)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(v.GetString("workDir"), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		WorkDir:         v.GetString("workDir"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		RollbarToken:    v.GetString("rollbarToken"),
		LogLevel:        v.GetString("logLevel"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Email: EmailConfig{
			Provider:    v.GetString("email.provider"),
			APIKey:      v.GetString("email.apiKey"),
			FromName:    v.GetString("email.fromName"),
			FromAddress: v.GetString("email.fromAddress"),
			ServiceID:   v.GetString("email.serviceID"),
			TemplateID:  v.GetString("email.templateID"),
			PublicKey:   v.GetString("email.publicKey"),
			ConfigURL:   v.GetString("email.configURL"),
		},
		SMS: SMSConfig{
			Provider:   v.GetString("sms.provider"),
			AccountSID: v.GetString("sms.accountSID"),
			AuthToken:  v.GetString("sms.authToken"),
			From:       v.GetString("sms.from"),
			BaseURL:    v.GetString("sms.baseURL"),
			Timeout:    v.GetDuration("sms.timeout"),
		},
		Push: PushConfig{
			AppToken: v.GetString("push.appToken"),
		},
		Dispatch: DispatchConfig{
			Delay:   v.GetDuration("dispatch.delay"),
			Workers: v.GetInt("dispatch.workers"),
		},
		Quiz: QuizConfig{
			Dir:                v.GetString("quiz.dir"),
			TitleKeywords:      v.GetStringSlice("quiz.titleKeywords"),
			HeaderKeywords:     v.GetStringSlice("quiz.headerKeywords"),
			TitleMaxLen:        v.GetInt("quiz.titleMaxLen"),
			DefaultTitle:       v.GetString("quiz.defaultTitle"),
			PassingScore:       v.GetInt("quiz.passingScore"),
			TimeLimit:          v.GetInt("quiz.timeLimit"),
			FinalExamTimeLimit: v.GetInt("quiz.finalExamTimeLimit"),
		},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (%s, build %s)", c.AppName, c.Env, c.Build)
}
