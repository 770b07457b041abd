// Package shared wires the services both apps (admin CLI and API) run on.
package shared

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/core/quiz"
	"github.com/trezcool/bibleschool/core/student"
	"github.com/trezcool/bibleschool/fs"
	"github.com/trezcool/bibleschool/services/email"
	"github.com/trezcool/bibleschool/services/push"
	"github.com/trezcool/bibleschool/services/sms"
	"github.com/trezcool/bibleschool/storage/database"
	"github.com/trezcool/bibleschool/storage/database/sqlx"
)

const emailConfigTimeout = 10 * time.Second

type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	EmailConf  core.EmailConfig // resolved at startup

	QuizSvc    quiz.ServiceInterface
	StudentSvc student.ServiceInterface
	Dispatcher *notify.Dispatcher
	Transports notify.Transports
}

// NewValidator returns the validator with the core and domain validations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	student.InitValidators(validate, translator)
	return validate, translator
}

// SetUpDB creates the database if needed, opens it and runs the pending migrations.
func SetUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewDeps builds every service from `conf`. A transport that is not configured is left unset.
func NewDeps(ctx context.Context, conf *core.Config, logger core.Logger, db *sqlx.DB) (*Deps, error) {
	validate, translator := NewValidator()

	quizRepo := sqlxrepos.NewQuizRepository(db)
	parser := quiz.NewParser(quiz.ParserOptionsFromConfig(conf.Quiz))
	policy := quiz.Policy{
		PassingScore:       conf.Quiz.PassingScore,
		TimeLimit:          conf.Quiz.TimeLimit,
		FinalExamTimeLimit: conf.Quiz.FinalExamTimeLimit,
	}

	transports, emailConf, err := NewTransports(ctx, conf, logger)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		EmailConf:  emailConf,
		QuizSvc:    quiz.NewService(quizRepo, parser, policy, validate, logger),
		StudentSvc: student.NewService(sqlxrepos.NewStudentRepository(db)),
		Dispatcher: notify.NewDispatcher(
			logger,
			notify.WithDelay(conf.Dispatch.Delay),
			notify.WithWorkers(conf.Dispatch.Workers),
		),
		Transports: transports,
	}, nil
}

// NewTransports builds the email, SMS and push transports.
// The email configuration is resolved once here; when the remote override fails, the defaults are used.
func NewTransports(ctx context.Context, conf *core.Config, logger core.Logger) (notify.Transports, core.EmailConfig, error) {
	tr := notify.Transports{EmailTemplate: notify.EventAnnouncementTemplate}

	emailConf, err := emailsvc.ResolveConfig(ctx, &http.Client{Timeout: emailConfigTimeout}, conf.Email)
	if err != nil {
		logger.Warn("resolving email config failed, using defaults", err)
	}

	templates, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.AppName, conf.FrontendBaseURL, conf.Debug)
	if err != nil {
		return tr, emailConf, errors.Wrap(err, "parsing email templates")
	}

	switch emailConf.Provider {
	case "sendgrid":
		tr.Email = emailsvc.NewSendgridService(emailConf, conf.AppName, templates, logger)
	case "console", "":
		tr.Email = emailsvc.NewConsoleService(emailConf, conf.AppName, templates, logger)
	default:
		return tr, emailConf, fmt.Errorf("unknown email provider %q", emailConf.Provider)
	}

	switch conf.SMS.Provider {
	case "twilio":
		smsSvc, err := smssvc.NewTwilioService(conf.SMS)
		if err != nil {
			return tr, emailConf, err
		}
		tr.SMS = smsSvc
	case "console", "":
		tr.SMS = smssvc.NewConsoleService(os.Stdout)
	default:
		return tr, emailConf, fmt.Errorf("unknown sms provider %q", conf.SMS.Provider)
	}

	if conf.Push.AppToken != "" {
		pushSvc, err := pushsvc.NewPushoverService(conf.Push, logger)
		if err != nil {
			return tr, emailConf, err
		}
		tr.Push = pushSvc
	}
	return tr, emailConf, nil
}
