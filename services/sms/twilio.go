package smssvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	apiVersion     = "2010-04-01"
	maxBodyBytes   = 16 * 1024
)

var errNoRecipient = errors.New("sms has no recipient")

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type TwilioOption func(*TwilioService)

func WithHTTPClient(client HTTPClient) TwilioOption {
	return func(svc *TwilioService) {
		if client != nil {
			svc.client = client
		}
	}
}

// WithBaseURL points the service to another API host (useful for tests).
func WithBaseURL(baseURL string) TwilioOption {
	return func(svc *TwilioService) {
		if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
			svc.baseURL = baseURL
		}
	}
}

// TwilioService sends text messages through Twilio's Messages resource.
type TwilioService struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     HTTPClient
}

var _ core.SMSService = (*TwilioService)(nil)

func NewTwilioService(conf core.SMSConfig, opts ...TwilioOption) (*TwilioService, error) {
	if strings.TrimSpace(conf.AccountSID) == "" {
		return nil, errors.New("twilio: account SID is required")
	}
	if strings.TrimSpace(conf.AuthToken) == "" {
		return nil, errors.New("twilio: auth token is required")
	}
	if strings.TrimSpace(conf.From) == "" {
		return nil, errors.New("twilio: from number is required")
	}

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	svc := &TwilioService{
		accountSID: strings.TrimSpace(conf.AccountSID),
		authToken:  strings.TrimSpace(conf.AuthToken),
		from:       strings.TrimSpace(conf.From),
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: timeout},
	}
	WithBaseURL(conf.BaseURL)(svc)
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (svc *TwilioService) Send(ctx context.Context, msg core.SMSMessage) error {
	if msg.To == "" {
		return errNoRecipient
	}

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json", svc.baseURL, apiVersion, url.PathEscape(svc.accountSID))
	params := url.Values{}
	params.Set("To", msg.To)
	params.Set("From", svc.from)
	params.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrap(err, "twilio: new request")
	}
	req.SetBasicAuth(svc.accountSID, svc.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "twilio: http do")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	var tErr twilioError
	if err := json.Unmarshal(body, &tErr); err == nil && tErr.Code > 0 {
		return errors.Errorf("twilio: error %d: %s", tErr.Code, tErr.Message)
	}
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(res.StatusCode)
	}
	return errors.Errorf("twilio: http %d: %s", res.StatusCode, message)
}
