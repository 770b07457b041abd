package smssvc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/bibleschool/core"
)

func TestNewTwilioService(t *testing.T) {
	tests := []struct {
		name    string
		conf    core.SMSConfig
		wantErr string
	}{
		{name: "no sid", conf: core.SMSConfig{AuthToken: "t", From: "+1"}, wantErr: "twilio: account SID is required"},
		{name: "no token", conf: core.SMSConfig{AccountSID: "AC1", From: "+1"}, wantErr: "twilio: auth token is required"},
		{name: "no from", conf: core.SMSConfig{AccountSID: "AC1", AuthToken: "t"}, wantErr: "twilio: from number is required"},
		{name: "ok", conf: core.SMSConfig{AccountSID: "AC1", AuthToken: "t", From: "+15005550006"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewTwilioService(tt.conf)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultBaseURL, svc.baseURL)
		})
	}
}

func TestTwilioService_Send(t *testing.T) {
	var gotPath, gotUser, gotPwd string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPwd, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotForm = r.PostForm

		switch r.PostForm.Get("To") {
		case "+243810000000":
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"sid": "SM1", "status": "queued"}`)
		case "+1":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"code": 21211, "message": "Invalid 'To' Phone Number"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	conf := core.SMSConfig{AccountSID: "AC123", AuthToken: "tok", From: "+15005550006", BaseURL: srv.URL + "/"}
	svc, err := NewTwilioService(conf, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Send(ctx, core.SMSMessage{To: "+243810000000", Body: "Bible study on Sunday."}))
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "tok", gotPwd)
	assert.Equal(t, "+15005550006", gotForm["From"][0])
	assert.Equal(t, "Bible study on Sunday.", gotForm["Body"][0])

	assert.EqualError(t, svc.Send(ctx, core.SMSMessage{To: "+1", Body: "x"}), "twilio: error 21211: Invalid 'To' Phone Number")
	assert.EqualError(t, svc.Send(ctx, core.SMSMessage{To: "+2", Body: "x"}), "twilio: http 502: Bad Gateway")
	assert.ErrorIs(t, svc.Send(ctx, core.SMSMessage{Body: "x"}), errNoRecipient)
}

func TestConsoleService_Send(t *testing.T) {
	var out strings.Builder
	svc := NewConsoleService(&out)

	require.NoError(t, svc.Send(context.Background(), core.SMSMessage{To: "+243810000000", Body: "Hi"}))
	assert.Contains(t, out.String(), "SMS to +243810000000:\nHi")
	assert.Len(t, svc.SentMessages(), 1)
	assert.Error(t, svc.Send(context.Background(), core.SMSMessage{Body: "Hi"}))
}
