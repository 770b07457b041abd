package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bibleschool/apps/api/echo"
	"github.com/trezcool/bibleschool/apps/shared"
	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/core/quiz"
	"github.com/trezcool/bibleschool/core/student"
	"github.com/trezcool/bibleschool/services/email"
	"github.com/trezcool/bibleschool/services/sms"
	"github.com/trezcool/bibleschool/storage/database/inmem"
	"github.com/trezcool/bibleschool/tests"
)

const jonahQuiz = `Week 3 quiz: Jonah
1. Who was swallowed by a great fish?
A. Peter
B. Jonah
C. Paul
D. Elijah
Correct Answer: B
2. Where was Jonah sent?
A. Nineveh
B. Tarshish
C. Joppa
D. Babylon
Answer: A
3. Who slept during the storm?
A. Jonah
B. The captain
`

type testApp struct {
	server   *echoapi.Server
	quizRepo quiz.Repository
	studRepo student.Repository
	emailSvc *emailsvc.ConsoleService
	smsSvc   *smssvc.ConsoleService
	logger   *testutil.Logger
}

func newTestApp(t *testing.T) *testApp {
	db := inmemdb.Open()
	logger := testutil.NewLogger(t)
	validate, translator := shared.NewValidator()
	conf := &core.Config{AppName: "Bible School", Env: "TEST", TestMode: true}

	app := &testApp{
		quizRepo: inmemdb.NewQuizRepository(db),
		studRepo: inmemdb.NewStudentRepository(db),
		emailSvc: emailsvc.NewConsoleServiceMock(core.EmailConfig{FromAddress: "noreply@test.cd"}, conf.AppName, nil, logger),
		smsSvc:   smssvc.NewConsoleService(new(bytes.Buffer)),
		logger:   logger,
	}
	app.server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		EmailConf:  core.EmailConfig{Provider: "console", APIKey: "secret", FromName: "Bible School", FromAddress: "noreply@test.cd", PublicKey: "pk_123"},
		QuizSvc:    quiz.NewService(app.quizRepo, quiz.NewParser(quiz.DefaultParserOptions()), quiz.DefaultPolicy(), validate, logger),
		StudentSvc: student.NewService(app.studRepo),
		Dispatcher: notify.NewDispatcher(logger, notify.WithDelay(0)),
		Transports: notify.Transports{Email: app.emailSvc, SMS: app.smsSvc},
		QuizFS: fstest.MapFS{
			"week3.txt": {Data: []byte(jonahQuiz)},
			"empty.txt": {Data: []byte("Week 4 quiz\n")},
		},
	})
	t.Cleanup(func() { _ = app.server.Close() })
	return app
}

type httpTest struct {
	name        string
	method      string
	path        string
	body        string
	contentType string
	wantCode    int
	wantData    string // JSON, compared semantically; skipped when empty
	extra       interface{}
}

func (app *testApp) do(method, path, body string, contentType ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ct := "application/json"
	if len(contentType) > 0 && contentType[0] != "" {
		ct = contentType[0]
	}
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) run(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	rec := app.do(tt.method, tt.path, tt.body, tt.contentType)
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData != "" {
		assert.JSONEq(t, tt.wantData, rec.Body.String())
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal(): %v", err)
	}
	return string(data)
}

var _ http.Handler = (*echoapi.Server)(nil)
