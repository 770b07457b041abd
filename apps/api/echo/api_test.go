package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/bibleschool/apps/api/echo"
	"github.com/trezcool/bibleschool/core/quiz"
	"github.com/trezcool/bibleschool/core/student"
	"github.com/trezcool/bibleschool/tests"
)

func TestServer_home(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Bible School API!", rec.Body.String())
}

func TestServer_emailConfig(t *testing.T) {
	app := newTestApp(t)

	rec := app.run(t, httpTest{
		method:   http.MethodGet,
		path:     "/v1/config/email",
		wantCode: http.StatusOK,
		wantData: `{"provider":"console","from_name":"Bible School","from_address":"noreply@test.cd","service_id":"","template_id":"","public_key":"pk_123"}`,
	})
	assert.NotContains(t, rec.Body.String(), "secret")
}

func Test_quizApi_parse(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{name: "blank json", method: http.MethodPost, path: "/v1/quizzes/parse", body: `{"text":"  "}`,
			wantCode: http.StatusBadRequest, wantData: `{"text":"this field cannot be blank"}`},
		{name: "bad json", method: http.MethodPost, path: "/v1/quizzes/parse", body: `{"text":`, wantCode: http.StatusBadRequest},
		{name: "empty text body", method: http.MethodPost, path: "/v1/quizzes/parse", contentType: "text/plain",
			wantCode: http.StatusBadRequest, wantData: `{"text":"this field cannot be blank"}`},
		{name: "json", method: http.MethodPost, path: "/v1/quizzes/parse", body: marshal(t, echoapi.ParseRequest{Text: jonahQuiz}),
			wantCode: http.StatusOK},
		{name: "text body", method: http.MethodPost, path: "/v1/quizzes/parse", body: jonahQuiz, contentType: "text/plain; charset=utf-8",
			wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.run(t, tt)
			if rec.Code != http.StatusOK {
				return
			}
			var res echoapi.ParseResponse
			decode(t, rec, &res)
			assert.Equal(t, "Week 3 quiz: Jonah", res.Title)
			assert.Len(t, res.Questions, 3)
			assert.Equal(t, 2, res.Complete)
			assert.Equal(t, "B", res.Questions[0].CorrectAnswer)
		})
	}
}

func Test_quizApi_importAndRetrieve(t *testing.T) {
	app := newTestApp(t)

	app.run(t, httpTest{
		method: http.MethodPost, path: "/v1/quizzes/import", body: `{"quizzes":[]}`,
		wantCode: http.StatusBadRequest,
	})

	rec := app.run(t, httpTest{
		method:   http.MethodPost,
		path:     "/v1/quizzes/import",
		body:     `{"quizzes":[{"week":"Week 3","path":"week3.txt"},{"week":"Week 4","path":"empty.txt"},{"week":"Final","path":"missing.txt","final_exam":true}]}`,
		wantCode: http.StatusOK,
	})
	var report quiz.ImportReport
	decode(t, rec, &report)
	assert.Equal(t, 1, report.QuizzesCreated)
	assert.Equal(t, 2, report.QuestionsAccepted)
	require.Len(t, report.Files, 3)
	assert.Equal(t, 1, report.Files[0].Rejected)
	assert.True(t, report.Files[1].Skipped)
	assert.True(t, report.Files[2].Skipped)
	assert.Equal(t, 1, app.logger.Count("WARN"))

	// list
	rec = app.run(t, httpTest{method: http.MethodGet, path: "/v1/quizzes?search=jonah&is_published=true", wantCode: http.StatusOK})
	var quizzes []quiz.Quiz
	decode(t, rec, &quizzes)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "Week 3", quizzes[0].Week)

	app.run(t, httpTest{method: http.MethodGet, path: "/v1/quizzes?is_final_exam=true", wantCode: http.StatusOK, wantData: `[]`})
	app.run(t, httpTest{method: http.MethodGet, path: "/v1/quizzes?is_final_exam=lol", wantCode: http.StatusBadRequest,
		wantData: `{"is_final_exam":"must be a boolean"}`})

	// detail
	rec = app.run(t, httpTest{method: http.MethodGet, path: "/v1/quizzes/" + quizzes[0].ID, wantCode: http.StatusOK})
	var detail echoapi.QuizDetail
	decode(t, rec, &detail)
	assert.Equal(t, quizzes[0].ID, detail.ID)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, []string{"Nineveh", "Tarshish", "Joppa", "Babylon"}, detail.Questions[1].Options)

	app.run(t, httpTest{method: http.MethodGet, path: "/v1/quizzes/nope", wantCode: http.StatusNotFound,
		wantData: `{"error":"getting quiz: quiz not found"}`})
}

func Test_studentApi(t *testing.T) {
	app := newTestApp(t)
	ruth := testutil.CreateStudent(t, app.studRepo, "Ruth", "ruth@test.cd", "", "", []string{"ruth"}, true)
	testutil.CreateStudent(t, app.studRepo, "Orpah", "orpah@test.cd", "", "", nil, false)

	tests := []httpTest{
		{name: "create: no contact", method: http.MethodPost, path: "/v1/students", body: `{"name":"Naomi"}`,
			wantCode: http.StatusBadRequest, wantData: `{
				"email":"one of email, phone or push_key is required",
				"phone":"one of email, phone or push_key is required",
				"push_key":"one of email, phone or push_key is required"}`},
		{name: "create: invalid phone", method: http.MethodPost, path: "/v1/students", body: `{"name":"Naomi","phone":"0810000000"}`,
			wantCode: http.StatusBadRequest},
		{name: "create: duplicate", method: http.MethodPost, path: "/v1/students", body: `{"name":"Ruth 2","email":"Ruth@Test.cd"}`,
			wantCode: http.StatusBadRequest, wantData: `{"email":"a student with this email already exists"}`},
		{name: "create", method: http.MethodPost, path: "/v1/students", body: `{"name":"Boaz","phone":"+243810000000","course_ids":["ruth"]}`,
			wantCode: http.StatusCreated},
		{name: "retrieve: not found", method: http.MethodGet, path: "/v1/students/nope", wantCode: http.StatusNotFound},
		{name: "enroll: blank course", method: http.MethodPost, path: "/v1/students/" + ruth.ID + "/enroll", body: `{"course_id":" "}`,
			wantCode: http.StatusBadRequest, wantData: `{"course_id":"this field is required"}`},
		{name: "enroll", method: http.MethodPost, path: "/v1/students/" + ruth.ID + "/enroll", body: `{"course_id":"genesis"}`,
			wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.run(t, tt)
		})
	}

	rec := app.run(t, httpTest{method: http.MethodGet, path: "/v1/students/" + ruth.ID, wantCode: http.StatusOK})
	var got student.Student
	decode(t, rec, &got)
	assert.Equal(t, []string{"ruth", "genesis"}, got.CourseIDs)

	rec = app.run(t, httpTest{method: http.MethodGet, path: "/v1/students?course_id=ruth&is_active=true", wantCode: http.StatusOK})
	var students []student.Student
	decode(t, rec, &students)
	require.Len(t, students, 2)
	assert.Equal(t, "Ruth", students[0].Name)
	assert.Equal(t, "Boaz", students[1].Name)

	rec = app.run(t, httpTest{method: http.MethodGet, path: "/v1/students?is_active=false", wantCode: http.StatusOK})
	decode(t, rec, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "Orpah", students[0].Name)
}

func Test_notificationApi_send(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateStudent(t, app.studRepo, "Ruth", "ruth@test.cd", "+243810000001", "", []string{"ruth"}, true)
	testutil.CreateStudent(t, app.studRepo, "Boaz", "", "+243810000002", "", []string{"ruth"}, true)
	testutil.CreateStudent(t, app.studRepo, "Orpah", "orpah@test.cd", "+243810000003", "", []string{"genesis"}, true)
	testutil.CreateStudent(t, app.studRepo, "Elimelech", "elim@test.cd", "", "", []string{"ruth"}, false)

	retreat := `"title":"Retreat","date":"May 3","location":"Camp"`

	tests := []httpTest{
		{name: "unknown channel", method: http.MethodPost, path: "/v1/notifications/fax", body: `{` + retreat + `}`,
			wantCode: http.StatusNotFound, wantData: `{"error":"\"fax\": unknown notification channel"}`},
		{name: "unavailable channel", method: http.MethodPost, path: "/v1/notifications/push", body: `{` + retreat + `}`,
			wantCode: http.StatusServiceUnavailable, wantData: `{"error":"\"push\": notification channel not configured"}`},
		{name: "no content", method: http.MethodPost, path: "/v1/notifications/sms", body: `{"date":"May 3"}`,
			wantCode: http.StatusBadRequest, wantData: `{"title":"a title or a message is required","message":"a title or a message is required"}`},
		{name: "blank explicit recipient", method: http.MethodPost, path: "/v1/notifications/sms", body: `{` + retreat + `,"recipients":[{"identifier":""}]}`,
			wantCode: http.StatusBadRequest},
		{name: "course sms", method: http.MethodPost, path: "/v1/notifications/sms", body: `{` + retreat + `,"course_id":"ruth"}`,
			wantCode: http.StatusOK, wantData: `{"sent":2,"failed":0}`},
		{name: "all emails", method: http.MethodPost, path: "/v1/notifications/email", body: `{` + retreat + `}`,
			wantCode: http.StatusOK, wantData: `{"sent":2,"failed":0}`},
		{name: "explicit recipients", method: http.MethodPost, path: "/v1/notifications/sms",
			body:     `{"message":"Bring a Bible","recipients":[{"identifier":"+243810000009","name":"Guest"}]}`,
			wantCode: http.StatusOK, wantData: `{"sent":1,"failed":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.run(t, tt)
		})
	}

	texts := app.smsSvc.SentMessages()
	require.Len(t, texts, 3)
	assert.Equal(t, "+243810000001", texts[0].To)
	assert.Equal(t, "+243810000009", texts[2].To)

	emails := app.emailSvc.SentMessages()
	require.Len(t, emails, 2)
	assert.Equal(t, "ruth@test.cd", emails[0].To[0].Address)
	assert.Equal(t, "orpah@test.cd", emails[1].To[0].Address)
}
