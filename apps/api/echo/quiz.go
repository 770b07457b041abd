package echoapi

import (
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/quiz"
)

const maxQuizSize = 1 << 20 // 1 MiB

var errNoQuizDir = echo.NewHTTPError(http.StatusServiceUnavailable, "quiz directory not configured")

type (
	ParseRequest struct {
		Text string `json:"text" validate:"notblank"`
	}

	ParseResponse struct {
		quiz.ParsedQuiz
		Complete int `json:"complete"`
	}

	ImportRequest struct {
		Quizzes []quiz.ImportEntry `json:"quizzes" validate:"required,min=1"`
	}

	QuizDetail struct {
		quiz.Quiz
		Questions []quiz.Question `json:"questions"`
	}
)

type quizApi struct {
	svc      quiz.ServiceInterface
	fsys     fs.FS
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, svc quiz.ServiceInterface, fsys fs.FS, validate *validator.Validate) {
	api := quizApi{
		svc:      svc,
		fsys:     fsys,
		validate: validate,
	}

	qg := g.Group("/quizzes")
	qg.POST("/parse", api.parse)
	qg.POST("/import", api.importQuizzes)
	qg.GET("", api.query)
	qg.GET("/:id", api.retrieve)
}

// Handlers

// parse accepts either a JSON ParseRequest or the raw quiz text.
func (api *quizApi) parse(ctx echo.Context) error {
	var data ParseRequest
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to ParseRequest")
		}
	} else {
		body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxQuizSize))
		if err != nil {
			return errors.Wrap(err, "reading quiz text")
		}
		data.Text = string(body)
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	parsed := api.svc.Parse(data.Text)
	return ctx.JSON(http.StatusOK, ParseResponse{ParsedQuiz: parsed, Complete: len(parsed.Complete())})
}

func (api *quizApi) importQuizzes(ctx echo.Context) error {
	if api.fsys == nil {
		return errNoQuizDir
	}
	var data ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	report := api.svc.Import(ctx.Request().Context(), api.fsys, data.Quizzes)
	return ctx.JSON(http.StatusOK, report)
}

func (api *quizApi) query(ctx echo.Context) error {
	filter := quiz.QueryFilter{Search: core.CleanString(ctx.QueryParam("search"))}
	var err error
	if filter.IsFinalExam, err = boolParam(ctx, "is_final_exam"); err != nil {
		return err
	}
	if filter.IsPublished, err = boolParam(ctx, "is_published"); err != nil {
		return err
	}
	var ord Ordering
	ord.Bind(ctx)

	quizzes, err := api.svc.Query(ctx.Request().Context(), &filter, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting quiz")
	}
	questions, err := api.svc.Questions(ctx.Request().Context(), qz.ID)
	if err != nil {
		return errors.Wrap(err, "getting questions")
	}
	return ctx.JSON(http.StatusOK, QuizDetail{Quiz: qz, Questions: questions})
}
