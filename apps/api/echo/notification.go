package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/core/student"
)

// NotifyRequest targets either the explicit Recipients or, when empty, the active students of CourseID
// (every active student when CourseID is empty too).
type NotifyRequest struct {
	notify.Content
	CourseID   string             `json:"course_id"`
	Recipients []notify.Recipient `json:"recipients" validate:"omitempty,dive"`
}

type notificationApi struct {
	studentSvc student.ServiceInterface
	dispatcher *notify.Dispatcher
	transports notify.Transports
	validate   *validator.Validate
}

func registerNotificationAPI(
	g *echo.Group,
	studentSvc student.ServiceInterface,
	dispatcher *notify.Dispatcher,
	transports notify.Transports,
	validate *validator.Validate,
) {
	api := notificationApi{
		studentSvc: studentSvc,
		dispatcher: dispatcher,
		transports: transports,
		validate:   validate,
	}

	g.POST("/notifications/:channel", api.send)
}

// Handlers

// send blocks until every recipient was attempted. The batch outlives a disconnected client.
func (api *notificationApi) send(ctx echo.Context) error {
	channel := ctx.Param("channel")
	sender, err := api.transports.Sender(channel)
	if err != nil {
		return err
	}

	var data NotifyRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NotifyRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}
	if data.Content.IsEmpty() {
		return core.NewValidationError(
			errors.New("nothing to send"),
			core.FieldError{Field: "title", Error: "a title or a message is required"},
			core.FieldError{Field: "message", Error: "a title or a message is required"},
		)
	}

	batchCtx := context.WithoutCancel(ctx.Request().Context())
	recipients := data.Recipients
	if len(recipients) == 0 {
		if recipients, err = api.studentSvc.Recipients(batchCtx, channel, &student.QueryFilter{CourseID: data.CourseID}); err != nil {
			return errors.Wrap(err, "listing recipients")
		}
	}

	res := api.dispatcher.Dispatch(batchCtx, recipients, data.Content, sender)
	return ctx.JSON(http.StatusOK, res)
}
