package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/notify"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
	ErrPhoneExists = errors.New("a student with this phone number already exists")
)

type (
	Repository interface {
		CheckUniqueness(ctx context.Context, email, phone string) error
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name, Student.Email or Student.Phone.
		QueryStudents(ctx context.Context, filter *QueryFilter) ([]Student, error)
		Enroll(ctx context.Context, studentID, courseID string) error
	}

	ServiceInterface interface {
		CheckUniqueness(email, phone string) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Get(ctx context.Context, id string) (Student, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Student, error)
		Enroll(ctx context.Context, studentID, courseID string) error
		Recipients(ctx context.Context, channel string, filter *QueryFilter) ([]notify.Recipient, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(email, phone string) error {
	if err := svc.repo.CheckUniqueness(context.Background(), email, phone); err != nil {
		var field string
		switch err {
		case ErrEmailExists:
			field = "email"
		case ErrPhoneExists:
			field = "phone"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := NowFunc().UTC()
	s := Student{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Email:     ns.Email,
		Phone:     ns.Phone,
		PushKey:   ns.PushKey,
		CourseIDs: ns.CourseIDs,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.CourseIDs == nil {
		s.CourseIDs = []string{}
	}
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Student, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *Service) Enroll(ctx context.Context, studentID, courseID string) error {
	courseID = core.CleanString(courseID)
	if courseID == "" {
		return core.NewFieldValidationError("course_id", "this field is required")
	}
	if _, err := svc.repo.GetStudent(ctx, studentID); err != nil {
		return err
	}
	return svc.repo.Enroll(ctx, studentID, courseID)
}

// Recipients returns the active students matching `filter` that can be reached on `channel`,
// in the repository order. Students without a contact for that channel are left out.
func (svc *Service) Recipients(ctx context.Context, channel string, filter *QueryFilter) ([]notify.Recipient, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	active := true
	filter.IsActive = &active

	students, err := svc.Query(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	recipients := make([]notify.Recipient, 0, len(students))
	for _, s := range students {
		var id string
		switch channel {
		case notify.ChannelEmail:
			id = s.Email
		case notify.ChannelSMS:
			id = s.Phone
		case notify.ChannelPush:
			id = s.PushKey
		default:
			return nil, errors.Wrapf(notify.ErrUnknownChannel, "%q", channel)
		}
		if id != "" {
			recipients = append(recipients, notify.Recipient{Identifier: id, Name: s.Name})
		}
	}
	return recipients, nil
}
