package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/bibleschool/core"
)

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`    // E.164
	PushKey   string    `json:"push_key"` // Pushover user key
	CourseIDs []string  `json:"course_ids"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (s Student) IsEnrolled(courseID string) bool {
	for _, id := range s.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name      string   `json:"name" validate:"notblank"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Phone     string   `json:"phone" validate:"omitempty,e164"`
	PushKey   string   `json:"push_key" validate:"omitempty,alphanum,len=30"`
	CourseIDs []string `json:"course_ids" validate:"dive,notblank"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.PushKey = core.CleanString(ns.PushKey)
	for i, id := range ns.CourseIDs {
		ns.CourseIDs[i] = core.CleanString(id)
	}
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ns.Email, ns.Phone)
}

type QueryFilter struct {
	Search   string `query:"search"`
	CourseID string `query:"course_id"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
}
