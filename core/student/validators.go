package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/bibleschool/core"
)

var (
	contactTag  = "contact"
	contactText = "one of email, phone or push_key is required"
)

// InitValidators registers the student validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newStudentStructValidation, NewStudent{})
	core.RegisterCustomTranslation(validate, translator, contactTag, contactText)
}

// newStudentStructValidation checks that the student can be reached on at least one channel.
func newStudentStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewStudent)
	if !ok {
		return
	}
	if ns.Email == "" && ns.Phone == "" && ns.PushKey == "" {
		sl.ReportError(ns.Email, "email", "Email", contactTag, "")
		sl.ReportError(ns.Phone, "phone", "Phone", contactTag, "")
		sl.ReportError(ns.PushKey, "push_key", "PushKey", contactTag, "")
	}
}
