package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/student"
)

func (cli *commandLine) addStudent(ns student.NewStudent) error {
	if err := ns.Validate(cli.validate, cli.studentSvc); err != nil {
		return cli.describeValidationError(err)
	}
	s, err := cli.studentSvc.Create(cli.ctx, ns)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "student %q created: %s\n", s.Name, s.ID)
	return nil
}

// describeValidationError flattens field errors into one line: "invalid student: email: ..., phone: ..."
func (cli *commandLine) describeValidationError(err error) error {
	fields := make(map[string]string)
	switch e := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields = core.TranslateValidationErrors(e, cli.translator)
	case *core.ValidationError:
		for _, f := range e.Fields {
			fields[f.Field] = f.Error
		}
	default:
		return err
	}

	msgs := make([]string, 0, len(fields))
	for field, msg := range fields {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return errors.New("invalid student: " + strings.Join(msgs, ", "))
}
