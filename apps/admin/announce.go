package main

import (
	"fmt"

	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/core/student"
)

type announcement struct {
	channel  string
	courseID string
	content  notify.Content
	yes      bool
}

func (cli *commandLine) announce(a announcement) error {
	sender, err := cli.transports.Sender(a.channel)
	if err != nil {
		return err
	}

	recipients, err := cli.studentSvc.Recipients(cli.ctx, a.channel, &student.QueryFilter{CourseID: a.courseID})
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no recipients")
		return nil
	}

	if !a.yes {
		ok, err := confirmFunc(fmt.Sprintf("Send %q to %d recipient(s) by %s?", a.content.SubjectLine(), len(recipients), a.channel))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cli.out, "aborted")
			return nil
		}
	}

	res := cli.dispatcher.Dispatch(cli.ctx, recipients, a.content, sender)
	_, _ = fmt.Fprintf(cli.out, "sent: %d, failed: %d\n", res.Sent, res.Failed)
	return nil
}
