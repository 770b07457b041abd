package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core/quiz"
)

func (cli *commandLine) importQuizzes(manifestPath string) error {
	f, err := os.Open(manifestPath)
	if err != nil {
		return errors.Wrap(err, "opening manifest")
	}
	defer func() { _ = f.Close() }()

	entries, err := quiz.LoadManifest(f)
	if err != nil {
		return err
	}

	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return err
	}
	if entries, err = quiz.ResolvePaths(entries, filepath.Dir(absManifest), cli.root); err != nil {
		return err
	}

	report := cli.quizSvc.Import(cli.ctx, os.DirFS(cli.root), entries)

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WEEK\tFILE\tQUIZ\tACCEPTED\tREJECTED\tFAILED\tSTATUS")
	for _, fr := range report.Files {
		status := "ok"
		if fr.Skipped {
			status = "skipped: " + fr.SkipError
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			fr.Entry.Week, fr.Entry.Path, fr.QuizID, fr.Accepted, fr.Rejected, fr.Failed, status)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(cli.out, "\n%d/%d quizzes created, %d questions accepted\n",
		report.QuizzesCreated, len(entries), report.QuestionsAccepted)
	return nil
}
