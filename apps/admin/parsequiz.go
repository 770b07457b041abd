package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func (cli *commandLine) parseQuiz(path, format string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	parsed, err := cli.quizSvc.ParseFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		if err = enc.Encode(parsed); err != nil {
			return err
		}
	} else {
		enc := yaml.NewEncoder(cli.out)
		enc.SetIndent(2)
		if err = enc.Encode(parsed); err != nil {
			return err
		}
		_ = enc.Close()
	}

	_, _ = fmt.Fprintf(cli.out, "\n%q: %d questions parsed, %d complete\n", parsed.Title, len(parsed.Questions), len(parsed.Complete()))
	return nil
}
