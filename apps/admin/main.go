package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/bibleschool/apps/shared"
	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/services/logger"
	"github.com/trezcool/bibleschool/storage/database"
)

func main() {
	conf := core.NewConfig()
	ctx := context.Background()

	logger := logsvc.NewRollbarLogger(os.Stderr, conf)
	logger.Enable(!conf.Debug)

	// set up DB (migrations are left to the migrate command)
	errAndDie(logger, database.CreateIfNotExist(ctx, conf))
	db, err := database.Open(conf)
	errAndDie(logger, err)
	defer func() { _ = db.Close() }()

	deps, err := shared.NewDeps(ctx, conf, logger, db)
	errAndDie(logger, err)

	// start CLI
	cli := commandLine{
		ctx:        ctx,
		db:         db.DB,
		root:       conf.WorkDir,
		out:        os.Stdout,
		validate:   deps.Validate,
		translator: deps.Translator,
		quizSvc:    deps.QuizSvc,
		studentSvc: deps.StudentSvc,
		dispatcher: deps.Dispatcher,
		transports: deps.Transports,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			_, _ = fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
