package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/core/quiz"
	"github.com/trezcool/bibleschool/core/student"
)

var (
	confirmFunc = confirm // mockable

	errHelp        = errors.New("help provided")
	errNotTerminal = errors.New("stdin is not a terminal, use -yes to skip the confirmation")
)

type commandLine struct {
	ctx        context.Context
	db         *sql.DB
	root       string // import manifests may only reference files under root
	out        io.Writer
	validate   *validator.Validate
	translator ut.Translator
	quizSvc    quiz.ServiceInterface
	studentSvc student.ServiceInterface
	dispatcher *notify.Dispatcher
	transports notify.Transports
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                                 - run a goose command (up, down, status, ...)")
	_, _ = fmt.Fprintln(cli.out, "  importquizzes -manifest FILE                           - import the quizzes listed in a YAML manifest")
	_, _ = fmt.Fprintln(cli.out, "  parsequiz -file FILE [-format yaml|json]               - parse a quiz file and print the result")
	_, _ = fmt.Fprintln(cli.out, "  addstudent -name NAME [-email] [-phone] [-pushkey] [-courses a,b]")
	_, _ = fmt.Fprintln(cli.out, "  announce -channel email|sms|push -title TITLE [-date] [-location] [-message] [-subject] [-course ID] [-yes]")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "importquizzes":
		cmd := cli.newFlagSet("importquizzes")
		manifest := cmd.String("manifest", "", "YAML manifest listing the quiz files (paths relative to the manifest)")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *manifest == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.importQuizzes(*manifest)

	case "parsequiz":
		cmd := cli.newFlagSet("parsequiz")
		file := cmd.String("file", "", "The quiz text file")
		format := cmd.String("format", "yaml", "Output format: yaml or json")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *file == "" || (*format != "yaml" && *format != "json") {
			cmd.Usage()
			return errHelp
		}
		return cli.parseQuiz(*file, *format)

	case "addstudent":
		cmd := cli.newFlagSet("addstudent")
		ns := student.NewStudent{}
		cmd.StringVar(&ns.Name, "name", "", "The student's full name")
		cmd.StringVar(&ns.Email, "email", "", "Email address")
		cmd.StringVar(&ns.Phone, "phone", "", "Phone number, E.164 format (eg. +243810000000)")
		cmd.StringVar(&ns.PushKey, "pushkey", "", "Pushover user key")
		courses := cmd.String("courses", "", "Comma-separated course IDs")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *courses != "" {
			ns.CourseIDs = strings.Split(*courses, ",")
		}
		return cli.addStudent(ns)

	case "announce":
		cmd := cli.newFlagSet("announce")
		a := announcement{}
		cmd.StringVar(&a.channel, "channel", "", "email, sms or push")
		cmd.StringVar(&a.courseID, "course", "", "Only notify the students enrolled in this course")
		cmd.StringVar(&a.content.Subject, "subject", "", "Email subject and push title (defaults to the title)")
		cmd.StringVar(&a.content.Title, "title", "", "Event title")
		cmd.StringVar(&a.content.Date, "date", "", "Event date")
		cmd.StringVar(&a.content.Location, "location", "", "Event location")
		cmd.StringVar(&a.content.Message, "message", "", "Free text appended to the announcement")
		cmd.BoolVar(&a.yes, "yes", false, "Do not ask for confirmation")
		if err := cmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if a.channel == "" || a.content.IsEmpty() {
			cmd.Usage()
			return errHelp
		}
		return cli.announce(a)

	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on the terminal. Anything but y/yes is a no.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errNotTerminal
	}
	fmt.Print(prompt + " [y/N] ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
