package quiz

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = errors.New("quiz not found")
	ErrNoQuestions = errors.New("no questions found")
	errParsePanic  = errors.New("parser panicked")
)

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuiz(ctx context.Context, id string) (Quiz, error)
		QueryQuizzes(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Quiz, error)
		QueryQuestions(ctx context.Context, quizID string) ([]Question, error)
	}

	ServiceInterface interface {
		Parse(text string) ParsedQuiz
		ParseFile(fsys fs.FS, path string) (ParsedQuiz, error)
		Import(ctx context.Context, fsys fs.FS, entries []ImportEntry) ImportReport
		Get(ctx context.Context, id string) (Quiz, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Quiz, error)
		Questions(ctx context.Context, quizID string) ([]Question, error)
	}

	Service struct {
		repo     Repository
		parser   *Parser
		policy   Policy
		validate *validator.Validate
		logger   core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, parser *Parser, policy Policy, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		parser:   parser,
		policy:   policy,
		validate: validate,
		logger:   logger,
	}
}

func (svc *Service) Parse(text string) ParsedQuiz {
	return svc.parser.Parse(text)
}

// ParseFile reads and parses one file. A file without any question is an error.
func (svc *Service) ParseFile(fsys fs.FS, path string) (pq ParsedQuiz, err error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return ParsedQuiz{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			pq, err = ParsedQuiz{}, errors.Wrapf(errParsePanic, "%v", r)
		}
	}()
	pq = svc.parser.Parse(string(content))
	if len(pq.Questions) == 0 {
		return pq, ErrNoQuestions
	}
	return pq, nil
}

// Import creates one published Quiz per entry and persists its complete questions.
// Nothing here aborts the batch: missing files, parse failures and persistence
// failures are logged and skipped. Questions are committed one by one (no transaction),
// a failed run is recovered by running it again.
func (svc *Service) Import(ctx context.Context, fsys fs.FS, entries []ImportEntry) ImportReport {
	report := ImportReport{Files: make([]FileReport, 0, len(entries))}

	for _, entry := range entries {
		fr := svc.importEntry(ctx, fsys, entry)
		if fr.QuizID != "" {
			report.QuizzesCreated++
		}
		report.QuestionsAccepted += fr.Accepted
		report.Files = append(report.Files, fr)
	}

	svc.logger.Info(fmt.Sprintf(
		"import done: %d/%d quizzes created, %d questions accepted",
		report.QuizzesCreated, len(entries), report.QuestionsAccepted,
	))
	return report
}

func (svc *Service) importEntry(ctx context.Context, fsys fs.FS, entry ImportEntry) FileReport {
	fr := FileReport{Entry: entry}
	skip := func(err error) FileReport {
		fr.Skipped = true
		fr.SkipError = err.Error()
		return fr
	}

	if err := svc.validate.Struct(entry); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalid import entry %+v, skipping", entry), err)
		return skip(err)
	}

	parsed, err := svc.ParseFile(fsys, entry.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			svc.logger.Warn(fmt.Sprintf("%s: file not found %q, skipping", entry.Week, entry.Path))
		} else {
			svc.logger.Error(fmt.Sprintf("%s: parsing %q failed, skipping", entry.Week, entry.Path), err)
		}
		return skip(err)
	}
	fr.Parsed = len(parsed.Questions)

	qz, err := svc.repo.CreateQuiz(ctx, svc.newQuiz(entry, parsed))
	if err != nil {
		svc.logger.Error(fmt.Sprintf("%s: creating quiz failed, skipping", entry.Week), errors.Wrap(err, "creating quiz"))
		return skip(err)
	}
	fr.QuizID = qz.ID

	for _, pq := range parsed.Questions {
		if !pq.IsComplete() {
			fr.Rejected++
			continue
		}
		if _, err := svc.repo.CreateQuestion(ctx, newQuestion(qz.ID, pq)); err != nil {
			fr.Failed++
			svc.logger.Error(
				fmt.Sprintf("%s: saving question %d failed", entry.Week, pq.OrderIndex),
				errors.Wrap(err, "creating question"),
			)
			continue
		}
		fr.Accepted++
	}

	svc.logger.Info(fmt.Sprintf(
		"%s: created quiz %q (%s) with %d/%d questions",
		entry.Week, qz.Title, qz.ID, fr.Accepted, fr.Parsed,
	))
	return fr
}

func (svc *Service) newQuiz(entry ImportEntry, parsed ParsedQuiz) Quiz {
	timeLimit := svc.policy.TimeLimit
	if entry.FinalExam {
		timeLimit = svc.policy.FinalExamTimeLimit
	}
	return Quiz{
		ID:           uuid.New().String(),
		Title:        parsed.Title,
		Week:         core.CleanString(entry.Week),
		PassingScore: svc.policy.PassingScore,
		TimeLimit:    timeLimit,
		IsFinalExam:  entry.FinalExam,
		IsPublished:  true,
		CreatedAt:    NowFunc().UTC(),
	}
}

func newQuestion(quizID string, pq ParsedQuestion) Question {
	return Question{
		ID:            uuid.New().String(),
		QuizID:        quizID,
		Question:      pq.Question,
		Type:          TypeMultipleChoice,
		Options:       append([]string(nil), pq.Options...),
		CorrectAnswer: pq.CorrectAnswer,
		Points:        DefaultPoints,
		OrderIndex:    pq.OrderIndex,
		IsBonus:       false,
		CreatedAt:     NowFunc().UTC(),
	}
}

func (svc *Service) Get(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuiz(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx, filter, ordering)
}

func (svc *Service) Questions(ctx context.Context, quizID string) ([]Question, error) {
	if _, err := svc.repo.GetQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	return svc.repo.QueryQuestions(ctx, quizID)
}
