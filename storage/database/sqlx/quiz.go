package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/quiz"
)

var quizOrderingFields = map[string]string{
	"created_at":    "created_at",
	"title":         "title",
	"week":          "week",
	"is_final_exam": "is_final_exam",
}

type quizRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Week         string    `db:"week"`
	PassingScore int       `db:"passing_score"`
	TimeLimit    int       `db:"time_limit"`
	IsFinalExam  bool      `db:"is_final_exam"`
	IsPublished  bool      `db:"is_published"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r quizRow) quiz() quiz.Quiz {
	return quiz.Quiz{
		ID:           r.ID,
		Title:        r.Title,
		Week:         r.Week,
		PassingScore: r.PassingScore,
		TimeLimit:    r.TimeLimit,
		IsFinalExam:  r.IsFinalExam,
		IsPublished:  r.IsPublished,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type questionRow struct {
	ID            string         `db:"id"`
	QuizID        string         `db:"quiz_id"`
	Question      string         `db:"question"`
	Type          string         `db:"question_type"`
	Options       pq.StringArray `db:"options"`
	CorrectAnswer string         `db:"correct_answer"`
	Points        int            `db:"points"`
	OrderIndex    int            `db:"order_index"`
	IsBonus       bool           `db:"is_bonus"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r questionRow) question() quiz.Question {
	return quiz.Question{
		ID:            r.ID,
		QuizID:        r.QuizID,
		Question:      r.Question,
		Type:          r.Type,
		Options:       []string(r.Options),
		CorrectAnswer: r.CorrectAnswer,
		Points:        r.Points,
		OrderIndex:    r.OrderIndex,
		IsBonus:       r.IsBonus,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

type quizRepository struct {
	exec core.DBExecutor
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(exec core.DBExecutor) *quizRepository {
	return &quizRepository{exec: exec}
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	const q = `
	INSERT INTO quiz (id, title, week, passing_score, time_limit, is_final_exam, is_published, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := repo.exec.ExecContext(
		ctx, q,
		qz.ID, qz.Title, qz.Week, qz.PassingScore, qz.TimeLimit, qz.IsFinalExam, qz.IsPublished, qz.CreatedAt.UTC(),
	); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) CreateQuestion(ctx context.Context, qn quiz.Question) (quiz.Question, error) {
	const q = `
	INSERT INTO quiz_question (id, quiz_id, question, question_type, options, correct_answer, points, order_index, is_bonus, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := repo.exec.ExecContext(
		ctx, q,
		qn.ID, qn.QuizID, qn.Question, qn.Type, pq.StringArray(qn.Options), qn.CorrectAnswer,
		qn.Points, qn.OrderIndex, qn.IsBonus, qn.CreatedAt.UTC(),
	); err != nil {
		return quiz.Question{}, errors.Wrap(err, "inserting question")
	}
	return qn, nil
}

func (repo quizRepository) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	var row quizRow
	if err := repo.exec.GetContext(ctx, &row, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows || isInvalidUUID(err) {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "selecting quiz")
	}
	return row.quiz(), nil
}

func (repo quizRepository) QueryQuizzes(ctx context.Context, filter *quiz.QueryFilter, ordering []core.DBOrdering) ([]quiz.Quiz, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, fmt.Sprintf("(title ILIKE %s OR week ILIKE %s)", p, p))
		}
		if filter.IsFinalExam != nil {
			conds = append(conds, "is_final_exam = "+arg(*filter.IsFinalExam))
		}
		if filter.IsPublished != nil {
			conds = append(conds, "is_published = "+arg(*filter.IsPublished))
		}
	}

	q := "SELECT * FROM quiz"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering, quizOrderingFields, "created_at DESC")

	var rows []quizRow
	if err := repo.exec.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting quizzes")
	}
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, r := range rows {
		quizzes = append(quizzes, r.quiz())
	}
	return quizzes, nil
}

func (repo quizRepository) QueryQuestions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	var rows []questionRow
	const q = `SELECT * FROM quiz_question WHERE quiz_id = $1 ORDER BY order_index, created_at`
	if err := repo.exec.SelectContext(ctx, &rows, q, quizID); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	questions := make([]quiz.Question, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, r.question())
	}
	return questions, nil
}
