package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/quiz"
)

type quizRepository struct {
	quizzes   *quizTable
	questions *questionTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) *quizRepository {
	return &quizRepository{quizzes: db.quiz, questions: db.question}
}

func (repo *quizRepository) CreateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.quizzes.mutex.Lock()
	defer repo.quizzes.mutex.Unlock()

	if qz.ID == "" {
		qz.ID = uuid.New().String()
	}
	repo.quizzes.rows = append(repo.quizzes.rows, &qz)
	return qz, nil
}

func (repo *quizRepository) CreateQuestion(_ context.Context, q quiz.Question) (quiz.Question, error) {
	repo.quizzes.mutex.RLock()
	exists := repo.findQuiz(q.QuizID) != nil
	repo.quizzes.mutex.RUnlock()
	if !exists {
		return quiz.Question{}, quiz.ErrNotFound
	}

	repo.questions.mutex.Lock()
	defer repo.questions.mutex.Unlock()

	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	q.Options = append([]string(nil), q.Options...)
	repo.questions.rows = append(repo.questions.rows, &q)
	return q, nil
}

// findQuiz expects the caller to hold the lock.
func (repo *quizRepository) findQuiz(id string) *quiz.Quiz {
	for _, qz := range repo.quizzes.rows {
		if qz.ID == id {
			return qz
		}
	}
	return nil
}

func (repo *quizRepository) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	repo.quizzes.mutex.RLock()
	defer repo.quizzes.mutex.RUnlock()

	if qz := repo.findQuiz(id); qz != nil {
		return *qz, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzes(_ context.Context, filter *quiz.QueryFilter, ordering []core.DBOrdering) ([]quiz.Quiz, error) {
	repo.quizzes.mutex.RLock()
	defer repo.quizzes.mutex.RUnlock()

	quizzes := make([]quiz.Quiz, 0, len(repo.quizzes.rows))
	for _, qz := range repo.quizzes.rows {
		if matchQuiz(*qz, filter) {
			quizzes = append(quizzes, *qz)
		}
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(quizzes, func(i, j int) bool {
		for _, ord := range ordering {
			c := compareQuizzes(quizzes[i], quizzes[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return quizzes, nil
}

func (repo *quizRepository) QueryQuestions(_ context.Context, quizID string) ([]quiz.Question, error) {
	repo.questions.mutex.RLock()
	defer repo.questions.mutex.RUnlock()

	questions := make([]quiz.Question, 0)
	for _, q := range repo.questions.rows {
		if q.QuizID == quizID {
			questions = append(questions, *q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].OrderIndex < questions[j].OrderIndex })
	return questions, nil
}

func matchQuiz(qz quiz.Quiz, filter *quiz.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(qz.Title), search) && !strings.Contains(strings.ToLower(qz.Week), search) {
			return false
		}
	}
	if filter.IsFinalExam != nil && qz.IsFinalExam != *filter.IsFinalExam {
		return false
	}
	if filter.IsPublished != nil && qz.IsPublished != *filter.IsPublished {
		return false
	}
	return true
}

func compareQuizzes(a, b quiz.Quiz, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "week":
		return strings.Compare(a.Week, b.Week)
	case "is_final_exam":
		return compareBools(a.IsFinalExam, b.IsFinalExam)
	default: // created_at
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
