package quiz

import (
	"time"
)

const (
	TypeMultipleChoice = "multiple_choice"
	DefaultPoints      = 1
	MinOptions         = 4
)

// Quiz is a named set of multiple-choice questions with a passing threshold and time limit.
type Quiz struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Week         string    `json:"week"`
	PassingScore int       `json:"passing_score"` // percent
	TimeLimit    int       `json:"time_limit"`    // minutes
	IsFinalExam  bool      `json:"is_final_exam"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

type Question struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quiz_id"`
	Question      string    `json:"question"`
	Type          string    `json:"type"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Points        int       `json:"points"`
	OrderIndex    int       `json:"order_index"`
	IsBonus       bool      `json:"is_bonus"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// ParsedQuiz is what the Parser extracts from one text file.
type ParsedQuiz struct {
	Title     string           `json:"title" yaml:"title"`
	Questions []ParsedQuestion `json:"questions" yaml:"questions"`
}

// ParsedQuestion is a transient, possibly incomplete, question record.
type ParsedQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"` // A-D or empty
	OrderIndex    int      `json:"order_index" yaml:"order_index"`       // 1-based
}

// IsComplete reports whether the question can be persisted:
// at least MinOptions options and a recognized answer letter.
func (q ParsedQuestion) IsComplete() bool {
	return len(q.Options) >= MinOptions && q.CorrectAnswer != ""
}

// Complete returns only the questions that can be persisted.
func (pq ParsedQuiz) Complete() []ParsedQuestion {
	qs := make([]ParsedQuestion, 0, len(pq.Questions))
	for _, q := range pq.Questions {
		if q.IsComplete() {
			qs = append(qs, q)
		}
	}
	return qs
}

// Policy is applied to every imported quiz.
type Policy struct {
	PassingScore       int
	TimeLimit          int
	FinalExamTimeLimit int
}

func DefaultPolicy() Policy {
	return Policy{
		PassingScore:       70,
		TimeLimit:          60,
		FinalExamTimeLimit: 120,
	}
}

// ImportEntry is one (week-label, file-path) pair of an import batch.
type ImportEntry struct {
	Week      string `json:"week" yaml:"week" validate:"notblank"`
	Path      string `json:"path" yaml:"path" validate:"notblank"`
	FinalExam bool   `json:"final_exam" yaml:"final_exam"`
}

// FileReport describes the outcome of importing one ImportEntry.
type FileReport struct {
	Entry     ImportEntry `json:"entry"`
	QuizID    string      `json:"quiz_id,omitempty"`
	Parsed    int         `json:"parsed"`
	Accepted  int         `json:"accepted"`
	Rejected  int         `json:"rejected"` // incomplete questions
	Failed    int         `json:"failed"`   // persistence failures
	Skipped   bool        `json:"skipped"`
	SkipError string      `json:"skip_error,omitempty"`
}

type ImportReport struct {
	Files             []FileReport `json:"files"`
	QuizzesCreated    int          `json:"quizzes_created"`
	QuestionsAccepted int          `json:"questions_accepted"`
}

type QueryFilter struct {
	Search      string `query:"search"`
	IsFinalExam *bool  `query:"is_final_exam"`
	IsPublished *bool  `query:"is_published"`
}
