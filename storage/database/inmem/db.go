package inmemdb

import (
	"sync"

	"github.com/trezcool/bibleschool/core/quiz"
	"github.com/trezcool/bibleschool/core/student"
)

type (
	// DB keeps every table in memory. Rows are kept in insertion order.
	DB struct {
		quiz     *quizTable
		question *questionTable
		student  *studentTable
	}

	quizTable struct {
		rows  []*quiz.Quiz
		mutex sync.RWMutex
	}

	questionTable struct {
		rows  []*quiz.Question
		mutex sync.RWMutex
	}

	studentTable struct {
		rows  []*student.Student
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		quiz:     new(quizTable),
		question: new(questionTable),
		student:  new(studentTable),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.quiz.mutex.Lock()
	db.quiz.rows = nil
	db.quiz.mutex.Unlock()

	db.question.mutex.Lock()
	db.question.rows = nil
	db.question.mutex.Unlock()

	db.student.mutex.Lock()
	db.student.rows = nil
	db.student.mutex.Unlock()
}
