package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/bibleschool/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CheckUniqueness(_ context.Context, email, phone string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.rows {
		if email != "" && s.Email == email {
			return student.ErrEmailExists
		}
		if phone != "" && s.Phone == phone {
			return student.ErrPhoneExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.CourseIDs = append([]string{}, s.CourseIDs...)
	repo.db.rows = append(repo.db.rows, &s)
	return s, nil
}

func (repo *studentRepository) find(id string) *student.Student {
	for _, s := range repo.db.rows {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s := repo.find(id); s != nil {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.rows))
	for _, s := range repo.db.rows {
		if matchStudent(*s, filter) {
			students = append(students, *s)
		}
	}
	return students, nil
}

func (repo *studentRepository) Enroll(_ context.Context, studentID, courseID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s := repo.find(studentID)
	if s == nil {
		return student.ErrNotFound
	}
	if !s.IsEnrolled(courseID) {
		s.CourseIDs = append(s.CourseIDs, courseID)
	}
	return nil
}

func matchStudent(s student.Student, filter *student.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.Email), search) &&
			!strings.Contains(s.Phone, search) {
			return false
		}
	}
	if filter.CourseID != "" && !s.IsEnrolled(filter.CourseID) {
		return false
	}
	if filter.IsActive != nil && s.IsActive != *filter.IsActive {
		return false
	}
	return true
}
