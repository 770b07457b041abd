package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/student"
)

const studentSelect = `
	SELECT s.id, s.name, s.email, s.phone, s.push_key, s.is_active, s.created_at, s.updated_at,
	       COALESCE(ARRAY_AGG(e.course_id ORDER BY e.enrolled_at) FILTER (WHERE e.course_id IS NOT NULL), '{}') AS course_ids
	FROM student s
	LEFT JOIN enrollment e ON e.student_id = s.id`

type studentRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Email     null.String    `db:"email"`
	Phone     null.String    `db:"phone"`
	PushKey   null.String    `db:"push_key"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	CourseIDs pq.StringArray `db:"course_ids"`
}

func (r studentRow) student() student.Student {
	courseIDs := []string(r.CourseIDs)
	if courseIDs == nil {
		courseIDs = []string{}
	}
	return student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email.String,
		Phone:     r.Phone.String,
		PushKey:   r.PushKey.String,
		CourseIDs: courseIDs,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// nullString stores empty strings as NULL so UNIQUE only applies to set values.
func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CheckUniqueness(ctx context.Context, email, phone string) error {
	var taken struct {
		Email bool `db:"email"`
		Phone bool `db:"phone"`
	}
	const q = `
	SELECT COALESCE(BOOL_OR(email = $1), false) AS email, COALESCE(BOOL_OR(phone = $2), false) AS phone
	FROM student WHERE email = $1 OR phone = $2`

	if err := repo.db.GetContext(ctx, &taken, q, nullString(email), nullString(phone)); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	switch {
	case taken.Email:
		return student.ErrEmailExists
	case taken.Phone:
		return student.ErrPhoneExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
	INSERT INTO student (id, name, email, phone, push_key, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err = tx.ExecContext(
		ctx, q,
		s.ID, s.Name, nullString(s.Email), nullString(s.Phone), nullString(s.PushKey),
		s.IsActive, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	); err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			switch constraint {
			case "student_email_key":
				return student.Student{}, student.ErrEmailExists
			case "student_phone_key":
				return student.Student{}, student.ErrPhoneExists
			}
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}

	for _, courseID := range s.CourseIDs {
		if err = enroll(ctx, tx, s.ID, courseID); err != nil {
			return student.Student{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return student.Student{}, errors.Wrap(err, "committing student")
	}
	return s, nil
}

func enroll(ctx context.Context, exec core.DBExecutor, studentID, courseID string) error {
	const q = `
	INSERT INTO enrollment (student_id, course_id, enrolled_at) VALUES ($1, $2, NOW())
	ON CONFLICT (student_id, course_id) DO NOTHING`
	if _, err := exec.ExecContext(ctx, q, studentID, courseID); err != nil {
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	q := studentSelect + " WHERE s.id = $1 GROUP BY s.id"
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows || isInvalidUUID(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.student(), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter) ([]student.Student, error) {
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
			conds = append(conds, fmt.Sprintf("(s.name ILIKE %s OR s.email ILIKE %s OR s.phone ILIKE %s)", p, p, p))
		}
		if filter.CourseID != "" {
			conds = append(conds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM enrollment ce WHERE ce.student_id = s.id AND ce.course_id = %s)", arg(filter.CourseID),
			))
		}
		if filter.IsActive != nil {
			conds = append(conds, "s.is_active = "+arg(*filter.IsActive))
		}
	}

	q := studentSelect
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " GROUP BY s.id ORDER BY s.created_at, s.name"

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo studentRepository) Enroll(ctx context.Context, studentID, courseID string) error {
	return enroll(ctx, repo.db, studentID, courseID)
}
