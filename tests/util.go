package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/core/student"
	"github.com/trezcool/bibleschool/storage/database"
)

// PrepareDB returns a freshly migrated test database, closed at the end of the test.
// The test is skipped when no database is reachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("ENV") == "" {
		t.Setenv("ENV", "TEST")
	}
	conf := core.NewConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Skipf("database unavailable: %v", err)
	}

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB, "reset"); err != nil {
		t.Fatalf("database.Migrate(reset) failed: %v", err)
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		t.Fatalf("database.Migrate(up) failed: %v", err)
	}
	return db
}

// Logger records every entry and echoes it through t.Logf.
type Logger struct {
	t       testing.TB
	mu      sync.Mutex
	entries []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t testing.TB) *Logger {
	return &Logger{t: t}
}

func (l *Logger) log(level, msg string, args ...interface{}) {
	entry := level + ": " + msg
	for _, arg := range args {
		entry += fmt.Sprintf(" | %v", arg)
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	l.t.Logf("%s", entry)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args...) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args...) }

// Count returns how many entries were logged at `level` (eg. "WARN").
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.entries {
		if strings.HasPrefix(e, level+": ") {
			n++
		}
	}
	return n
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, phone, pushKey string,
	courseIDs []string,
	isActive bool,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	s := student.Student{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		PushKey:   pushKey,
		CourseIDs: courseIDs,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	s, err := repo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}
