package sqlxrepos

import (
	"strings"

	"github.com/lib/pq"

	"github.com/trezcool/bibleschool/core"
)

// orderBy only lets whitelisted columns through.
func orderBy(ordering []core.DBOrdering, fields map[string]string, fallback string) string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := fields[ord.Field]; ok {
			clauses = append(clauses, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(clauses) == 0 {
		return fallback
	}
	return strings.Join(clauses, ", ")
}

// isInvalidUUID reports a malformed id: 22P02 invalid_text_representation.
func isInvalidUUID(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "22P02"
}

// isUniqueViolation returns the violated constraint: 23505 unique_violation.
func isUniqueViolation(err error) (string, bool) {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return "", false
	}
	return pqErr.Constraint, true
}
