package planner

import (
	"fmt"
	"strings"

	"pagesnap/internal/page"
	"pagesnap/internal/sqlutil"
)

// SortClause is a resolved ordering for page queries. The id column is
// always appended as a same-direction tie-breaker so that row-comparison
// seeks stay consistent with ORDER BY.
type SortClause struct {
	// Field is the user-requested sort column; empty for the default order.
	Field     string
	Direction string
}

// SortClauseFor resolves an optional sort input. Nil input yields nil;
// callers fall back to DefaultSort.
func SortClauseFor(sort *page.Sort) *SortClause {
	if sort == nil {
		return nil
	}
	direction := strings.ToUpper(string(sort.Order))
	if direction != "DESC" {
		direction = "ASC"
	}
	return &SortClause{
		Field:     strings.ToLower(string(sort.Field)),
		Direction: direction,
	}
}

// DefaultSort is the store order applied when no sort is requested:
// id ascending. It is stable and cursor-compatible by construction.
func DefaultSort() *SortClause {
	return &SortClause{Direction: "ASC"}
}

// Columns returns the ordered column list the clause sorts by,
// ending with the id tie-breaker.
func (s *SortClause) Columns() []string {
	if s.Field == "" || s.Field == columnID {
		return []string{columnID}
	}
	return []string{s.Field, columnID}
}

// OrderBy renders the ORDER BY expressions with quoted identifiers.
func (s *SortClause) OrderBy() []string {
	cols := s.Columns()
	clauses := make([]string, len(cols))
	for i, col := range cols {
		clauses[i] = fmt.Sprintf("%s %s", sqlutil.QuoteIdentifier(col), s.Direction)
	}
	return clauses
}

// Reversed returns the clause with the opposite direction, used for
// backward pagination windows.
func (s *SortClause) Reversed() *SortClause {
	return &SortClause{
		Field:     s.Field,
		Direction: reverseDirection(s.Direction),
	}
}

func reverseDirection(direction string) string {
	if strings.EqualFold(direction, "DESC") {
		return "ASC"
	}
	return "DESC"
}
