package planner

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"pagesnap/internal/page"
	"pagesnap/internal/sqlutil"
)

const (
	// DefaultWindowLimit is the page size applied when neither first nor
	// last is requested.
	DefaultWindowLimit = 25
	// MaxWindowLimit is the inclusive upper bound for first/last. Values
	// outside [0, MaxWindowLimit] are validation failures upstream, never
	// silently clamped here.
	MaxWindowLimit = 10000
)

// Mode is the pagination traversal direction.
type Mode string

const (
	ModeForward  Mode = "forward"
	ModeBackward Mode = "backward"
)

// Window is the resolved pagination request: a traversal mode, a bounded
// edge count, and an optional exclusive cursor (a page id).
type Window struct {
	Mode      Mode
	Limit     int
	CursorID  string
	HasCursor bool
}

// ResolveWindow derives the window from the raw pagination arguments.
// after takes precedence for forward traversal; before or a bare last
// select backward traversal.
func ResolveWindow(params page.ListParams) Window {
	switch {
	case params.After != nil:
		return Window{
			Mode:      ModeForward,
			Limit:     firstOf(params.First, params.Last),
			CursorID:  *params.After,
			HasCursor: true,
		}
	case params.Before != nil:
		return Window{
			Mode:      ModeBackward,
			Limit:     firstOf(params.Last, params.First),
			CursorID:  *params.Before,
			HasCursor: true,
		}
	case params.Last != nil:
		return Window{Mode: ModeBackward, Limit: *params.Last}
	case params.First != nil:
		return Window{Mode: ModeForward, Limit: *params.First}
	default:
		return Window{Mode: ModeForward, Limit: DefaultWindowLimit}
	}
}

func firstOf(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return DefaultWindowLimit
}

// BuildSeekCondition creates a SQL row comparison for cursor-based seek.
// For ASC: (col1, col2) > ($1, $2)
// For DESC: (col1, col2) < ($1, $2)
func BuildSeekCondition(columns []string, values []any, direction string) sq.Sqlizer {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = sqlutil.QuoteIdentifier(col)
	}

	lhs := "(" + strings.Join(quoted, ", ") + ")"
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = "?"
	}
	rhs := "(" + strings.Join(placeholders, ", ") + ")"

	op := ">"
	if strings.ToUpper(direction) == "DESC" {
		op = "<"
	}

	return sq.Expr(lhs+" "+op+" "+rhs, values...)
}

// SeekAfter builds the condition selecting rows strictly beyond the
// boundary values in sort order.
func SeekAfter(sort *SortClause, values []any) sq.Sqlizer {
	return BuildSeekCondition(sort.Columns(), values, sort.Direction)
}

// SeekBefore builds the condition selecting rows strictly before the
// boundary values in sort order.
func SeekBefore(sort *SortClause, values []any) sq.Sqlizer {
	return BuildSeekCondition(sort.Columns(), values, reverseDirection(sort.Direction))
}

// PlanWindowQuery builds the windowed select: filters, optional seek,
// ORDER BY and LIMIT. Backward windows pass the reversed sort clause and
// re-reverse the scanned rows; limit is the requested size plus one so
// the caller can detect rows beyond the window.
func PlanWindowQuery(opts *QueryOptions, seek sq.Sqlizer, sort *SortClause, limit int) (SQLQuery, error) {
	builder := sq.Select(quotedPageColumns()...).
		From(sqlutil.QuoteIdentifier(tablePages))

	for _, cond := range opts.filters() {
		builder = builder.Where(cond)
	}
	if seek != nil {
		builder = builder.Where(seek)
	}

	builder = builder.OrderBy(sort.OrderBy()...).
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

// PlanExistsBeyond builds an existence probe for rows past the given
// seek boundary under the same filters. It backs the page-info booleans,
// which must reflect the filtered set rather than the whole table.
func PlanExistsBeyond(opts *QueryOptions, seek sq.Sqlizer) (SQLQuery, error) {
	builder := sq.Select("1").
		From(sqlutil.QuoteIdentifier(tablePages))

	for _, cond := range opts.filters() {
		builder = builder.Where(cond)
	}
	builder = builder.Where(seek).
		Limit(1).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}
