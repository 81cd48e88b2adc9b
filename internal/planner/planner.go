// Package planner turns structured filter, sort, and pagination input
// into parameterized SQL for the pages table. Every value reaches the
// database through driver placeholders; nothing user-supplied is ever
// concatenated into command text.
package planner

import (
	sq "github.com/Masterminds/squirrel"

	"pagesnap/internal/sqlutil"
)

const (
	tablePages = "pages"

	columnID   = "id"
	columnType = "type"
	columnDate = "date"
	columnSite = "site"
	columnFile = "file"
)

var pageColumns = []string{columnID, columnType, columnDate, columnSite, columnFile}

// SQLQuery is a built statement with its bound arguments.
type SQLQuery struct {
	SQL  string
	Args []any
}

func quotedPageColumns() []string {
	quoted := make([]string, len(pageColumns))
	for i, col := range pageColumns {
		quoted[i] = sqlutil.QuoteIdentifier(col)
	}
	return quoted
}

func returningClause() string {
	clause := "RETURNING "
	for i, col := range quotedPageColumns() {
		if i > 0 {
			clause += ", "
		}
		clause += col
	}
	return clause
}

// PlanSelectByID builds the single-page lookup query.
func PlanSelectByID(id string) (SQLQuery, error) {
	builder := sq.Select(quotedPageColumns()...).
		From(sqlutil.QuoteIdentifier(tablePages)).
		Where(sq.Eq{sqlutil.QuoteIdentifier(columnID): id}).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

// PlanInsert builds the insert for a new page. The id is server-generated
// by the caller and the date is always the database's current date; the
// client never supplies either.
func PlanInsert(id string, site string, pageType string, fileKey string) (SQLQuery, error) {
	builder := sq.Insert(sqlutil.QuoteIdentifier(tablePages)).
		Columns(
			sqlutil.QuoteIdentifier(columnID),
			sqlutil.QuoteIdentifier(columnType),
			sqlutil.QuoteIdentifier(columnDate),
			sqlutil.QuoteIdentifier(columnSite),
			sqlutil.QuoteIdentifier(columnFile),
		).
		Values(id, pageType, sq.Expr("CURRENT_DATE"), site, fileKey).
		Suffix(returningClause()).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

// PlanUpdate builds a partial update for the page with the given id.
// Only fields present in the set are written; the date column is
// refreshed to the current date on every update regardless of which
// fields changed.
func PlanUpdate(id string, fields *FieldSet) (SQLQuery, error) {
	builder := sq.Update(sqlutil.QuoteIdentifier(tablePages)).
		Set(sqlutil.QuoteIdentifier(columnDate), sq.Expr("CURRENT_DATE"))

	for _, name := range fields.Names() {
		value, _ := fields.Get(name)
		builder = builder.Set(sqlutil.QuoteIdentifier(name), value)
	}

	builder = builder.
		Where(sq.Eq{sqlutil.QuoteIdentifier(columnID): id}).
		Suffix(returningClause()).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

// PlanDelete builds the delete for the page with the given id, returning
// the removed row.
func PlanDelete(id string) (SQLQuery, error) {
	builder := sq.Delete(sqlutil.QuoteIdentifier(tablePages)).
		Where(sq.Eq{sqlutil.QuoteIdentifier(columnID): id}).
		Suffix(returningClause()).
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}
