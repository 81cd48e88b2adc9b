package planner

import (
	sq "github.com/Masterminds/squirrel"

	"pagesnap/internal/page"
	"pagesnap/internal/sqlutil"
)

// DateRangeCondition translates a date-range filter into a SQL condition.
// It produces zero, one, or two comparisons ANDed together; nil means no
// constraint. Inclusive bounds take precedence over exclusive ones: gte
// is checked before gt and lte before lt.
func DateRangeCondition(filter *page.DateRangeFilter) sq.Sqlizer {
	if filter == nil {
		return nil
	}

	conditions := []sq.Sqlizer{}

	if filter.Gte != nil {
		conditions = append(conditions, sq.GtOrEq{sqlutil.QuoteIdentifier(columnDate): *filter.Gte})
	} else if filter.Gt != nil {
		conditions = append(conditions, sq.Gt{sqlutil.QuoteIdentifier(columnDate): *filter.Gt})
	}

	if filter.Lte != nil {
		conditions = append(conditions, sq.LtOrEq{sqlutil.QuoteIdentifier(columnDate): *filter.Lte})
	} else if filter.Lt != nil {
		conditions = append(conditions, sq.Lt{sqlutil.QuoteIdentifier(columnDate): *filter.Lt})
	}

	if len(conditions) == 0 {
		return nil
	}
	if len(conditions) == 1 {
		return conditions[0]
	}
	return sq.And(conditions)
}

// TypeCondition translates a type-membership filter into a SQL condition.
// Exactly one operator applies, chosen in priority order eq, ne, in, nin;
// nil means no operator was present. Empty in/nin lists are rejected by
// input validation before this point.
func TypeCondition(filter *page.TypeFilter) sq.Sqlizer {
	if filter == nil {
		return nil
	}

	switch {
	case filter.Eq != nil:
		return sq.Eq{sqlutil.QuoteIdentifier(columnType): string(*filter.Eq)}
	case filter.Ne != nil:
		return sq.NotEq{sqlutil.QuoteIdentifier(columnType): string(*filter.Ne)}
	case filter.In != nil:
		return sq.Eq{sqlutil.QuoteIdentifier(columnType): typeStrings(filter.In)}
	case filter.Nin != nil:
		return sq.NotEq{sqlutil.QuoteIdentifier(columnType): typeStrings(filter.Nin)}
	default:
		return nil
	}
}

// FilterConditions collects the non-nil conditions of a combined filter.
func FilterConditions(filter *page.Filter) []sq.Sqlizer {
	if filter == nil {
		return nil
	}

	conditions := []sq.Sqlizer{}
	if cond := DateRangeCondition(filter.Date); cond != nil {
		conditions = append(conditions, cond)
	}
	if cond := TypeCondition(filter.Type); cond != nil {
		conditions = append(conditions, cond)
	}
	return conditions
}

// QueryOptions is the composed filter/sort state handed to query
// builders. Its four shapes are: nil (no options), sort-only,
// filters-only, or both; a partial ambiguous state never reaches the
// store layer.
type QueryOptions struct {
	Filters []sq.Sqlizer
	Sort    *SortClause
}

// BuildQueryOptions combines an optional filter and an optional sort
// into one of the four QueryOptions shapes.
func BuildQueryOptions(filter *page.Filter, sort *page.Sort) *QueryOptions {
	filters := FilterConditions(filter)
	sortClause := SortClauseFor(sort)

	if len(filters) == 0 && sortClause == nil {
		return nil
	}
	if len(filters) == 0 {
		return &QueryOptions{Sort: sortClause}
	}
	if sortClause == nil {
		return &QueryOptions{Filters: filters}
	}
	return &QueryOptions{Filters: filters, Sort: sortClause}
}

// EffectiveSort resolves the sort clause in effect, falling back to the
// store default order when the options carry none.
func (o *QueryOptions) EffectiveSort() *SortClause {
	if o != nil && o.Sort != nil {
		return o.Sort
	}
	return DefaultSort()
}

func (o *QueryOptions) filters() []sq.Sqlizer {
	if o == nil {
		return nil
	}
	return o.Filters
}

func typeStrings(types []page.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
