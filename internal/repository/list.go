package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"pagesnap/internal/apperror"
	"pagesnap/internal/page"
	"pagesnap/internal/planner"
)

// GetPages returns the requested window of the filtered, sorted page
// set. Cursors are page ids; a cursor referencing a missing page is a
// NotFound error rather than an empty window.
func (r *Repository) GetPages(ctx context.Context, params page.ListParams) (*page.Connection, error) {
	opts := planner.BuildQueryOptions(params.Filter, params.Sort)
	window := planner.ResolveWindow(params)
	sort := opts.EffectiveSort()

	var seek sq.Sqlizer
	var boundary *page.Page
	if window.HasCursor {
		var err error
		boundary, err = r.GetPage(ctx, window.CursorID)
		if err != nil {
			return nil, err
		}
		values := seekValues(sort, boundary)
		if window.Mode == planner.ModeBackward {
			seek = planner.SeekBefore(sort, values)
		} else {
			seek = planner.SeekAfter(sort, values)
		}
	}

	querySort := sort
	if window.Mode == planner.ModeBackward {
		querySort = sort.Reversed()
	}

	planned, err := planner.PlanWindowQuery(opts, seek, querySort, window.Limit+1)
	if err != nil {
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	rows, err := r.queryPages(ctx, planned)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > window.Limit
	if hasMore {
		rows = rows[:window.Limit]
	}
	if window.Mode == planner.ModeBackward {
		reverseRows(rows)
	}

	edges := make([]page.Edge, len(rows))
	for i, row := range rows {
		node := row.toPage()
		edges[i] = page.Edge{Cursor: node.ID, Node: node}
	}

	info, err := r.pageInfo(ctx, opts, sort, window, edges, boundary, hasMore)
	if err != nil {
		return nil, err
	}

	return &page.Connection{Edges: edges, PageInfo: info}, nil
}

// pageInfo derives the window booleans against the filtered set. The
// scan direction already knows whether more rows follow it (the extra
// row fetched beyond the limit); the opposite direction is answered by
// an existence probe from the window's edge row, or from the cursor
// row when a zero-sized window holds no edges.
func (r *Repository) pageInfo(ctx context.Context, opts *planner.QueryOptions, sort *planner.SortClause, window planner.Window, edges []page.Edge, boundary *page.Page, hasMore bool) (page.PageInfo, error) {
	var info page.PageInfo

	anchorAfter := boundary
	anchorBefore := boundary
	if len(edges) > 0 {
		anchorBefore = edges[0].Node
		anchorAfter = edges[len(edges)-1].Node
		info.StartCursor = &edges[0].Cursor
		info.EndCursor = &edges[len(edges)-1].Cursor
	}

	if window.Mode == planner.ModeBackward {
		info.HasPreviousPage = hasMore
		if anchorAfter != nil {
			next, err := r.existsBeyond(ctx, opts, planner.SeekAfter(sort, seekValues(sort, anchorAfter)))
			if err != nil {
				return page.PageInfo{}, err
			}
			info.HasNextPage = next
		}
		return info, nil
	}

	info.HasNextPage = hasMore
	if anchorBefore != nil {
		previous, err := r.existsBeyond(ctx, opts, planner.SeekBefore(sort, seekValues(sort, anchorBefore)))
		if err != nil {
			return page.PageInfo{}, err
		}
		info.HasPreviousPage = previous
	}
	return info, nil
}

func (r *Repository) existsBeyond(ctx context.Context, opts *planner.QueryOptions, seek sq.Sqlizer) (bool, error) {
	planned, err := planner.PlanExistsBeyond(opts, seek)
	if err != nil {
		return false, apperror.Unknown("Unknown error occurred", err)
	}

	rows, err := r.executor.QueryContext(ctx, planned.SQL, planned.Args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "page existence probe failed", "error", err)
		return false, apperror.Unknown("Unknown error occurred", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, apperror.Unknown("Unknown error occurred", err)
	}
	return found, nil
}

// seekValues pulls the boundary row values for the sort's column list,
// in column order, for use in a row-comparison seek.
func seekValues(sort *planner.SortClause, p *page.Page) []any {
	columns := sort.Columns()
	values := make([]any, len(columns))
	for i, column := range columns {
		values[i] = columnValue(p, column)
	}
	return values
}

func columnValue(p *page.Page, column string) any {
	switch column {
	case "type":
		return string(p.Type)
	case "date":
		return p.Date
	case "site":
		return p.Site
	case "file":
		return p.File
	default:
		return p.ID
	}
}

func reverseRows(rows []pageRow) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
