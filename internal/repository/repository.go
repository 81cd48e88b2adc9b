// Package repository implements page persistence on top of a SQL
// executor. All statements are built by the planner package; this layer
// runs them, scans rows, and maps outcomes onto the domain error kinds.
package repository

import (
	"context"
	"time"

	"pagesnap/internal/apperror"
	"pagesnap/internal/dbexec"
	"pagesnap/internal/logging"
	"pagesnap/internal/page"
	"pagesnap/internal/planner"
)

const dateLayout = "2006-01-02"

// Repository provides page CRUD and windowed listing.
type Repository struct {
	executor dbexec.QueryExecutor
	logger   *logging.Logger
}

// New creates a repository backed by the given executor.
func New(executor dbexec.QueryExecutor, logger *logging.Logger) *Repository {
	return &Repository{executor: executor, logger: logger}
}

// pageRow is the scan target for a pages row. The date column arrives as
// a driver time value and is reduced to its calendar date at this
// boundary; no time component ever reaches the domain model.
type pageRow struct {
	id       string
	pageType string
	date     time.Time
	site     string
	file     string
}

func (r pageRow) toPage() *page.Page {
	return &page.Page{
		ID:   r.id,
		Type: page.Type(r.pageType),
		Date: r.date.Format(dateLayout),
		Site: r.site,
		File: r.file,
	}
}

func scanPageRows(rows dbexec.Rows) ([]pageRow, error) {
	var result []pageRow
	for rows.Next() {
		var row pageRow
		if err := rows.Scan(&row.id, &row.pageType, &row.date, &row.site, &row.file); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// queryPages runs a planned statement and scans every returned page row.
func (r *Repository) queryPages(ctx context.Context, planned planner.SQLQuery) ([]pageRow, error) {
	rows, err := r.executor.QueryContext(ctx, planned.SQL, planned.Args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "page query failed", "error", err)
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := scanPageRows(rows)
	if err != nil {
		r.logger.ErrorContext(ctx, "page row scan failed", "error", err)
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	return result, nil
}

// queryOnePage runs a planned statement expected to yield at most one
// row; a missing row maps to NotFound for the given id.
func (r *Repository) queryOnePage(ctx context.Context, planned planner.SQLQuery, id string) (*page.Page, error) {
	result, err := r.queryPages(ctx, planned)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, apperror.NotFound("Page with %s not found", id)
	}
	return result[0].toPage(), nil
}

// GetPage fetches a single page by id.
func (r *Repository) GetPage(ctx context.Context, id string) (*page.Page, error) {
	planned, err := planner.PlanSelectByID(id)
	if err != nil {
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	return r.queryOnePage(ctx, planned, id)
}

// CreatePage inserts a new page row. The id and storage key are produced
// by the caller; the date is assigned by the database.
func (r *Repository) CreatePage(ctx context.Context, id string, input page.CreateInput, fileKey string) (*page.Page, error) {
	planned, err := planner.PlanInsert(id, input.Site, string(input.Type), fileKey)
	if err != nil {
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	result, err := r.queryPages(ctx, planned)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, apperror.Unknown("Unknown error occurred", nil)
	}
	return result[0].toPage(), nil
}

// UpdatePage applies the set fields to the page with the given id and
// returns the updated row. The date column is refreshed on every update.
func (r *Repository) UpdatePage(ctx context.Context, id string, fields *planner.FieldSet) (*page.Page, error) {
	planned, err := planner.PlanUpdate(id, fields)
	if err != nil {
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	return r.queryOnePage(ctx, planned, id)
}

// DeletePage removes the page with the given id and returns the deleted
// row so callers can release its stored artifact.
func (r *Repository) DeletePage(ctx context.Context, id string) (*page.Page, error) {
	planned, err := planner.PlanDelete(id)
	if err != nil {
		return nil, apperror.Unknown("Unknown error occurred", err)
	}
	return r.queryOnePage(ctx, planned, id)
}
