package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesnap/internal/apperror"
	"pagesnap/internal/page"
)

func TestGetPagesForward(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Window query fetches one row beyond the requested size.
	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" ORDER BY "id" ASC LIMIT 3`).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PDF", testDate(t, "2023-08-01"), "https://a.test", "key-1").
			AddRow("page-2", "PNG", testDate(t, "2023-08-02"), "https://b.test", "key-2").
			AddRow("page-3", "PDF", testDate(t, "2023-08-03"), "https://c.test", "key-3"))

	// Existence probe for rows before the window start.
	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("id"\) < \(\$1\) LIMIT 1`).
		WithArgs("page-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	first := 2
	conn, err := repo.GetPages(context.Background(), page.ListParams{First: &first})
	require.NoError(t, err)

	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "page-1", conn.Edges[0].Cursor)
	assert.Equal(t, "page-2", conn.Edges[1].Cursor)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	require.NotNil(t, conn.PageInfo.StartCursor)
	assert.Equal(t, "page-1", *conn.PageInfo.StartCursor)
	require.NotNil(t, conn.PageInfo.EndCursor)
	assert.Equal(t, "page-2", *conn.PageInfo.EndCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesAfterCursor(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Cursor boundary lookup.
	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-2", "PNG", testDate(t, "2023-08-02"), "https://b.test", "key-2"))

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE \("id"\) > \(\$1\) ORDER BY "id" ASC LIMIT 3`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-3", "PDF", testDate(t, "2023-08-03"), "https://c.test", "key-3"))

	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("id"\) < \(\$1\) LIMIT 1`).
		WithArgs("page-3").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	first := 2
	after := "page-2"
	conn, err := repo.GetPages(context.Background(), page.ListParams{First: &first, After: &after})
	require.NoError(t, err)

	require.Len(t, conn.Edges, 1)
	assert.Equal(t, "page-3", conn.Edges[0].Cursor)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesAfterMissingCursor(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(pageColumns))

	first := 2
	after := "ghost"
	_, err := repo.GetPages(context.Background(), page.ListParams{First: &first, After: &after})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "Page with ghost not found", err.Error())
}

func TestGetPagesBeforeCursor(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("page-4").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-4", "PDF", testDate(t, "2023-08-04"), "https://d.test", "key-4"))

	// Backward window scans in reverse order; rows come back
	// closest-to-cursor first and are re-reversed afterwards.
	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE \("id"\) < \(\$1\) ORDER BY "id" DESC LIMIT 3`).
		WithArgs("page-4").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-3", "PDF", testDate(t, "2023-08-03"), "https://c.test", "key-3").
			AddRow("page-2", "PNG", testDate(t, "2023-08-02"), "https://b.test", "key-2").
			AddRow("page-1", "PDF", testDate(t, "2023-08-01"), "https://a.test", "key-1"))

	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("id"\) > \(\$1\) LIMIT 1`).
		WithArgs("page-3").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	last := 2
	before := "page-4"
	conn, err := repo.GetPages(context.Background(), page.ListParams{Last: &last, Before: &before})
	require.NoError(t, err)

	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "page-2", conn.Edges[0].Cursor)
	assert.Equal(t, "page-3", conn.Edges[1].Cursor)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesWithFilterAndSort(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE \("date" >= \$1 AND "date" <= \$2\) AND "type" = \$3 ORDER BY "date" DESC, "id" DESC LIMIT 26`).
		WithArgs("2023-01-01", "2023-12-31", "PDF").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-2", "PDF", testDate(t, "2023-08-02"), "https://b.test", "key-2").
			AddRow("page-1", "PDF", testDate(t, "2023-08-01"), "https://a.test", "key-1"))

	// Under a descending sort, "before the window start" means rows with
	// greater values, so the probe comparison flips to >.
	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("date" >= \$1 AND "date" <= \$2\) AND "type" = \$3 AND \("date", "id"\) > \(\$4, \$5\) LIMIT 1`).
		WithArgs("2023-01-01", "2023-12-31", "PDF", "2023-08-02", "page-2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	gte := "2023-01-01"
	lte := "2023-12-31"
	pdf := page.TypePDF
	conn, err := repo.GetPages(context.Background(), page.ListParams{
		Filter: &page.Filter{
			Date: &page.DateRangeFilter{Gte: &gte, Lte: &lte},
			Type: &page.TypeFilter{Eq: &pdf},
		},
		Sort: &page.Sort{Field: page.SortByDate, Order: page.SortDesc},
	})
	require.NoError(t, err)

	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "page-2", conn.Edges[0].Cursor)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesZeroFirst(t *testing.T) {
	repo, mock := newTestRepository(t)

	// A zero-sized window still over-fetches one row; finding it means
	// rows exist beyond the (empty) window.
	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" ORDER BY "id" ASC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PDF", testDate(t, "2023-08-01"), "https://a.test", "key-1"))

	first := 0
	conn, err := repo.GetPages(context.Background(), page.ListParams{First: &first})
	require.NoError(t, err)

	assert.Empty(t, conn.Edges)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	assert.Nil(t, conn.PageInfo.StartCursor)
	assert.Nil(t, conn.PageInfo.EndCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesZeroFirstAfterCursor(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-2", "PNG", testDate(t, "2023-08-02"), "https://b.test", "key-2"))

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE \("id"\) > \(\$1\) ORDER BY "id" ASC LIMIT 1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-3", "PDF", testDate(t, "2023-08-03"), "https://c.test", "key-3"))

	// With no edges the backward probe is seeded from the cursor row.
	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("id"\) < \(\$1\) LIMIT 1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	first := 0
	after := "page-2"
	conn, err := repo.GetPages(context.Background(), page.ListParams{First: &first, After: &after})
	require.NoError(t, err)

	assert.Empty(t, conn.Edges)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesZeroLastBeforeCursor(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-2", "PNG", testDate(t, "2023-08-02"), "https://b.test", "key-2"))

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE \("id"\) < \(\$1\) ORDER BY "id" DESC LIMIT 1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PDF", testDate(t, "2023-08-01"), "https://a.test", "key-1"))

	mock.ExpectQuery(`SELECT 1 FROM "pages" WHERE \("id"\) > \(\$1\) LIMIT 1`).
		WithArgs("page-2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	last := 0
	before := "page-2"
	conn, err := repo.GetPages(context.Background(), page.ListParams{Last: &last, Before: &before})
	require.NoError(t, err)

	assert.Empty(t, conn.Edges)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPagesEmptyWindow(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" ORDER BY "id" ASC LIMIT 26`).
		WillReturnRows(sqlmock.NewRows(pageColumns))

	conn, err := repo.GetPages(context.Background(), page.ListParams{})
	require.NoError(t, err)

	assert.Empty(t, conn.Edges)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	assert.Nil(t, conn.PageInfo.StartCursor)
	assert.Nil(t, conn.PageInfo.EndCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}
