package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesnap/internal/apperror"
	"pagesnap/internal/dbexec"
	"pagesnap/internal/logging"
	"pagesnap/internal/page"
	"pagesnap/internal/planner"
)

var pageColumns = []string{"id", "type", "date", "site", "file"}

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewLogger(logging.Config{Level: "error", Format: "text"})
	return New(dbexec.NewStandardExecutor(db), logger), mock
}

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return date
}

func TestGetPage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages" WHERE "id" = \$1`).
		WithArgs("page-1").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PDF", testDate(t, "2023-08-19"), "https://example.com", "key-1"))

	result, err := repo.GetPage(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, &page.Page{
		ID:   "page-1",
		Type: page.TypePDF,
		Date: "2023-08-19",
		Site: "https://example.com",
		File: "key-1",
	}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPageNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages"`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(pageColumns))

	_, err := repo.GetPage(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "Page with missing not found", err.Error())
}

func TestGetPageDriverError(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT "id", "type", "date", "site", "file" FROM "pages"`).
		WithArgs("page-1").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.GetPage(context.Background(), "page-1")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUnknown))

	var domainErr *apperror.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Unknown error occurred", domainErr.Message)
}

func TestCreatePage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`INSERT INTO "pages" \("id","type","date","site","file"\) VALUES \(\$1,\$2,CURRENT_DATE,\$3,\$4\) RETURNING`).
		WithArgs("page-1", "PNG", "https://example.com", "key-1").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PNG", testDate(t, "2023-08-19"), "https://example.com", "key-1"))

	result, err := repo.CreatePage(context.Background(), "page-1",
		page.CreateInput{Site: "https://example.com", Type: page.TypePNG}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "page-1", result.ID)
	assert.Equal(t, "2023-08-19", result.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE "pages" SET "date" = CURRENT_DATE, "site" = \$1 WHERE "id" = \$2 RETURNING`).
		WithArgs("https://example.org", "page-1").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "PDF", testDate(t, "2023-09-01"), "https://example.org", "key-1"))

	fields := planner.NewFieldSet().SetSite("https://example.org")
	result, err := repo.UpdatePage(context.Background(), "page-1", fields)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", result.Site)
	assert.Equal(t, "2023-09-01", result.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePageNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE "pages"`).
		WillReturnRows(sqlmock.NewRows(pageColumns))

	_, err := repo.UpdatePage(context.Background(), "missing", planner.NewFieldSet().SetFile("key"))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, "Page with missing not found", err.Error())
}

func TestDeletePage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`DELETE FROM "pages" WHERE "id" = \$1 RETURNING`).
		WithArgs("page-1").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("page-1", "WEBP", testDate(t, "2023-08-19"), "https://example.com", "key-1"))

	result, err := repo.DeletePage(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", result.File)
	assert.NoError(t, mock.ExpectationsWereMet())
}
