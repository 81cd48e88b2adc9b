package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allColumns = `"id", "type", "date", "site", "file"`

func TestPlanSelectByID(t *testing.T) {
	query, err := PlanSelectByID("11bf5b37-e0b8-42e0-8dcf-dc8c4aefc000")
	require.NoError(t, err)

	assert.Equal(t, `SELECT `+allColumns+` FROM "pages" WHERE "id" = $1`, query.SQL)
	assert.Equal(t, []any{"11bf5b37-e0b8-42e0-8dcf-dc8c4aefc000"}, query.Args)
}

func TestPlanInsert(t *testing.T) {
	query, err := PlanInsert("page-1", "https://example.com", "PDF", "key-1")
	require.NoError(t, err)

	assert.Equal(t,
		`INSERT INTO "pages" ("id","type","date","site","file") VALUES ($1,$2,CURRENT_DATE,$3,$4) RETURNING `+allColumns,
		query.SQL)
	assert.Equal(t, []any{"page-1", "PDF", "https://example.com", "key-1"}, query.Args)
}

func TestPlanUpdateAllFields(t *testing.T) {
	fields := NewFieldSet().
		SetSite("https://example.org").
		SetType("PNG").
		SetFile("key-2")

	query, err := PlanUpdate("page-1", fields)
	require.NoError(t, err)

	assert.Equal(t,
		`UPDATE "pages" SET "date" = CURRENT_DATE, "site" = $1, "type" = $2, "file" = $3 WHERE "id" = $4 RETURNING `+allColumns,
		query.SQL)
	assert.Equal(t, []any{"https://example.org", "PNG", "key-2", "page-1"}, query.Args)
}

func TestPlanUpdateDateAlwaysRefreshed(t *testing.T) {
	query, err := PlanUpdate("page-1", NewFieldSet().SetFile("key-3"))
	require.NoError(t, err)

	assert.Equal(t,
		`UPDATE "pages" SET "date" = CURRENT_DATE, "file" = $1 WHERE "id" = $2 RETURNING `+allColumns,
		query.SQL)
	assert.Equal(t, []any{"key-3", "page-1"}, query.Args)
}

func TestPlanDelete(t *testing.T) {
	query, err := PlanDelete("page-9")
	require.NoError(t, err)

	assert.Equal(t, `DELETE FROM "pages" WHERE "id" = $1 RETURNING `+allColumns, query.SQL)
	assert.Equal(t, []any{"page-9"}, query.Args)
}

func TestFieldSetOrderAndPresence(t *testing.T) {
	fields := NewFieldSet()
	assert.True(t, fields.Empty())

	fields.SetFile("key-a").SetSite("https://a.test").SetFile("key-b")
	assert.False(t, fields.Empty())
	assert.Equal(t, []string{"file", "site"}, fields.Names())

	value, ok := fields.Get("file")
	require.True(t, ok)
	assert.Equal(t, "key-b", value)

	_, ok = fields.Get("type")
	assert.False(t, ok)
}
