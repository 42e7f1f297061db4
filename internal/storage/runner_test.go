package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ftsearch/internal/fulltext"
	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/pkg/types"
)

type docsForm struct {
	term   string
	conds  []sqlq.Condition
	orders []sqlq.Order
	page   types.PageSpec
}

func (f docsForm) SearchTerm() string { return f.term }
func (f docsForm) PageSpec() types.PageSpec { return f.page }
func (f docsForm) Conditions() []sqlq.Condition { return f.conds }
func (f docsForm) Ordering() []sqlq.Order { return f.orders }

type opaqueQuery struct{}

func (opaqueQuery) WithRawSQL(string, ...any) types.Query { return opaqueQuery{} }
func (opaqueQuery) SQL() (string, error) { return "", nil }

func setupTestDB(t *testing.T) *Runner {
	t.Helper()

	// Use in-memory database for testing
	r, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	ctx := context.Background()
	require.NoError(t, r.Exec(ctx, `CREATE TABLE Docs (Id INTEGER PRIMARY KEY, Title TEXT NOT NULL, Status TEXT NOT NULL)`))
	for i := 1; i <= 7; i++ {
		status := "open"
		if i%2 == 0 {
			status = "closed"
		}
		require.NoError(t, r.Exec(ctx, `INSERT INTO Docs (Id, Title, Status) VALUES (?, ?, ?)`,
			i, fmt.Sprintf("doc %02d", i), status))
	}
	return r
}

func TestRunPagedQuery(t *testing.T) {
	r := setupTestDB(t)
	def := sqlq.NewProvider(sqlq.SQLite, sqlq.WithPaging(types.PagingOptions{Mode: types.PaginationSkipAndTake}))
	form := docsForm{
		conds:  []sqlq.Condition{{Column: "Status", Op: sqlq.OpEq, Value: "open"}},
		orders: []sqlq.Order{{Column: "Title", Desc: true}},
		page:   types.PageSpec{Skip: types.Ptr(1), Take: types.Ptr(2)},
	}

	q, err := def.ApplyWhere(def.From("Docs"), form)
	require.NoError(t, err)
	page, err := def.ApplyPagination(q, form)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), page.Query)
	require.NoError(t, err)

	assert.Equal(t, int64(4), res.Total)
	assert.Equal(t, []string{"Id", "Title", "Status"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "doc 05", res.Rows[0]["Title"])
	assert.Equal(t, "doc 03", res.Rows[1]["Title"])
}

func TestRunDelegatedSearch(t *testing.T) {
	r := setupTestDB(t)
	def := sqlq.NewProvider(sqlq.SQLite)
	p, err := fulltext.New(fulltext.Config{
		Table:     "Docs",
		KeyColumn: "Id",
		Mode:      types.SearchModeWeightedPrefixes,
	}, def)
	require.NoError(t, err)

	form := docsForm{
		term:   "   ",
		conds:  []sqlq.Condition{{Column: "Status", Op: sqlq.OpEq, Value: "closed"}},
		orders: []sqlq.Order{{Column: "Id"}},
		page:   types.PageSpec{Page: types.Ptr(0)},
	}

	q, err := p.ApplyWhere(def.From("Docs"), form)
	require.NoError(t, err)
	page, err := p.ApplyPagination(q, form)
	require.NoError(t, err)
	assert.True(t, page.IsApplied)

	res, err := r.Run(context.Background(), page.Query)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Rows, 3)
	assert.EqualValues(t, 2, res.Rows[0]["Id"])
}

func TestRunRawQuery(t *testing.T) {
	r := setupTestDB(t)
	def := sqlq.NewProvider(sqlq.SQLite)

	q := def.From("Docs").Raw("SELECT * FROM [Docs] WHERE [Title] = {0} OR [Title] = {1}", "doc 01", "it's")
	res, err := r.Run(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Rows, 1)
}

func TestRunRejectsOpaqueQuery(t *testing.T) {
	r := setupTestDB(t)

	_, err := r.Run(context.Background(), opaqueQuery{})
	assert.ErrorIs(t, err, ErrNotExecutable)
}

func TestRunCanceled(t *testing.T) {
	r := setupTestDB(t)
	def := sqlq.NewProvider(sqlq.SQLite)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, def.From("Docs"))
	assert.Error(t, err)
}
