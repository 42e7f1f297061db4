package sqlq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ftsearch/pkg/types"
)

func openDocs() *Query {
	return NewProvider(SQLServer).From("Docs").
		Where(
			Condition{Column: "Status", Op: OpEq, Value: "open"},
			Condition{Column: "Year", Op: OpGt, Value: 2020},
		).
		OrderBy(Order{Column: "Created", Desc: true}).
		Paged(types.Window{Offset: 0, Fetch: 20})
}

func TestQuerySQL(t *testing.T) {
	got, err := openDocs().SQL()
	require.NoError(t, err)

	want := "SELECT [t0].*\n" +
		"FROM [Docs] AS [t0]\n" +
		"WHERE [t0].[Status] = N'open' AND [t0].[Year] > 2020\n" +
		"ORDER BY [t0].[Created] DESC\n" +
		"OFFSET 0 ROWS FETCH NEXT 20 ROWS ONLY"
	assert.Equal(t, want, got)
}

func TestQueryStatement(t *testing.T) {
	sql, args, err := openDocs().Statement()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT [t0].* FROM [Docs] AS [t0] WHERE [t0].[Status] = @p1 AND [t0].[Year] > @p2 "+
			"ORDER BY [t0].[Created] DESC OFFSET 0 ROWS FETCH NEXT 20 ROWS ONLY",
		sql)
	assert.Equal(t, []any{"open", 2020}, args)
}

func TestQueryCountStatement(t *testing.T) {
	sql, args, err := openDocs().CountStatement()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COUNT(*) FROM (SELECT [t0].* FROM [Docs] AS [t0] WHERE [t0].[Status] = @p1 AND [t0].[Year] > @p2) AS [cnt]",
		sql)
	assert.Equal(t, []any{"open", 2020}, args)
}

func TestRawQueryRendering(t *testing.T) {
	q := NewProvider(SQLServer).From("ignored").
		Raw("SELECT * FROM [Docs] WHERE [Owner] = {0} OR [Editor] = {0}", "O'Brien")

	text, err := q.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT [t0].*\nFROM (\n    SELECT * FROM [Docs] WHERE [Owner] = N'O''Brien' OR [Editor] = N'O''Brien'\n) AS [t0]",
		text)

	sql, args, err := q.Statement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM [Docs] WHERE [Owner] = @p1 OR [Editor] = @p2", sql)
	assert.Equal(t, []any{"O'Brien", "O'Brien"}, args)
}

func TestRawQueryWithClauses(t *testing.T) {
	q := NewProvider(SQLite).From("x").
		Raw("SELECT * FROM [Docs] WHERE [Kind] = {0}", "memo").
		Where(Condition{Column: "Owner", Value: "ana"}).
		Paged(types.Window{Offset: 10, Fetch: 5})

	sql, args, err := q.Statement()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT [t0].* FROM (SELECT * FROM [Docs] WHERE [Kind] = ?) AS [t0] WHERE [t0].[Owner] = ? LIMIT 5 OFFSET 10",
		sql)
	assert.Equal(t, []any{"memo", "ana"}, args)
}

func TestMarkersInsideLiteralsAreKept(t *testing.T) {
	q := NewProvider(SQLite).From("x").Raw("SELECT '{0}?' AS a, {0} AS b", 5)

	sql, args, err := q.Statement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT '{0}?' AS a, ? AS b", sql)
	assert.Equal(t, []any{5}, args)
}

func TestMissingMarkerArgument(t *testing.T) {
	q := NewProvider(SQLServer).From("x").Raw("SELECT {1}", "only")

	_, _, err := q.Statement()
	assert.Error(t, err)
	_, err = q.SQL()
	assert.Error(t, err)
}

func TestPagedWithoutOrder(t *testing.T) {
	q := NewProvider(SQLServer).From("Docs").Paged(types.Window{Offset: 40, Fetch: 20})
	text, err := q.SQL()
	require.NoError(t, err)
	assert.Contains(t, text, "ORDER BY (SELECT NULL)\nOFFSET 40 ROWS FETCH NEXT 20 ROWS ONLY")

	lite := NewProvider(SQLite).From("Docs").Paged(types.Window{Offset: 40, Fetch: 20})
	text, err = lite.SQL()
	require.NoError(t, err)
	assert.NotContains(t, text, "ORDER BY")
	assert.Contains(t, text, "LIMIT 20 OFFSET 40")
}

func TestConditionOperators(t *testing.T) {
	tests := []struct {
		cond Condition
		want string
	}{
		{Condition{Column: "A", Op: OpNotEq, Value: 1}, "[x].[A] <> 1"},
		{Condition{Column: "A", Op: OpLtOrEq, Value: 1}, "[x].[A] <= 1"},
		{Condition{Column: "A", Op: OpGtOrEq, Value: 1.5}, "[x].[A] >= 1.5"},
		{Condition{Column: "A", Op: OpLike, Value: "bl%"}, "[x].[A] LIKE 'bl%'"},
		{Condition{Column: "A", Op: OpIn, Value: []string{"a", "b"}}, "[x].[A] IN ('a','b')"},
		{Condition{Column: "A", Op: OpEq, Value: nil}, "[x].[A] IS NULL"},
		{Condition{Column: "A", Op: OpEq, Value: true}, "[x].[A] = 1"},
	}

	for _, tt := range tests {
		sql, args, err := whereClause("x", []Condition{tt.cond})
		require.NoError(t, err)
		got, err := SQLite.InlinePlaceholders(sql, args)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, _, err := whereClause("x", []Condition{{Column: "A", Op: "~"}})
	assert.Error(t, err)
}

func TestParseOp(t *testing.T) {
	op, err := ParseOp("gte")
	require.NoError(t, err)
	assert.Equal(t, OpGtOrEq, op)

	op, err = ParseOp("not like")
	require.NoError(t, err)
	assert.Equal(t, OpNotLike, op)

	_, err = ParseOp("~~")
	assert.Error(t, err)
}

func TestLiteral(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "N'2024-03-01T12:30:00'", SQLServer.Literal(ts))
	assert.Equal(t, "0x0AFF", SQLServer.Literal([]byte{0x0a, 0xff}))
	assert.Equal(t, "NULL", SQLite.Literal(nil))
	assert.Equal(t, "'it''s'", SQLite.Literal("it's"))
	assert.Equal(t, "42", SQLite.Literal(int64(42)))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "[Docs]", QuoteIdent("Docs"))
	assert.Equal(t, "[Docs]", QuoteIdent("[Docs]"))
	assert.Equal(t, "[a]]b]", QuoteIdent("a]b"))
	assert.Equal(t, "*", QuoteIdent("*"))
}

func TestFragments(t *testing.T) {
	frags, err := openDocs().Fragments("ftst")
	require.NoError(t, err)
	require.Len(t, frags, 4)

	assert.Equal(t, types.Fragment{Kind: types.FragmentSelect, SQL: "SELECT [ftst].*"}, frags[0])
	assert.Equal(t, types.Fragment{Kind: types.FragmentFrom, SQL: "[Docs] AS [ftst]"}, frags[1])
	assert.Equal(t, types.FragmentWhere, frags[2].Kind)
	assert.Equal(t, "[ftst].[Status] = ? AND [ftst].[Year] > ?", frags[2].SQL)
	assert.Equal(t, []any{"open", 2020}, frags[2].Args)
	assert.Equal(t, types.Fragment{
		Kind: types.FragmentOrder,
		SQL:  "ORDER BY [ftst].[Created] DESC OFFSET 0 ROWS FETCH NEXT 20 ROWS ONLY",
	}, frags[3])

	raw := NewProvider(SQLServer).From("x").Raw("SELECT 1 WHERE {0} = 1", 1)
	frags, err = raw.Fragments("a")
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.True(t, frags[1].Derived)
	assert.Equal(t, "SELECT 1 WHERE {0} = 1", frags[1].SQL)
	assert.Equal(t, []any{1}, frags[1].Args)
}

func TestQueryImmutability(t *testing.T) {
	base := NewProvider(SQLServer).From("Docs")
	filtered := base.Where(Condition{Column: "A", Value: 1})

	text, err := base.SQL()
	require.NoError(t, err)
	assert.NotContains(t, text, "WHERE")

	text, err = filtered.SQL()
	require.NoError(t, err)
	assert.Contains(t, text, "WHERE [t0].[A] = 1")
}

func TestNumberPlaceholders(t *testing.T) {
	got, n, err := NumberPlaceholders("[a] = ? AND [b] LIKE '?%' AND [c] IN (?,?)", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "[a] = {1} AND [b] LIKE '?%' AND [c] IN ({2},{3})", got)
}
