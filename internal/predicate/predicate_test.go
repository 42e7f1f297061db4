package predicate

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ftsearch/pkg/types"
)

func TestNewUnknownMode(t *testing.T) {
	_, err := New(types.SearchModeUnset)
	assert.ErrorIs(t, err, types.ErrUnknownSearchMode)

	_, err = TableFunction("boolean")
	assert.ErrorIs(t, err, types.ErrUnknownSearchMode)
}

func TestTableFunction(t *testing.T) {
	tests := map[types.SearchMode]string{
		types.SearchModeFreeText:                    FreeTextTable,
		types.SearchModeWeightedPrefixes:            ContainsTable,
		types.SearchModeWeightedPrefixesPlusReverse: ContainsTable,
	}
	for mode, want := range tests {
		got, err := TableFunction(mode)
		require.NoError(t, err)
		assert.Equal(t, want, got, mode)

		b, err := New(mode)
		require.NoError(t, err)
		assert.Equal(t, mode, b.Mode())
	}
}

func TestNoPredicateForBlankTerms(t *testing.T) {
	for _, mode := range types.SearchModes {
		b, err := New(mode)
		require.NoError(t, err)

		for _, term := range []string{"", "   ", "\t\n", "   "} {
			p, ok := b.Build(term)
			assert.False(t, ok, "mode %s term %q", mode, term)
			assert.Empty(t, p)
		}
	}
}

func TestFreeTextPassThrough(t *testing.T) {
	b, err := New(types.SearchModeFreeText)
	require.NoError(t, err)

	p, ok := b.Build(`  "blue" whale AND krill `)
	require.True(t, ok)
	assert.Equal(t, `  "blue" whale AND krill `, p)
}

func TestWeightedPrefixes(t *testing.T) {
	b, err := New(types.SearchModeWeightedPrefixes)
	require.NoError(t, err)

	tests := []struct {
		term string
		want string
	}{
		{"blue whale", `ISABOUT("blue*" WEIGHT (0.8), "whale*" WEIGHT (1))`},
		{"whale", `ISABOUT("whale*" WEIGHT (1))`},
		{"  a   abc ", `ISABOUT("a*" WEIGHT (0.33), "abc*" WEIGHT (1))`},
		{`say "hello"`, `ISABOUT("say*" WEIGHT (0.6), "hello*" WEIGHT (1))`},
		{`ab cde`, `ISABOUT("ab*" WEIGHT (0.67), "cde*" WEIGHT (1))`},
		{`über straße`, `ISABOUT("über*" WEIGHT (0.67), "straße*" WEIGHT (1))`},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, ok := b.Build(tt.term)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeightedPrefixesOnlyQuotes(t *testing.T) {
	b, err := New(types.SearchModeWeightedPrefixes)
	require.NoError(t, err)

	_, ok := b.Build(`"" """`)
	assert.False(t, ok)
}

var weightPattern = regexp.MustCompile(`"([^"]*)\*" WEIGHT \(([0-9.]+)\)`)

func TestWeightsMonotonicWithLength(t *testing.T) {
	b, err := New(types.SearchModeWeightedPrefixes)
	require.NoError(t, err)

	p, ok := b.Build("a quick brown fox jumps over the extraordinarily lazy dog")
	require.True(t, ok)

	type pair struct {
		length int
		weight float64
	}
	var pairs []pair
	sawOne := false
	for _, m := range weightPattern.FindAllStringSubmatch(p, -1) {
		w, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		if m[1] == "extraordinarily" {
			assert.Equal(t, "1", m[2])
			sawOne = true
		}
		pairs = append(pairs, pair{len([]rune(m[1])), w})
	}
	require.True(t, sawOne)

	for _, a := range pairs {
		for _, c := range pairs {
			if a.length <= c.length {
				assert.LessOrEqual(t, a.weight, c.weight)
			}
		}
	}
}

func TestWeightedPrefixesPlusReverse(t *testing.T) {
	b, err := New(types.SearchModeWeightedPrefixesPlusReverse)
	require.NoError(t, err)

	got, ok := b.Build("ab cde")
	require.True(t, ok)
	assert.Equal(t,
		`ISABOUT("ab*" WEIGHT (0.67), "cde*" WEIGHT (1), "ba*" WEIGHT (0.67), "edc*" WEIGHT (1))`,
		got)

	words := strings.Fields("sperm blue humpback whale")
	p, ok := b.Build(strings.Join(words, " "))
	require.True(t, ok)

	tokens := Tokens(p)
	require.Len(t, tokens, 2*len(words))
	for i, w := range words {
		assert.Equal(t, w, tokens[i])
		assert.Equal(t, w, reverse(tokens[len(words)+i]))
	}
}

func TestTokensRoundTrip(t *testing.T) {
	b, err := New(types.SearchModeWeightedPrefixes)
	require.NoError(t, err)

	term := `Blue "Whale" krill-eating BALEEN`
	p, ok := b.Build(term)
	require.True(t, ok)

	want := strings.Fields(strings.ReplaceAll(term, `"`, ""))
	assert.Equal(t, want, Tokens(p))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "1", formatWeight(1))
	assert.Equal(t, "0.8", formatWeight(0.8))
	assert.Equal(t, "0.33", formatWeight(1.0/3))
	assert.Equal(t, "0.67", formatWeight(2.0/3))
	assert.Equal(t, "0.07", formatWeight(1.0/15))
}
