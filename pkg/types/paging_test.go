package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name string
		opts PagingOptions
		spec PageSpec
		want Window
	}{
		{
			name: "skip and take",
			opts: PagingOptions{Mode: PaginationSkipAndTake, MaxPageSize: 100},
			spec: PageSpec{Skip: Ptr(20), Take: Ptr(10)},
			want: Window{Offset: 20, Fetch: 10, Page: 2, PageSize: 10},
		},
		{
			name: "skip and take without take uses max page size",
			opts: PagingOptions{Mode: PaginationSkipAndTake, MaxPageSize: 50},
			spec: PageSpec{},
			want: Window{Offset: 0, Fetch: 50, Page: 0, PageSize: 50},
		},
		{
			name: "skip and take clamps take",
			opts: PagingOptions{Mode: PaginationSkipAndTake, MaxPageSize: 50},
			spec: PageSpec{Skip: Ptr(5), Take: Ptr(500)},
			want: Window{Offset: 5, Fetch: 50, Page: 0, PageSize: 50},
		},
		{
			name: "page based",
			opts: PagingOptions{Mode: PaginationPageBased, DefaultPageSize: 25, MaxPageSize: 100},
			spec: PageSpec{Page: Ptr(2)},
			want: Window{Offset: 50, Fetch: 25, Page: 2, PageSize: 25},
		},
		{
			name: "page based with explicit size",
			opts: PagingOptions{Mode: PaginationPageBased, MaxPageSize: 100},
			spec: PageSpec{Page: Ptr(0), Take: Ptr(20)},
			want: Window{Offset: 0, Fetch: 20, Page: 0, PageSize: 20},
		},
		{
			name: "page based derives page from skip",
			opts: PagingOptions{Mode: PaginationPageBased, DefaultPageSize: 10},
			spec: PageSpec{Skip: Ptr(35)},
			want: Window{Offset: 30, Fetch: 10, Page: 3, PageSize: 10},
		},
		{
			name: "negative values are treated as zero",
			opts: PagingOptions{},
			spec: PageSpec{Page: Ptr(-3)},
			want: Window{Offset: 0, Fetch: DefaultPageSize, Page: 0, PageSize: DefaultPageSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Window(tt.spec))
		})
	}
}

func TestParseSearchMode(t *testing.T) {
	m, err := ParseSearchMode(" Weighted_Prefixes ")
	assert.NoError(t, err)
	assert.Equal(t, SearchModeWeightedPrefixes, m)

	_, err = ParseSearchMode("boolean")
	assert.ErrorIs(t, err, ErrUnknownSearchMode)

	assert.False(t, SearchModeUnset.Valid())
}

func TestRewriteErrorUnwrap(t *testing.T) {
	var err error = &RewriteError{Stage: "splice", Detail: "no alias line"}
	assert.ErrorIs(t, err, ErrRewriteAssumption)
	assert.Contains(t, err.Error(), "splice")
}
