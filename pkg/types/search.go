package types

import (
	"fmt"
	"strings"
)

// SearchMode selects the full-text predicate syntax and table function
type SearchMode string

const (
	SearchModeUnset                       SearchMode = ""
	SearchModeFreeText                    SearchMode = "freetext"
	SearchModeWeightedPrefixes            SearchMode = "weighted_prefixes"
	SearchModeWeightedPrefixesPlusReverse SearchMode = "weighted_prefixes_reverse"
)

// SearchModes lists every recognized mode
var SearchModes = []SearchMode{
	SearchModeFreeText,
	SearchModeWeightedPrefixes,
	SearchModeWeightedPrefixesPlusReverse,
}

// Valid reports whether the mode is one of the recognized values
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeFreeText, SearchModeWeightedPrefixes, SearchModeWeightedPrefixesPlusReverse:
		return true
	}
	return false
}

// ParseSearchMode parses a mode name, case-insensitively
func ParseSearchMode(s string) (SearchMode, error) {
	m := SearchMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return SearchModeUnset, fmt.Errorf("%w: %q", ErrUnknownSearchMode, s)
	}
	return m, nil
}

// FilterForm supplies the raw search term
type FilterForm interface {
	SearchTerm() string
}

// PageForm supplies the page specification
type PageForm interface {
	PageSpec() PageSpec
}

// SearchForm is the combined capability required by full-text providers
type SearchForm interface {
	FilterForm
	PageForm
}
