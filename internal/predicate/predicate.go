// Package predicate builds full-text predicates from raw search terms.
//
// One Builder exists per search mode. It is selected once, when the owning
// provider is constructed, and never switches afterwards.
package predicate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/ftsearch/pkg/types"
)

// Table functions understood by the target engine
const (
	FreeTextTable = "FREETEXTTABLE"
	ContainsTable = "CONTAINSTABLE"
)

// Builder turns a raw term into a predicate for its table function
type Builder interface {
	// Build returns the predicate, or false when the term yields none
	Build(term string) (string, bool)
	// TableFunction names the table function consuming the predicate
	TableFunction() string
	// Mode reports the search mode the builder implements
	Mode() types.SearchMode
}

// New returns the builder for mode
func New(mode types.SearchMode) (Builder, error) {
	switch mode {
	case types.SearchModeFreeText:
		return freeText{}, nil
	case types.SearchModeWeightedPrefixes:
		return weightedPrefixes{}, nil
	case types.SearchModeWeightedPrefixesPlusReverse:
		return weightedPrefixes{withReverse: true}, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownSearchMode, string(mode))
}

// TableFunction returns the table function name for mode
func TableFunction(mode types.SearchMode) (string, error) {
	b, err := New(mode)
	if err != nil {
		return "", err
	}
	return b.TableFunction(), nil
}

// freeText hands the term to the engine untouched
type freeText struct{}

func (freeText) Build(term string) (string, bool) {
	if strings.TrimSpace(term) == "" {
		return "", false
	}
	return term, true
}

func (freeText) TableFunction() string { return FreeTextTable }

func (freeText) Mode() types.SearchMode { return types.SearchModeFreeText }

// weightedPrefixes emits an ISABOUT list of prefix terms weighted by length
type weightedPrefixes struct {
	withReverse bool
}

func (w weightedPrefixes) Build(term string) (string, bool) {
	words := splitWords(term)
	if len(words) == 0 {
		return "", false
	}

	if w.withReverse {
		reversed := make([]string, len(words))
		for i, word := range words {
			reversed[i] = reverse(word)
		}
		words = append(words, reversed...)
	}

	maxLen := 0
	for _, word := range words {
		if n := len([]rune(word)); n > maxLen {
			maxLen = n
		}
	}

	terms := make([]string, len(words))
	for i, word := range words {
		weight := float64(len([]rune(word))) / float64(maxLen)
		terms[i] = fmt.Sprintf(`"%s*" WEIGHT (%s)`, word, formatWeight(weight))
	}

	return "ISABOUT(" + strings.Join(terms, ", ") + ")", true
}

func (weightedPrefixes) TableFunction() string { return ContainsTable }

func (w weightedPrefixes) Mode() types.SearchMode {
	if w.withReverse {
		return types.SearchModeWeightedPrefixesPlusReverse
	}
	return types.SearchModeWeightedPrefixes
}

// splitWords splits on whitespace and strips double quotes, which would
// otherwise terminate the quoted prefix literal. Words left empty are dropped.
func splitWords(term string) []string {
	fields := strings.Fields(term)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if word := strings.ReplaceAll(f, `"`, ""); word != "" {
			words = append(words, word)
		}
	}
	return words
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// formatWeight rounds to two fractional digits and drops trailing zeros,
// always with '.' as the separator
func formatWeight(w float64) string {
	return strconv.FormatFloat(math.Round(w*100)/100, 'f', -1, 64)
}

var tokenPattern = regexp.MustCompile(`"([^"]*)\*"`)

// Tokens extracts the prefix words from a weighted predicate, in order
func Tokens(predicate string) []string {
	matches := tokenPattern.FindAllStringSubmatch(predicate, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}
