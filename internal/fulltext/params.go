package fulltext

import (
	"strings"

	"github.com/dshills/ftsearch/pkg/types"
)

const predicateMarker = "{0}"

// bindPredicate replaces the predicate literal that the upstream renderer
// inlined after the table function call with the {0} marker. Only whole
// literals are replaced; a filter value rendered to the same literal is
// bound to the predicate as well.
func bindPredicate(sql, tableFunction, predicate string) (string, error) {
	call := strings.Index(sql, tableFunction+"(")
	if call < 0 {
		return "", &types.RewriteError{Stage: "parameter", Detail: tableFunction + " call not found"}
	}

	rest := sql[call:]
	quote := strings.IndexByte(rest, '\'')
	marker := strings.Index(rest, predicateMarker)
	if marker >= 0 && (quote < 0 || marker < quote) {
		// already parameterized
		return sql, nil
	}
	if quote < 0 {
		return "", &types.RewriteError{Stage: "parameter", Detail: "predicate literal not found"}
	}

	open := call + quote
	end := literalEnd(sql, open)
	if end < 0 {
		return "", &types.RewriteError{Stage: "parameter", Detail: "unterminated predicate literal"}
	}
	if unescape(sql[open+1:end]) != predicate {
		return "", &types.RewriteError{Stage: "parameter", Detail: "literal after " + tableFunction + " is not the predicate"}
	}

	return replaceLiteral(sql, predicate), nil
}

// literalEnd returns the index of the quote closing the literal opened at
// open, or -1
func literalEnd(sql string, open int) int {
	for i := open + 1; i < len(sql); i++ {
		if sql[i] != '\'' {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == '\'' {
			i++
			continue
		}
		return i
	}
	return -1
}

func unescape(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// replaceLiteral swaps every whole literal whose value is value, with its
// optional N prefix, for the predicate marker
func replaceLiteral(sql, value string) string {
	out := make([]byte, 0, len(sql))
	for i := 0; i < len(sql); {
		if sql[i] != '\'' {
			out = append(out, sql[i])
			i++
			continue
		}

		end := literalEnd(sql, i)
		if end < 0 {
			return string(append(out, sql[i:]...))
		}
		if unescape(sql[i+1:end]) != value {
			out = append(out, sql[i:end+1]...)
			i = end + 1
			continue
		}

		if n := len(out); n > 0 && out[n-1] == 'N' && (n == 1 || !isIdentByte(out[n-2])) {
			out = out[:n-1]
		}
		out = append(out, predicateMarker...)
		i = end + 1
	}
	return string(out)
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
