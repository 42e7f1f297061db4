package sqlq

import (
	"fmt"
	"strconv"
	"strings"
)

// walk calls fn for every byte offset outside single-quoted literals. fn
// returns the replacement text and how many bytes it consumed, or ok=false
// to copy the byte through.
func walk(s string, fn func(i int) (repl string, n int, ok bool, err error)) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	inLiteral := false
	for i := 0; i < len(s); {
		c := s[i]
		if c == '\'' {
			// '' inside a literal is an escaped quote
			if inLiteral && i+1 < len(s) && s[i+1] == '\'' {
				b.WriteString("''")
				i += 2
				continue
			}
			inLiteral = !inLiteral
			b.WriteByte(c)
			i++
			continue
		}
		if !inLiteral {
			repl, n, ok, err := fn(i)
			if err != nil {
				return "", err
			}
			if ok {
				b.WriteString(repl)
				i += n
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil
}

// marker parses a {n} positional marker at s[i:]
func marker(s string, i int) (index, n int, ok bool) {
	if s[i] != '{' {
		return 0, 0, false
	}
	end := strings.IndexByte(s[i:], '}')
	if end < 2 {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(s[i+1 : i+end])
	if err != nil || idx < 0 {
		return 0, 0, false
	}
	return idx, end + 1, true
}

// ExpandMarkers rewrites {n} markers into '?' placeholders and returns the
// arguments in placeholder order. A marker may appear more than once.
func ExpandMarkers(s string, args []any) (string, []any, error) {
	var out []any
	sql, err := walk(s, func(i int) (string, int, bool, error) {
		idx, n, ok := marker(s, i)
		if !ok {
			return "", 0, false, nil
		}
		if idx >= len(args) {
			return "", 0, false, fmt.Errorf("marker {%d} has no argument (%d given)", idx, len(args))
		}
		out = append(out, args[idx])
		return "?", n, true, nil
	})
	return sql, out, err
}

// NumberPlaceholders rewrites '?' placeholders into {start}, {start+1}, ...
func NumberPlaceholders(s string, start int) (string, int, error) {
	next := start
	sql, err := walk(s, func(i int) (string, int, bool, error) {
		if s[i] != '?' {
			return "", 0, false, nil
		}
		m := "{" + strconv.Itoa(next) + "}"
		next++
		return m, 1, true, nil
	})
	return sql, next - start, err
}

// InlineMarkers replaces {n} markers with literals
func (d Dialect) InlineMarkers(s string, args []any) (string, error) {
	return walk(s, func(i int) (string, int, bool, error) {
		idx, n, ok := marker(s, i)
		if !ok {
			return "", 0, false, nil
		}
		if idx >= len(args) {
			return "", 0, false, fmt.Errorf("marker {%d} has no argument (%d given)", idx, len(args))
		}
		return d.Literal(args[idx]), n, true, nil
	})
}

// InlinePlaceholders replaces '?' placeholders with literals, in order
func (d Dialect) InlinePlaceholders(s string, args []any) (string, error) {
	next := 0
	sql, err := walk(s, func(i int) (string, int, bool, error) {
		if s[i] != '?' {
			return "", 0, false, nil
		}
		if next >= len(args) {
			return "", 0, false, fmt.Errorf("placeholder %d has no argument", next+1)
		}
		lit := d.Literal(args[next])
		next++
		return lit, 1, true, nil
	})
	if err != nil {
		return "", err
	}
	if next != len(args) {
		return "", fmt.Errorf("%d arguments for %d placeholders", len(args), next)
	}
	return sql, nil
}

// ReplaceIdent rewrites every occurrence of ident outside string literals.
// A bare identifier only matches as a whole word.
func ReplaceIdent(s, ident, repl string) (string, error) {
	if ident == "" {
		return s, nil
	}
	quoted := ident[0] == '[' || ident[0] == '"'
	return walk(s, func(i int) (string, int, bool, error) {
		if !strings.HasPrefix(s[i:], ident) {
			return "", 0, false, nil
		}
		if !quoted {
			end := i + len(ident)
			if (i > 0 && isWordByte(s[i-1])) || (end < len(s) && isWordByte(s[end])) {
				return "", 0, false, nil
			}
		}
		return repl, len(ident), true, nil
	})
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
