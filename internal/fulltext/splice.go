package fulltext

import (
	"regexp"
	"strings"

	"github.com/dshills/ftsearch/internal/sqlq"
	"github.com/dshills/ftsearch/pkg/types"
)

// derivedOpener is the line that opens a derived table in rendered SQL
const derivedOpener = "FROM ("

// aliasLinePattern matches the line closing a derived table, capturing
// its alias and whatever follows on the same line
var aliasLinePattern = regexp.MustCompile(`^\)\s*AS\s+(\[[^\]]+\]|"[^"]+"|[A-Za-z_][A-Za-z0-9_]*)(.*)$`)

// spliced is a flattened query. When inlined is set the predicate is still
// embedded as a literal and must be rebound before execution.
type spliced struct {
	sql     string
	args    []any
	inlined bool
}

// lineSplice extracts the clauses that follow the derived table in text,
// rewritten to the table alias. With leadingLine set, the line after the
// derived-table opener is returned as well.
func lineSplice(text string, a Aliases, leadingLine bool) (leading, tail string, err error) {
	var (
		alias       string
		found       bool
		expectInner bool
		parts       []string
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if found {
			if line != "" {
				parts = append(parts, line)
			}
			continue
		}

		if expectInner {
			leading = line
			expectInner = false
			continue
		}

		if leadingLine && leading == "" && line == derivedOpener {
			expectInner = true
			continue
		}

		if m := aliasLinePattern.FindStringSubmatch(line); m != nil {
			alias = m[1]
			found = true
			if rest := strings.TrimSpace(m[2]); rest != "" {
				parts = append(parts, rest)
			}
		}
	}

	if !found {
		return "", "", &types.RewriteError{Stage: "splice", Detail: "derived table alias line not found"}
	}
	if strings.EqualFold(unquote(alias), a.Key) {
		return "", "", &types.RewriteError{Stage: "splice", Detail: "upstream alias " + alias + " collides with the key alias"}
	}

	tail, err = sqlq.ReplaceIdent(strings.Join(parts, " "), alias, a.table())
	if err != nil {
		return "", "", err
	}
	return leading, tail, nil
}

func unquote(alias string) string {
	return strings.Trim(alias, `[]"`)
}

// fragmentSplice recombines the clauses of q onto a leading query. Without
// fromDerived the leading query is base; with it, the derived source of q
// is reused so its arguments carry over.
func fragmentSplice(q types.Fragmenter, a Aliases, base string, baseArgs []any, fromDerived bool) (*spliced, error) {
	frags, err := q.Fragments(a.Table)
	if err != nil {
		return nil, err
	}

	var (
		b      strings.Builder
		args   []any
		source *types.Fragment
	)
	for i := range frags {
		if frags[i].Kind == types.FragmentFrom {
			source = &frags[i]
			break
		}
	}
	if source == nil || !source.Derived {
		return nil, &types.RewriteError{Stage: "fragment", Detail: "query has no derived source"}
	}

	if fromDerived {
		b.WriteString(source.SQL)
		args = append(args, source.Args...)
	} else {
		b.WriteString(base)
		args = append(args, baseArgs...)
	}

	for _, f := range frags {
		var prefix string
		switch f.Kind {
		case types.FragmentWhere:
			prefix = " WHERE "
		case types.FragmentOrder:
			prefix = " "
		default:
			continue
		}

		sql, _, err := sqlq.NumberPlaceholders(f.SQL, len(args))
		if err != nil {
			return nil, err
		}
		b.WriteString(prefix + sql)
		args = append(args, f.Args...)
	}

	return &spliced{sql: b.String(), args: args}, nil
}

func joinClauses(leading, tail string) string {
	if tail == "" {
		return leading
	}
	return leading + " " + tail
}
