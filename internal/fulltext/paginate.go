package fulltext

import (
	"fmt"
	"strings"

	"github.com/dshills/ftsearch/pkg/types"
)

// rankClause orders by relevance, breaking ties with the unique sort so
// repeated calls page deterministically
func (p *Provider) rankClause(w types.Window) string {
	return fmt.Sprintf("ORDER BY %s.RANK DESC, %s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY",
		p.aliases.key(), p.uniqueSort(), w.Offset, w.Fetch)
}

func (p *Provider) uniqueSort() string {
	cols := p.cfg.UniqueSort
	if len(cols) == 0 {
		cols = []SortColumn{{Column: p.cfg.KeyColumn}}
	}

	parts := make([]string, len(cols))
	for i, c := range cols {
		dir := "ASC"
		if c.Desc {
			dir = "DESC"
		}
		parts[i] = p.aliases.table() + "." + quoteIdent(c.Column) + " " + dir
	}
	return strings.Join(parts, ", ")
}
