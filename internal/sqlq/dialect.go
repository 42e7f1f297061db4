package sqlq

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the rendering differences between supported engines
type Dialect struct {
	Name string

	paramPrefix   string // numbered placeholders (@p1, @p2, ...); empty keeps '?'
	unicodePrefix bool   // N'...' string literals
	offsetFetch   bool   // OFFSET n ROWS FETCH NEXT m ROWS ONLY instead of LIMIT/OFFSET
}

var (
	// SQLServer renders N'' literals, OFFSET/FETCH paging and @pN placeholders
	SQLServer = Dialect{Name: "sqlserver", paramPrefix: "@p", unicodePrefix: true, offsetFetch: true}
	// SQLite renders '' literals, LIMIT/OFFSET paging and ? placeholders
	SQLite = Dialect{Name: "sqlite"}
)

// DialectByName looks up a dialect by its name
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SQLServer.Name, "mssql":
		return SQLServer, nil
	case SQLite.Name, "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported dialect: %s", name)
}

// QuoteIdent brackets an identifier. Already bracketed input and the
// star selector are returned unchanged.
func QuoteIdent(name string) string {
	if name == "*" || (strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]")) {
		return name
	}
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// Column qualifies column with alias, both bracketed
func Column(alias, column string) string {
	return QuoteIdent(alias) + "." + QuoteIdent(column)
}

// bind rewrites '?' placeholders outside string literals into the
// dialect's parameter form
func (d Dialect) bind(s string) (string, error) {
	if d.paramPrefix == "" {
		return s, nil
	}
	n := 0
	return walk(s, func(i int) (string, int, bool, error) {
		if s[i] != '?' {
			return "", 0, false, nil
		}
		n++
		return d.paramPrefix + strconv.Itoa(n), 1, true, nil
	})
}

// paging renders the row-limiting clause for w
func (d Dialect) paging(w *paging) string {
	if d.offsetFetch {
		return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", w.offset, w.fetch)
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", w.fetch, w.offset)
}

// Quote renders s as a string literal
func (d Dialect) Quote(s string) string {
	lit := "'" + strings.ReplaceAll(s, "'", "''") + "'"
	if d.unicodePrefix {
		return "N" + lit
	}
	return lit
}

// Literal renders v inline, for inspection output
func (d Dialect) Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return d.Quote(x)
	case []byte:
		return "0x" + strings.ToUpper(hex.EncodeToString(x))
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return d.Quote(x.Format("2006-01-02T15:04:05.9999999"))
	case fmt.Stringer:
		return d.Quote(x.String())
	}
	return d.Quote(fmt.Sprint(v))
}
