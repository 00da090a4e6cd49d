package storage

import (
	"strconv"
	"strings"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name          string
	realType      string
	timestampType string
	dollarParams  bool
}

var (
	sqliteDialect = dialect{
		name:          "sqlite3",
		realType:      "REAL",
		timestampType: "DATETIME",
	}
	postgresDialect = dialect{
		name:          "postgres",
		realType:      "DOUBLE PRECISION",
		timestampType: "TIMESTAMPTZ",
		dollarParams:  true,
	}
)

// rebind rewrites ? placeholders into the dialect's parameter syntax.
func (d dialect) rebind(query string) string {
	if !d.dollarParams {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insertIgnore builds an insert that silently skips rows violating the
// unique constraint on conflictColumn.
func (d dialect) insertIgnore(table, conflictColumn string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	cols := strings.Join(columns, ", ")

	if d.dollarParams {
		return d.rebind("INSERT INTO " + table + " (" + cols + ") VALUES (" + placeholders +
			") ON CONFLICT (" + conflictColumn + ") DO NOTHING")
	}
	return "INSERT OR IGNORE INTO " + table + " (" + cols + ") VALUES (" + placeholders + ")"
}

// upsert builds an insert that replaces the row sharing the same id.
func (d dialect) upsert(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	cols := strings.Join(columns, ", ")

	if !d.dollarParams {
		return "INSERT OR REPLACE INTO " + table + " (" + cols + ") VALUES (" + placeholders + ")"
	}

	updates := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "id" {
			continue
		}
		updates = append(updates, c+" = EXCLUDED."+c)
	}
	return d.rebind("INSERT INTO " + table + " (" + cols + ") VALUES (" + placeholders +
		") ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", "))
}
