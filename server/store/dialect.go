package store

import (
	"strconv"
	"strings"
)

type dialect interface {
	name() string
	rebind(q string) string
	idColumn() string
}

type sqliteDialect struct{}

func (sqliteDialect) name() string           { return DriverSQLite }
func (sqliteDialect) rebind(q string) string { return q }
func (sqliteDialect) idColumn() string       { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

type postgresDialect struct{}

func (postgresDialect) name() string     { return DriverPostgres }
func (postgresDialect) idColumn() string { return "BIGSERIAL PRIMARY KEY" }

// rebind turns ? placeholders into $1, $2, ...
func (postgresDialect) rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}
