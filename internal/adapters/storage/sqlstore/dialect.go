// Package sqlstore implementa los repositorios sobre database/sql. El mismo
// SQL corre en PostgreSQL (pgx) y SQLite (modernc); Dialect cubre las diferencias.
package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case Postgres, "pgx", "postgresql":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unknown sql dialect %q", s)
	}
}

// Rebind traduce placeholders "?" a "$n" en Postgres. No hay literales con
// "?" en las queries del paquete.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
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

// timeArg: Postgres guarda TIMESTAMPTZ, SQLite texto RFC3339.
func (d Dialect) timeArg(t time.Time) any {
	if d == SQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

type columnTypes struct {
	id    string
	float string
	ts    string
	money string
}

func (d Dialect) types() columnTypes {
	if d == SQLite {
		return columnTypes{
			id:    "INTEGER PRIMARY KEY AUTOINCREMENT",
			float: "REAL",
			ts:    "TEXT",
			money: "TEXT",
		}
	}
	return columnTypes{
		id:    "BIGSERIAL PRIMARY KEY",
		float: "DOUBLE PRECISION",
		ts:    "TIMESTAMPTZ",
		money: "NUMERIC(12,2)",
	}
}

// moneyExpr compara valor numéricamente también cuando se guarda como texto.
func (d Dialect) moneyExpr(col string) string {
	if d == SQLite {
		return "CAST(" + col + " AS REAL)"
	}
	return col
}
