package datasource

// postgres.go loads a whole table from PostgreSQL.
//
// The SELECT carries no WHERE, ORDER BY or LIMIT: the engine filters and
// pages in memory, so the source only has to produce rows shaped as records.
// pgx decodes most columns to native Go values already; normalizeValue
// handles the pgtype wrappers and raw forms that are left.

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// Querier is the subset of *pgxpool.Pool used by Postgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres loads every row of one table.
type Postgres struct {
	db      Querier
	table   string
	columns []string
}

// NewPostgres returns a source reading columns from tableName. An empty
// column list selects every column.
func NewPostgres(db Querier, tableName string, columns ...string) *Postgres {
	return &Postgres{db: db, table: tableName, columns: columns}
}

// Query returns the SQL statement the source runs.
func (p *Postgres) Query() string {
	cols := "*"
	if len(p.columns) > 0 {
		quoted := make([]string, len(p.columns))
		for i, c := range p.columns {
			quoted[i] = quoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s", cols, quoteIdentifier(p.table))
}

// Load runs the query and builds one record per row, keyed by the result's
// field names.
func (p *Postgres) Load(ctx context.Context) ([]table.Record, error) {
	rows, err := p.db.Query(ctx, p.Query())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", p.table, ErrUnavailable, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	var records []table.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("load %s: read row values: %w", p.table, err)
		}

		r := make(table.Record, len(names))
		for i, name := range names {
			r[name] = normalizeValue(values[i])
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", p.table, ErrUnavailable, err)
	}
	return records, nil
}

// quoteIdentifier safely quotes a PostgreSQL identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue converts a decoded database value to a form the table
// engine compares and filters well: numbers as float64 or ints, dates as
// time.Time, uuids as strings, and invalid values as nil.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		if !val.Valid || val.NaN {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid || math.IsInf(f.Float64, 0) {
			return nil
		}
		return f.Float64
	case pgtype.Date:
		if !val.Valid || val.InfinityModifier != pgtype.Finite {
			return nil
		}
		return val.Time
	case pgtype.Timestamp:
		if !val.Valid || val.InfinityModifier != pgtype.Finite {
			return nil
		}
		return val.Time
	case pgtype.Timestamptz:
		if !val.Valid || val.InfinityModifier != pgtype.Finite {
			return nil
		}
		return val.Time
	case pgtype.Text:
		if !val.Valid {
			return nil
		}
		return val.String
	case pgtype.UUID:
		if !val.Valid {
			return nil
		}
		return uuid.UUID(val.Bytes).String()
	case [16]byte:
		return uuid.UUID(val).String()
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val
	case []byte:
		return string(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return val
	}
}
