// Package tables registers all table definitions with the core registry.
// Import this package to ensure all tables are registered.
//
// Every table starts on an in-process mock dataset. Call
// core.UseSources(PostgresSources(pool, ttl)) to read them from PostgreSQL,
// or core.UseSources(CSVSources(dir, ttl)) to read <dir>/<key>.csv files.
package tables

import (
	"path/filepath"
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

// Dashboard sections.
const (
	GroupRecruiting = "Recruiting"
	GroupPeople     = "People"
)

// PostgresSources returns a factory that reads each table's DBTable,
// cached for ttl.
func PostgresSources(db datasource.Querier, ttl time.Duration) core.SourceFactory {
	return func(def core.TableDefinition) datasource.Source {
		return datasource.NewCached(datasource.NewPostgres(db, def.DBTable), ttl)
	}
}

// CSVSources returns a factory that reads each table from <dir>/<key>.csv,
// cached for ttl. Headers may be column ids or labels, so an exported file
// reloads as is; multi-select columns are split on commas.
func CSVSources(dir string, ttl time.Duration) core.SourceFactory {
	return func(def core.TableDefinition) datasource.Source {
		headers := make(map[string]string, 2*len(def.Columns))
		var lists []string
		for _, c := range def.Columns {
			field := c.Key
			if field == "" {
				field = c.ID
			}
			headers[c.ID] = field
			if c.Label != "" {
				headers[c.Label] = field
			}
			if c.Kind == table.KindMultiSelect {
				lists = append(lists, field)
			}
		}

		path := filepath.Join(dir, def.Info.Key+".csv")
		src := datasource.NewCSV(path, datasource.WithHeaderFields(headers), datasource.WithListFields(lists...))
		return datasource.NewCached(src, ttl)
	}
}

// day is a UTC calendar date.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
