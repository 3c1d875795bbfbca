package repository

import (
	"context"
	"fmt"

	"outage-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// Live table names. These are the only identifiers ever interpolated into SQL.
const (
	TableAddresses    = "addresses"
	TableServiceLines = "service_lines"
	TableOutageLines  = "outage_lines"
	TableIncidents    = "outage_incidents"
)

// Tables lists every table the store owns.
var Tables = []string{TableAddresses, TableServiceLines, TableOutageLines, TableIncidents}

func knownTable(table string) bool {
	for _, t := range Tables {
		if t == table {
			return true
		}
	}
	return false
}

// LineTable returns the table holding lines of the given kind.
func LineTable(kind models.LineKind) (string, error) {
	switch kind {
	case models.LineKindService:
		return TableServiceLines, nil
	case models.LineKindOutage:
		return TableOutageLines, nil
	}
	return "", fmt.Errorf("repository: unknown line kind %q", kind)
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func addressTableDDL(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quote(name) + ` (
		id BIGINT PRIMARY KEY,
		address_line_1 TEXT NOT NULL DEFAULT '',
		address_line_2 TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		county TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		geom GEOMETRY(POINT, 4326) NOT NULL
	)`
}

func lineTableDDL(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quote(name) + ` (
		id BIGINT PRIMARY KEY,
		line_id TEXT,
		geom GEOMETRY(LINESTRING, 4326) NOT NULL
	)`
}

func incidentTableDDL(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + quote(name) + ` (
		id BIGINT PRIMARY KEY,
		customers_affected INTEGER NOT NULL DEFAULT 0,
		outage_cause TEXT NOT NULL DEFAULT '',
		outage_start TIMESTAMPTZ NOT NULL,
		county TEXT NOT NULL DEFAULT '',
		zipcode TEXT NOT NULL DEFAULT '',
		geom GEOMETRY(POINT, 4326) NOT NULL
	)`
}

// spatialIndexDDL creates the planar and geography GIST indexes of a table.
// prefix names the indexes so a staging table can build its own before the swap.
func spatialIndexDDL(table, prefix string) []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS ` + quote(prefix+"_geom_idx") + ` ON ` + quote(table) + ` USING GIST (geom)`,
		`CREATE INDEX IF NOT EXISTS ` + quote(prefix+"_geog_idx") + ` ON ` + quote(table) + ` USING GIST ((geom::geography))`,
	}
}

// EnsureSchema installs PostGIS and creates the empty tables and their
// indexes if they do not exist yet. It does the work once per repository;
// a failed attempt is retried on the next call.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.schemaReady {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		addressTableDDL(TableAddresses),
		lineTableDDL(TableServiceLines),
		lineTableDDL(TableOutageLines),
		incidentTableDDL(TableIncidents),
	}
	for _, table := range Tables {
		stmts = append(stmts, spatialIndexDDL(table, table)...)
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("repository: failed to ensure schema: %w", err)
		}
	}

	r.schemaReady = true
	return nil
}
