package repository

import (
	"context"
	"fmt"

	"outage-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb/encoding/wkb"
)

// ReplaceAddresses swaps the whole addresses table for the given rows.
// Duplicate ids keep their first occurrence. It returns the number of rows stored.
func (r *Repository) ReplaceAddresses(ctx context.Context, addresses []models.Address) (int64, error) {
	load := []string{
		`CREATE TEMP TABLE address_load (
			ord BIGINT,
			id BIGINT,
			address_line_1 TEXT,
			address_line_2 TEXT,
			city TEXT,
			county TEXT,
			zipcode TEXT,
			lon DOUBLE PRECISION,
			lat DOUBLE PRECISION
		) ON COMMIT DROP`,
	}
	build := `CREATE TABLE ` + quote(TableAddresses+"_next") + ` AS
		SELECT DISTINCT ON (id)
			id,
			COALESCE(address_line_1, '') AS address_line_1,
			COALESCE(address_line_2, '') AS address_line_2,
			COALESCE(city, '') AS city,
			COALESCE(county, '') AS county,
			COALESCE(zipcode, '') AS zipcode,
			ST_SetSRID(ST_MakePoint(lon, lat), 4326)::geometry(POINT, 4326) AS geom
		FROM address_load
		WHERE id IS NOT NULL AND lon IS NOT NULL AND lat IS NOT NULL
		ORDER BY id, ord`

	source := pgx.CopyFromSlice(len(addresses), func(i int) ([]any, error) {
		a := addresses[i]
		return []any{int64(i), a.ID, a.AddressLine1, a.AddressLine2, a.City, a.County, a.Zipcode, a.Longitude, a.Latitude}, nil
	})
	columns := []string{"ord", "id", "address_line_1", "address_line_2", "city", "county", "zipcode", "lon", "lat"}

	return r.replace(ctx, TableAddresses, load, "address_load", columns, source, build)
}

// ReplaceLines swaps the line table of the given kind for lines, in order.
// Lines with fewer than two vertices must be filtered by the caller.
func (r *Repository) ReplaceLines(ctx context.Context, kind models.LineKind, lines []models.LineString) (int64, error) {
	table, err := LineTable(kind)
	if err != nil {
		return 0, err
	}

	encoded := make([][]byte, len(lines))
	for i, l := range lines {
		if len(l.Coordinates) < 2 {
			return 0, fmt.Errorf("repository: line %d has %d vertices", i, len(l.Coordinates))
		}
		b, err := wkb.Marshal(l.Coordinates)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to encode line %d: %w", i, err)
		}
		encoded[i] = b
	}

	load := []string{
		`CREATE TEMP TABLE line_load (
			ord BIGINT,
			line_id TEXT,
			wkb BYTEA
		) ON COMMIT DROP`,
	}
	build := `CREATE TABLE ` + quote(table+"_next") + ` AS
		SELECT
			ROW_NUMBER() OVER (ORDER BY ord) AS id,
			NULLIF(line_id, '') AS line_id,
			ST_SetSRID(ST_GeomFromWKB(wkb), 4326)::geometry(LINESTRING, 4326) AS geom
		FROM line_load`

	source := pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
		return []any{int64(i), lines[i].ID, encoded[i]}, nil
	})

	return r.replace(ctx, table, load, "line_load", []string{"ord", "line_id", "wkb"}, source, build)
}

// replace runs the create-or-replace sequence in one transaction: rows are
// copied into a temporary load table, the staging table is built and indexed
// from it, and finally swapped in under the live name. Readers see either the
// old or the new table. Concurrent replacements of the same table queue on an
// advisory lock.
func (r *Repository) replace(
	ctx context.Context,
	table string,
	load []string,
	loadTable string,
	columns []string,
	source pgx.CopyFromSource,
	build string,
) (int64, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin replace of %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, table); err != nil {
		return 0, fmt.Errorf("repository: failed to lock %s: %w", table, err)
	}

	for _, stmt := range load {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("repository: failed to create load table for %s: %w", table, err)
		}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{loadTable}, columns, source); err != nil {
		return 0, fmt.Errorf("repository: failed to copy rows into %s: %w", table, err)
	}

	next := table + "_next"
	stmts := []string{
		`DROP TABLE IF EXISTS ` + quote(next),
		build,
		`ALTER TABLE ` + quote(next) + ` ADD CONSTRAINT ` + quote(next+"_pkey") + ` PRIMARY KEY (id)`,
		`ALTER TABLE ` + quote(next) + ` ALTER COLUMN geom SET NOT NULL`,
	}
	stmts = append(stmts, spatialIndexDDL(next, next)...)
	stmts = append(stmts,
		`DROP TABLE IF EXISTS `+quote(table),
		`ALTER TABLE `+quote(next)+` RENAME TO `+quote(table),
		`ALTER TABLE `+quote(table)+` RENAME CONSTRAINT `+quote(next+"_pkey")+` TO `+quote(table+"_pkey"),
		`ALTER INDEX `+quote(next+"_geom_idx")+` RENAME TO `+quote(table+"_geom_idx"),
		`ALTER INDEX `+quote(next+"_geog_idx")+` RENAME TO `+quote(table+"_geog_idx"),
	)

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("repository: failed to swap %s: %w", table, err)
		}
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+quote(table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit replace of %s: %w", table, err)
	}
	return count, nil
}
