package repository

import (
	"context"
	"fmt"

	"outage-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
)

// ReplaceIncidents swaps the incident table for the given rows. Duplicate ids
// keep their first occurrence.
func (r *Repository) ReplaceIncidents(ctx context.Context, incidents []models.OutageIncident) (int64, error) {
	load := []string{
		`CREATE TEMP TABLE incident_load (
			ord BIGINT,
			id BIGINT,
			customers_affected INTEGER,
			outage_cause TEXT,
			outage_start TIMESTAMPTZ,
			county TEXT,
			zipcode TEXT,
			lon DOUBLE PRECISION,
			lat DOUBLE PRECISION
		) ON COMMIT DROP`,
	}
	build := `CREATE TABLE ` + quote(TableIncidents+"_next") + ` AS
		SELECT DISTINCT ON (id)
			id,
			COALESCE(customers_affected, 0) AS customers_affected,
			COALESCE(outage_cause, '') AS outage_cause,
			outage_start,
			COALESCE(county, '') AS county,
			COALESCE(zipcode, '') AS zipcode,
			ST_SetSRID(ST_MakePoint(lon, lat), 4326)::geometry(POINT, 4326) AS geom
		FROM incident_load
		WHERE id IS NOT NULL AND outage_start IS NOT NULL AND lon IS NOT NULL AND lat IS NOT NULL
		ORDER BY id, ord`

	source := pgx.CopyFromSlice(len(incidents), func(i int) ([]any, error) {
		inc := incidents[i]
		return []any{int64(i), inc.ID, int32(inc.CustomersAffected), inc.Cause, inc.Start, inc.County, inc.Zipcode, inc.Longitude, inc.Latitude}, nil
	})
	columns := []string{"ord", "id", "customers_affected", "outage_cause", "outage_start", "county", "zipcode", "lon", "lat"}

	return r.replace(ctx, TableIncidents, load, "incident_load", columns, source, build)
}

// IncidentsNear returns up to limit incidents within radiusMeters of center,
// nearest first, with their spheroidal distance.
func (r *Repository) IncidentsNear(ctx context.Context, center orb.Point, radiusMeters float64, limit int) ([]models.NearbyIncident, error) {
	sql := `
		SELECT id, customers_affected, outage_cause, outage_start, county, zipcode,
			ST_Y(geom), ST_X(geom),
			ST_Distance(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, true) AS distance
		FROM outage_incidents
		WHERE ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance, id
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, center.Lon(), center.Lat(), radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute nearby incidents query: %w", err)
	}
	defer rows.Close()

	results := []models.NearbyIncident{}
	for rows.Next() {
		var n models.NearbyIncident
		var customers int32
		if err := rows.Scan(
			&n.ID,
			&customers,
			&n.Cause,
			&n.Start,
			&n.County,
			&n.Zipcode,
			&n.Latitude,
			&n.Longitude,
			&n.DistanceMeters,
		); err != nil {
			return nil, fmt.Errorf("repository: failed to scan incident: %w", err)
		}
		n.CustomersAffected = int(customers)
		results = append(results, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return results, nil
}

// IncidentSummaryByZip aggregates the incidents reported in zipcode.
func (r *Repository) IncidentSummaryByZip(ctx context.Context, zipcode string) (models.ZipOutageSummary, error) {
	sql := `
		SELECT COUNT(*), COALESCE(SUM(customers_affected), 0), MIN(outage_start)
		FROM outage_incidents
		WHERE zipcode = $1
	`

	summary := models.ZipOutageSummary{Zipcode: zipcode}
	err := r.db.QueryRow(ctx, sql, zipcode).Scan(
		&summary.Incidents,
		&summary.CustomersAffected,
		&summary.EarliestStart,
	)
	if err != nil {
		return models.ZipOutageSummary{}, fmt.Errorf("repository: failed to summarize incidents for %s: %w", zipcode, err)
	}
	return summary, nil
}

// RowCount returns the number of rows in one of the store's tables.
func (r *Repository) RowCount(ctx context.Context, table string) (int64, error) {
	if !knownTable(table) {
		return 0, fmt.Errorf("repository: unknown table %q", table)
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+quote(table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count %s: %w", table, err)
	}
	return count, nil
}
