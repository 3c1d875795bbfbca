package repository

import (
	"context"
	"fmt"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
)

const addressColumns = `
	id,
	address_line_1,
	address_line_2,
	city,
	county,
	zipcode,
	ST_Y(geom) AS latitude,
	ST_X(geom) AS longitude`

func scanAddress(row pgx.Row) (models.Address, error) {
	var a models.Address
	err := row.Scan(
		&a.ID,
		&a.AddressLine1,
		&a.AddressLine2,
		&a.City,
		&a.County,
		&a.Zipcode,
		&a.Latitude,
		&a.Longitude,
	)
	return a, err
}

func collectAddresses(rows pgx.Rows) ([]models.Address, error) {
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return addresses, nil
}

// ScanAddresses streams addresses to fn. When radiusMeters is positive only
// addresses within that geodesic distance of center are visited; otherwise
// the whole table is. Iteration stops at the first error returned by fn.
func (r *Repository) ScanAddresses(ctx context.Context, center orb.Point, radiusMeters float64, fn func(models.Address) error) error {
	var (
		rows pgx.Rows
		err  error
	)
	if radiusMeters > 0 {
		sql := `
			SELECT` + addressColumns + `
			FROM addresses
			WHERE ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		`
		rows, err = r.db.Query(ctx, sql, center.Lon(), center.Lat(), radiusMeters)
	} else {
		rows, err = r.db.Query(ctx, `SELECT`+addressColumns+` FROM addresses`)
	}
	if err != nil {
		return fmt.Errorf("repository: failed to execute address scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return fmt.Errorf("repository: failed to scan address: %w", err)
		}
		if err := fn(a); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return nil
}

// NearestAddresses returns up to limit addresses ordered by geodesic distance
// to center, optionally restricted to radiusMeters when it is positive.
func (r *Repository) NearestAddresses(ctx context.Context, center orb.Point, radiusMeters float64, limit int) ([]models.Address, error) {
	sql := `
		SELECT` + addressColumns + `
		FROM addresses
		WHERE $3::float8 <= 0
		   OR ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3::float8)
		ORDER BY geom::geography <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, center.Lon(), center.Lat(), radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute nearest query: %w", err)
	}
	return collectAddresses(rows)
}

// AddressesInBounds returns up to limit addresses inside the closed rectangle b.
func (r *Repository) AddressesInBounds(ctx context.Context, b geo.Bounds, limit int) ([]models.Address, error) {
	sql := `
		SELECT` + addressColumns + `
		FROM addresses
		WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		LIMIT $5
	`

	rows, err := r.db.Query(ctx, sql,
		b.SouthWest.Lon(), b.SouthWest.Lat(), b.NorthEast.Lon(), b.NorthEast.Lat(), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute bounds query: %w", err)
	}
	return collectAddresses(rows)
}

// ClustersInBounds snaps the addresses inside b onto a grid of cellDegrees
// cells and returns one centroid per non-empty cell, largest first.
func (r *Repository) ClustersInBounds(ctx context.Context, b geo.Bounds, cellDegrees float64, limit int) ([]models.AddressCluster, error) {
	sql := `
		SELECT
			AVG(ST_Y(geom)) AS latitude,
			AVG(ST_X(geom)) AS longitude,
			COUNT(*) AS count
		FROM addresses
		WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		GROUP BY FLOOR(ST_X(geom) / $5::float8), FLOOR(ST_Y(geom) / $5::float8)
		ORDER BY count DESC, latitude, longitude
		LIMIT $6
	`

	rows, err := r.db.Query(ctx, sql,
		b.SouthWest.Lon(), b.SouthWest.Lat(), b.NorthEast.Lon(), b.NorthEast.Lat(), cellDegrees, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute cluster query: %w", err)
	}
	defer rows.Close()

	clusters := []models.AddressCluster{}
	for rows.Next() {
		var c models.AddressCluster
		if err := rows.Scan(&c.Latitude, &c.Longitude, &c.Count); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cluster: %w", err)
		}
		clusters = append(clusters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return clusters, nil
}
