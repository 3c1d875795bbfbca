package repository

import (
	"context"
	"fmt"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

func collectLines(rows pgx.Rows) ([]models.LineString, error) {
	defer rows.Close()

	lines := []models.LineString{}
	for rows.Next() {
		var (
			id  *string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("repository: failed to scan line: %w", err)
		}

		g, err := wkb.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to decode line geometry: %w", err)
		}
		ls, ok := g.(orb.LineString)
		if !ok {
			return nil, fmt.Errorf("repository: unexpected geometry type %s", g.GeoJSONType())
		}

		line := models.LineString{Coordinates: ls}
		if id != nil {
			line.ID = *id
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return lines, nil
}

// LinesInBounds returns up to limit lines of the given kind that intersect b.
func (r *Repository) LinesInBounds(ctx context.Context, kind models.LineKind, b geo.Bounds, limit int) ([]models.LineString, error) {
	table, err := LineTable(kind)
	if err != nil {
		return nil, err
	}

	sql := `
		SELECT line_id, ST_AsBinary(geom)
		FROM ` + quote(table) + `
		WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		LIMIT $5
	`

	rows, err := r.db.Query(ctx, sql,
		b.SouthWest.Lon(), b.SouthWest.Lat(), b.NorthEast.Lon(), b.NorthEast.Lat(), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute line bounds query: %w", err)
	}
	return collectLines(rows)
}

// LinesNear returns up to limit lines of the given kind within radiusMeters of
// center, nearest first.
func (r *Repository) LinesNear(ctx context.Context, kind models.LineKind, center orb.Point, radiusMeters float64, limit int) ([]models.LineString, error) {
	table, err := LineTable(kind)
	if err != nil {
		return nil, err
	}

	sql := `
		SELECT line_id, ST_AsBinary(geom)
		FROM ` + quote(table) + `
		WHERE ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY geom::geography <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, center.Lon(), center.Lat(), radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute nearby line query: %w", err)
	}
	return collectLines(rows)
}
