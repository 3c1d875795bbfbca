package repository

import (
	"context"
	"fmt"

	"outage-api/internal/models"
)

// NearestOutageDistances returns, for each id that exists in the address
// table, the spheroidal distance in meters to the closest outage line.
// Ids with no address are absent from the result; existing addresses get a
// nil distance when the outage table is empty.
//
// The distance is measured from the address to the line-side end of the
// planar shortest line between them.
func (r *Repository) NearestOutageDistances(ctx context.Context, ids []int64) ([]models.OutageDistance, error) {
	sql := `
		SELECT
			a.id,
			MIN(ST_Distance(
				a.geom::geography,
				ST_EndPoint(ST_ShortestLine(a.geom, o.geom))::geography,
				true
			)) AS distance
		FROM addresses a
		LEFT JOIN outage_lines o ON true
		WHERE a.id = ANY($1)
		GROUP BY a.id
		ORDER BY a.id
	`

	rows, err := r.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute outage distance query: %w", err)
	}
	defer rows.Close()

	results := []models.OutageDistance{}
	for rows.Next() {
		var d models.OutageDistance
		if err := rows.Scan(&d.AddressID, &d.Distance); err != nil {
			return nil, fmt.Errorf("repository: failed to scan outage distance: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return results, nil
}
