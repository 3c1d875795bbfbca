package service

import (
	"context"
	"fmt"
	"math"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/paulmach/orb"
)

// DefaultMaxIncidents caps one nearby-incidents response.
const DefaultMaxIncidents = 500

// IncidentService answers questions about reported outage incidents.
type IncidentService struct {
	repo       IncidentRepository
	maxResults int
}

// IncidentRepository interface for dependency injection
type IncidentRepository interface {
	IncidentsNear(ctx context.Context, center orb.Point, radiusMeters float64, limit int) ([]models.NearbyIncident, error)
	IncidentSummaryByZip(ctx context.Context, zipcode string) (models.ZipOutageSummary, error)
}

// NewIncidentService creates a new incident service.
func NewIncidentService(repo IncidentRepository, maxResults int) *IncidentService {
	if maxResults <= 0 {
		maxResults = DefaultMaxIncidents
	}
	return &IncidentService{repo: repo, maxResults: maxResults}
}

// Nearby returns incidents within radiusMeters of p, nearest first.
func (s *IncidentService) Nearby(ctx context.Context, p orb.Point, radiusMeters float64) ([]models.NearbyIncident, error) {
	if !geo.ValidPoint(p) {
		return nil, invalid("position", "coordinates %v out of range", p)
	}
	if math.IsNaN(radiusMeters) || radiusMeters <= 0 || radiusMeters > MaxNearbyRadiusMeters {
		return nil, invalid("radius", "must be in (0, %d] meters", MaxNearbyRadiusMeters)
	}

	incidents, err := s.repo.IncidentsNear(ctx, p, radiusMeters, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("service: failed to query nearby incidents: %w", err)
	}
	for i := range incidents {
		incidents[i].DistanceText = geo.FormatDistance(incidents[i].DistanceMeters)
	}
	return incidents, nil
}

// ZipSummary totals the incidents reported in one zip code. A zip code with
// no incidents is not an error.
func (s *IncidentService) ZipSummary(ctx context.Context, zipcode string) (models.ZipOutageSummary, error) {
	zip := models.NormalizeText(zipcode)
	if zip == "" {
		return models.ZipOutageSummary{}, invalid("zip", "is required")
	}

	summary, err := s.repo.IncidentSummaryByZip(ctx, zip)
	if err != nil {
		return models.ZipOutageSummary{}, fmt.Errorf("service: failed to summarize incidents: %w", err)
	}
	summary.Zipcode = zip
	summary.Affected = summary.Incidents > 0
	return summary, nil
}
