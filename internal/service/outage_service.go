package service

import (
	"context"
	"fmt"
	"math"

	"outage-api/internal/geo"
	"outage-api/internal/models"
)

const (
	// DefaultOutageThresholdMeters is the distance at or under which an
	// address counts as affected by an outage.
	DefaultOutageThresholdMeters = 100.0
	// MaxWatchedAddresses caps one batch status request.
	MaxWatchedAddresses = 100
)

// OutageService resolves addresses against the current outage lines.
type OutageService struct {
	repo             OutageRepository
	defaultThreshold float64
}

// OutageRepository interface for dependency injection
type OutageRepository interface {
	NearestOutageDistances(ctx context.Context, ids []int64) ([]models.OutageDistance, error)
}

// NewOutageService creates a new outage service. A non-positive threshold
// selects DefaultOutageThresholdMeters.
func NewOutageService(repo OutageRepository, defaultThreshold float64) *OutageService {
	if defaultThreshold <= 0 {
		defaultThreshold = DefaultOutageThresholdMeters
	}
	return &OutageService{repo: repo, defaultThreshold: defaultThreshold}
}

// Classify applies the threshold policy to a resolved distance.
func Classify(found bool, distance *float64, thresholdMeters float64) models.OutageClass {
	switch {
	case !found:
		return models.StatusUnknown
	case distance != nil && *distance <= thresholdMeters:
		return models.StatusOutage
	}
	return models.StatusNoOutage
}

// NearestOutageDistance returns the distance in meters from the address to the
// closest outage line. It is nil when there are no outage lines or no such address.
func (s *OutageService) NearestOutageDistance(ctx context.Context, addressID int64) (*float64, error) {
	results, err := s.repo.NearestOutageDistances(ctx, []int64{addressID})
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve outage distance: %w", err)
	}
	for _, r := range results {
		if r.AddressID == addressID {
			return r.Distance, nil
		}
	}
	return nil, nil
}

// Status classifies one address. A zero threshold selects the default.
func (s *OutageService) Status(ctx context.Context, addressID int64, thresholdMeters float64) (models.OutageStatus, error) {
	statuses, err := s.StatusMany(ctx, []int64{addressID}, thresholdMeters)
	if err != nil {
		return models.OutageStatus{}, err
	}
	return statuses[0], nil
}

// StatusMany classifies a watch list in one query. Results follow the order
// of ids; unknown ids are reported with AddressFound false.
func (s *OutageService) StatusMany(ctx context.Context, ids []int64, thresholdMeters float64) ([]models.OutageStatus, error) {
	threshold, err := s.threshold(thresholdMeters)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, invalid("ids", "at least one address id is required")
	}
	if len(ids) > MaxWatchedAddresses {
		return nil, invalid("ids", "at most %d address ids per request", MaxWatchedAddresses)
	}

	results, err := s.repo.NearestOutageDistances(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve outage distances: %w", err)
	}

	byID := make(map[int64]*float64, len(results))
	for _, r := range results {
		byID[r.AddressID] = r.Distance
	}

	statuses := make([]models.OutageStatus, len(ids))
	for i, id := range ids {
		distance, found := byID[id]
		st := models.OutageStatus{
			AddressID:       id,
			AddressFound:    found,
			DistanceMeters:  distance,
			ThresholdMeters: threshold,
			Status:          Classify(found, distance, threshold),
		}
		if distance != nil {
			st.DistanceText = geo.FormatDistance(*distance)
		}
		statuses[i] = st
	}
	return statuses, nil
}

func (s *OutageService) threshold(meters float64) (float64, error) {
	if meters == 0 {
		return s.defaultThreshold, nil
	}
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		return 0, invalid("threshold", "must be a positive number of meters")
	}
	return meters, nil
}
