package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/paulmach/orb"
)

const (
	DefaultRegionResults      = 5000
	DefaultClusterCellDegrees = 0.01
	DefaultClusterMaxZoom     = 15
	// MaxNearbyRadiusMeters bounds the nearby-lines search.
	MaxNearbyRadiusMeters = 50000
)

// RegionConfig tunes the viewport queries. Zero fields take their defaults.
type RegionConfig struct {
	MaxResults         int
	ClusterCellDegrees float64
	ClusterMaxZoom     int
}

// RegionService answers viewport and neighborhood queries for the map.
type RegionService struct {
	repo RegionRepository
	cfg  RegionConfig
}

// RegionRepository interface for dependency injection
type RegionRepository interface {
	AddressesInBounds(ctx context.Context, b geo.Bounds, limit int) ([]models.Address, error)
	ClustersInBounds(ctx context.Context, b geo.Bounds, cellDegrees float64, limit int) ([]models.AddressCluster, error)
	LinesInBounds(ctx context.Context, kind models.LineKind, b geo.Bounds, limit int) ([]models.LineString, error)
	LinesNear(ctx context.Context, kind models.LineKind, center orb.Point, radiusMeters float64, limit int) ([]models.LineString, error)
}

// NewRegionService creates a new region service
func NewRegionService(repo RegionRepository, cfg RegionConfig) *RegionService {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultRegionResults
	}
	if cfg.ClusterCellDegrees <= 0 {
		cfg.ClusterCellDegrees = DefaultClusterCellDegrees
	}
	if cfg.ClusterMaxZoom <= 0 {
		cfg.ClusterMaxZoom = DefaultClusterMaxZoom
	}
	return &RegionService{repo: repo, cfg: cfg}
}

func validateBounds(b geo.Bounds) error {
	if err := b.Validate(); err != nil {
		if errors.Is(err, geo.ErrAntimeridian) {
			return invalid("bounds", "viewports crossing the antimeridian are not supported")
		}
		return invalid("bounds", "%v", err)
	}
	return nil
}

// AddressesInBounds returns the addresses inside b, at most MaxResults of them.
func (s *RegionService) AddressesInBounds(ctx context.Context, b geo.Bounds) ([]models.Address, error) {
	if err := validateBounds(b); err != nil {
		return nil, err
	}

	addresses, err := s.repo.AddressesInBounds(ctx, b, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service: failed to query addresses in bounds: %w", err)
	}
	return addresses, nil
}

// ClustersInBounds returns grid-snapped address clusters inside b, largest first.
func (s *RegionService) ClustersInBounds(ctx context.Context, b geo.Bounds) ([]models.AddressCluster, error) {
	if err := validateBounds(b); err != nil {
		return nil, err
	}

	clusters, err := s.repo.ClustersInBounds(ctx, b, s.cfg.ClusterCellDegrees, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service: failed to query clusters: %w", err)
	}
	return clusters, nil
}

// MapAddresses clusters below ClusterMaxZoom and lists addresses at or above it.
func (s *RegionService) MapAddresses(ctx context.Context, b geo.Bounds, zoom int) (models.AddressMap, error) {
	if zoom < 0 {
		return models.AddressMap{}, invalid("zoom", "must not be negative")
	}

	if zoom < s.cfg.ClusterMaxZoom {
		clusters, err := s.ClustersInBounds(ctx, b)
		if err != nil {
			return models.AddressMap{}, err
		}
		return models.AddressMap{Clustered: true, Clusters: clusters}, nil
	}

	addresses, err := s.AddressesInBounds(ctx, b)
	if err != nil {
		return models.AddressMap{}, err
	}
	return models.AddressMap{Addresses: addresses}, nil
}

// LinesInBounds returns lines of the given kind intersecting b.
func (s *RegionService) LinesInBounds(ctx context.Context, kind models.LineKind, b geo.Bounds) ([]models.LineString, error) {
	if err := validateBounds(b); err != nil {
		return nil, err
	}

	lines, err := s.repo.LinesInBounds(ctx, kind, b, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service: failed to query %s lines in bounds: %w", kind, err)
	}
	return lines, nil
}

// NearbyLines returns lines of the given kind within radiusMeters of p,
// nearest first, with their point-to-line distance.
func (s *RegionService) NearbyLines(ctx context.Context, kind models.LineKind, p orb.Point, radiusMeters float64) ([]models.NearbyLine, error) {
	if !geo.ValidPoint(p) {
		return nil, invalid("position", "coordinates %v out of range", p)
	}
	if math.IsNaN(radiusMeters) || radiusMeters <= 0 || radiusMeters > MaxNearbyRadiusMeters {
		return nil, invalid("radius", "must be in (0, %d] meters", MaxNearbyRadiusMeters)
	}

	lines, err := s.repo.LinesNear(ctx, kind, p, radiusMeters, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service: failed to query nearby %s lines: %w", kind, err)
	}

	nearby := make([]models.NearbyLine, len(lines))
	for i, l := range lines {
		nearby[i] = models.NearbyLine{Line: l, DistanceMeters: geo.PointToLine(p, l.Coordinates)}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	return nearby, nil
}
