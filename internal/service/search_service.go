package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"outage-api/internal/geo"
	"outage-api/internal/metrics"
	"outage-api/internal/models"

	"github.com/paulmach/orb"
)

// DefaultSearchResults is the result cap when none is configured.
const DefaultSearchResults = 25

// SearchService ranks addresses by text similarity and distance.
type SearchService struct {
	repo       SearchRepository
	maxResults int
}

// SearchRepository interface for dependency injection
type SearchRepository interface {
	ScanAddresses(ctx context.Context, center orb.Point, radiusMeters float64, fn func(models.Address) error) error
	NearestAddresses(ctx context.Context, center orb.Point, radiusMeters float64, limit int) ([]models.Address, error)
}

// NewSearchService creates a new search service. maxResults <= 0 selects DefaultSearchResults.
func NewSearchService(repo SearchRepository, maxResults int) *SearchService {
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	return &SearchService{repo: repo, maxResults: maxResults}
}

// Search runs a text search when the term is non-empty and a proximity search
// when only a reference point is given. With neither it returns an empty list.
func (s *SearchService) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	limit, err := s.validate(q)
	if err != nil {
		return nil, err
	}

	term := NormalizeTerm(q.Term)
	switch {
	case term != "":
		return s.searchText(ctx, term, q, limit)
	case q.Reference != nil:
		return s.searchNearby(ctx, *q.Reference, q.RadiusMeters, limit)
	}
	return []models.SearchResult{}, nil
}

func (s *SearchService) validate(q models.SearchQuery) (int, error) {
	if q.Limit < 0 {
		return 0, invalid("limit", "must not be negative")
	}
	limit := q.Limit
	if limit == 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	if q.Reference != nil && !geo.ValidPoint(*q.Reference) {
		return 0, invalid("reference", "coordinates %v out of range", *q.Reference)
	}
	if math.IsNaN(q.RadiusMeters) || math.IsInf(q.RadiusMeters, 0) || q.RadiusMeters < 0 {
		return 0, invalid("radius", "must be a non-negative number of meters")
	}
	if q.RadiusMeters > 0 && q.Reference == nil {
		return 0, invalid("radius", "requires a reference point")
	}

	switch q.Fields {
	case "", models.FieldsStreet, models.FieldsFull:
	default:
		return 0, invalid("fields", "unknown field set %q", q.Fields)
	}
	return limit, nil
}

func (s *SearchService) searchText(ctx context.Context, term string, q models.SearchQuery, limit int) ([]models.SearchResult, error) {
	fields := q.Fields
	if fields == "" {
		fields = models.FieldsStreet
	}

	var center orb.Point
	if q.Reference != nil {
		center = *q.Reference
	}

	ranker := NewRanker(limit, q.Reference != nil)
	scanned := 0
	err := s.repo.ScanAddresses(ctx, center, q.RadiusMeters, func(a models.Address) error {
		scanned++
		score := Similarity(term, candidateText(a, fields))
		if score == 0 {
			return nil
		}
		var distance float64
		if q.Reference != nil {
			distance = geo.Distance(center, a.Point())
		}
		ranker.Offer(a, score, distance)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to scan addresses: %w", err)
	}

	metrics.SearchCandidates.Observe(float64(scanned))
	return ranker.Results(), nil
}

func (s *SearchService) searchNearby(ctx context.Context, center orb.Point, radius float64, limit int) ([]models.SearchResult, error) {
	addresses, err := s.repo.NearestAddresses(ctx, center, radius, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearby addresses: %w", err)
	}

	results := make([]models.SearchResult, len(addresses))
	for i, a := range addresses {
		d := geo.Distance(center, a.Point())
		results[i] = models.SearchResult{Address: a, DistanceMeters: &d}
	}
	sort.SliceStable(results, func(i, j int) bool {
		di, dj := *results[i].DistanceMeters, *results[j].DistanceMeters
		if di != dj {
			return di < dj
		}
		return results[i].Address.ID < results[j].Address.ID
	})

	metrics.SearchCandidates.Observe(float64(len(addresses)))
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
