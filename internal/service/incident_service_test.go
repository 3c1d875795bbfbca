package service

import (
	"context"
	"testing"
	"time"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIncidentRepository is a mock implementation of the IncidentRepository interface
type MockIncidentRepository struct {
	mock.Mock
}

func (m *MockIncidentRepository) IncidentsNear(ctx context.Context, center orb.Point, radiusMeters float64, limit int) ([]models.NearbyIncident, error) {
	args := m.Called(ctx, center, radiusMeters, limit)
	results, _ := args.Get(0).([]models.NearbyIncident)
	return results, args.Error(1)
}

func (m *MockIncidentRepository) IncidentSummaryByZip(ctx context.Context, zipcode string) (models.ZipOutageSummary, error) {
	args := m.Called(ctx, zipcode)
	return args.Get(0).(models.ZipOutageSummary), args.Error(1)
}

func TestIncidentService_Nearby(t *testing.T) {
	p := geo.LonLat(-105.0, 39.55)

	t.Run("formats distances", func(t *testing.T) {
		mockRepo := new(MockIncidentRepository)
		mockRepo.On("IncidentsNear", mock.Anything, p, 2000.0, 10).Return([]models.NearbyIncident{
			{OutageIncident: models.OutageIncident{ID: 101, CustomersAffected: 42}, DistanceMeters: 1523.4},
		}, nil)

		service := NewIncidentService(mockRepo, 10)
		incidents, err := service.Nearby(context.Background(), p, 2000)
		require.NoError(t, err)
		require.Len(t, incidents, 1)
		assert.Equal(t, int64(101), incidents[0].ID)
		assert.Equal(t, "1,523 meters", incidents[0].DistanceText)
		mockRepo.AssertExpectations(t)
	})

	tests := []struct {
		name   string
		point  orb.Point
		radius float64
	}{
		{"latitude out of range", geo.LonLat(-105, 91), 100},
		{"zero radius", p, 0},
		{"radius too large", p, MaxNearbyRadiusMeters + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockIncidentRepository)
			service := NewIncidentService(mockRepo, 10)

			_, err := service.Nearby(context.Background(), tt.point, tt.radius)
			assert.ErrorIs(t, err, ErrInvalidQuery)
			mockRepo.AssertNotCalled(t, "IncidentsNear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockIncidentRepository)
		mockRepo.On("IncidentsNear", mock.Anything, p, 100.0, DefaultMaxIncidents).Return(nil, assert.AnError)

		service := NewIncidentService(mockRepo, 0)
		_, err := service.Nearby(context.Background(), p, 100)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestIncidentService_ZipSummary(t *testing.T) {
	start := time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		zip       string
		mockZip   string
		mockValue models.ZipOutageSummary
		mockError error
		expected  models.ZipOutageSummary
		expectErr error
	}{
		{
			name:      "affected zip",
			zip:       " 80120 ",
			mockZip:   "80120",
			mockValue: models.ZipOutageSummary{Incidents: 2, CustomersAffected: 45, EarliestStart: &start},
			expected:  models.ZipOutageSummary{Zipcode: "80120", Incidents: 2, CustomersAffected: 45, EarliestStart: &start, Affected: true},
		},
		{
			name:     "quiet zip",
			zip:      "80202",
			mockZip:  "80202",
			expected: models.ZipOutageSummary{Zipcode: "80202"},
		},
		{
			name:      "blank zip",
			zip:       "  ",
			expectErr: ErrInvalidQuery,
		},
		{
			name:      "repository error",
			zip:       "80120",
			mockZip:   "80120",
			mockError: assert.AnError,
			expectErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockIncidentRepository)
			if tt.mockZip != "" {
				mockRepo.On("IncidentSummaryByZip", mock.Anything, tt.mockZip).Return(tt.mockValue, tt.mockError)
			}
			service := NewIncidentService(mockRepo, 10)

			summary, err := service.ZipSummary(context.Background(), tt.zip)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
			mockRepo.AssertExpectations(t)
		})
	}
}
