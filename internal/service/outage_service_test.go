package service

import (
	"context"
	"math"
	"testing"

	"outage-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOutageRepository is a mock implementation of the OutageRepository interface
type MockOutageRepository struct {
	mock.Mock
}

func (m *MockOutageRepository) NearestOutageDistances(ctx context.Context, ids []int64) ([]models.OutageDistance, error) {
	args := m.Called(ctx, ids)
	results, _ := args.Get(0).([]models.OutageDistance)
	return results, args.Error(1)
}

func meters(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		found    bool
		distance *float64
		expected models.OutageClass
	}{
		{name: "missing address", found: false, distance: nil, expected: models.StatusUnknown},
		{name: "no outage lines", found: true, distance: nil, expected: models.StatusNoOutage},
		{name: "inside threshold", found: true, distance: meters(50), expected: models.StatusOutage},
		{name: "on threshold", found: true, distance: meters(100), expected: models.StatusOutage},
		{name: "beyond threshold", found: true, distance: meters(100.5), expected: models.StatusNoOutage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.found, tt.distance, 100))
		})
	}
}

func TestOutageService_NearestOutageDistance(t *testing.T) {
	tests := []struct {
		name       string
		mockResult []models.OutageDistance
		mockError  error
		expected   *float64
		expectErr  bool
	}{
		{name: "line within 50m", mockResult: []models.OutageDistance{{AddressID: 1, Distance: meters(49.97)}}, expected: meters(49.97)},
		{name: "no outage lines", mockResult: []models.OutageDistance{{AddressID: 1}}, expected: nil},
		{name: "unknown address", mockResult: []models.OutageDistance{}, expected: nil},
		{name: "repository error", mockError: assert.AnError, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOutageRepository)
			mockRepo.On("NearestOutageDistances", mock.Anything, []int64{1}).Return(tt.mockResult, tt.mockError)
			service := NewOutageService(mockRepo, 0)

			d, err := service.NearestOutageDistance(context.Background(), 1)
			if tt.expectErr {
				assert.ErrorIs(t, err, assert.AnError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOutageService_Status(t *testing.T) {
	mockRepo := new(MockOutageRepository)
	mockRepo.On("NearestOutageDistances", mock.Anything, []int64{1}).Return([]models.OutageDistance{{AddressID: 1, Distance: meters(49.97)}}, nil)
	service := NewOutageService(mockRepo, 0)

	status, err := service.Status(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, models.OutageStatus{
		AddressID:       1,
		AddressFound:    true,
		DistanceMeters:  meters(49.97),
		DistanceText:    "50 meters",
		ThresholdMeters: DefaultOutageThresholdMeters,
		Status:          models.StatusOutage,
	}, status)

	status, err = service.Status(context.Background(), 1, 25)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoOutage, status.Status)
	assert.Equal(t, 25.0, status.ThresholdMeters)
}

func TestOutageService_StatusMany(t *testing.T) {
	mockRepo := new(MockOutageRepository)
	mockRepo.On("NearestOutageDistances", mock.Anything, []int64{3, 1, 99}).Return([]models.OutageDistance{
		{AddressID: 1, Distance: meters(20)},
		{AddressID: 3, Distance: meters(5000)},
	}, nil)
	service := NewOutageService(mockRepo, 150)

	statuses, err := service.StatusMany(context.Background(), []int64{3, 1, 99}, 0)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.Equal(t, int64(3), statuses[0].AddressID)
	assert.Equal(t, models.StatusNoOutage, statuses[0].Status)
	assert.Equal(t, "5,000 meters", statuses[0].DistanceText)

	assert.Equal(t, int64(1), statuses[1].AddressID)
	assert.Equal(t, models.StatusOutage, statuses[1].Status)
	assert.Equal(t, 150.0, statuses[1].ThresholdMeters)

	assert.Equal(t, int64(99), statuses[2].AddressID)
	assert.False(t, statuses[2].AddressFound)
	assert.Nil(t, statuses[2].DistanceMeters)
	assert.Equal(t, models.StatusUnknown, statuses[2].Status)
	mockRepo.AssertExpectations(t)
}

func TestOutageService_InvalidInput(t *testing.T) {
	tooMany := make([]int64, MaxWatchedAddresses+1)
	for i := range tooMany {
		tooMany[i] = int64(i)
	}

	tests := []struct {
		name      string
		ids       []int64
		threshold float64
	}{
		{name: "negative threshold", ids: []int64{1}, threshold: -5},
		{name: "not a number threshold", ids: []int64{1}, threshold: math.NaN()},
		{name: "no ids", ids: nil, threshold: 100},
		{name: "too many ids", ids: tooMany, threshold: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOutageRepository)
			service := NewOutageService(mockRepo, 0)

			_, err := service.StatusMany(context.Background(), tt.ids, tt.threshold)
			assert.ErrorIs(t, err, ErrInvalidQuery)
			mockRepo.AssertNotCalled(t, "NearestOutageDistances", mock.Anything, mock.Anything)
		})
	}
}
