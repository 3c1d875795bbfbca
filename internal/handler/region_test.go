package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"outage-api/internal/geo"
	"outage-api/internal/models"
	"outage-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRegionService is a mock implementation of the RegionService interface
type MockRegionService struct {
	mock.Mock
}

func (m *MockRegionService) MapAddresses(ctx context.Context, b geo.Bounds, zoom int) (models.AddressMap, error) {
	args := m.Called(ctx, b, zoom)
	return args.Get(0).(models.AddressMap), args.Error(1)
}

func (m *MockRegionService) ClustersInBounds(ctx context.Context, b geo.Bounds) ([]models.AddressCluster, error) {
	args := m.Called(ctx, b)
	return args.Get(0).([]models.AddressCluster), args.Error(1)
}

func (m *MockRegionService) LinesInBounds(ctx context.Context, kind models.LineKind, b geo.Bounds) ([]models.LineString, error) {
	args := m.Called(ctx, kind, b)
	return args.Get(0).([]models.LineString), args.Error(1)
}

func (m *MockRegionService) NearbyLines(ctx context.Context, kind models.LineKind, p orb.Point, radiusMeters float64) ([]models.NearbyLine, error) {
	args := m.Called(ctx, kind, p, radiusMeters)
	return args.Get(0).([]models.NearbyLine), args.Error(1)
}

const viewport = "sw_lat=39.5&sw_lon=-105.1&ne_lat=39.6&ne_lon=-104.9"

var viewportBounds = geo.NewBounds(geo.LatLon(39.5, -105.1), geo.LatLon(39.6, -104.9))

func TestRegionHandler_MapAddresses(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		zoom           int
		mockResult     models.AddressMap
		mockError      error
		callsService   bool
		expectedStatus int
	}{
		{
			name:           "clustered without zoom",
			target:         "/map/addresses?" + viewport,
			zoom:           0,
			mockResult:     models.AddressMap{Clustered: true, Clusters: []models.AddressCluster{{Latitude: 39.55, Longitude: -105.0, Count: 3}}},
			callsService:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "addresses at street zoom",
			target:         "/map/addresses?" + viewport + "&zoom=17",
			zoom:           17,
			mockResult:     models.AddressMap{Addresses: []models.Address{{ID: 1, AddressLine1: "100 MAIN ST", Latitude: 39.55, Longitude: -105.0}}},
			callsService:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "antimeridian viewport",
			target:         "/map/addresses?" + viewport + "&zoom=3",
			zoom:           3,
			mockError:      &service.QueryError{Field: "bounds", Reason: "viewports crossing the antimeridian are not supported"},
			callsService:   true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing corner",
			target:         "/map/addresses?sw_lat=39.5&sw_lon=-105.1&ne_lat=39.6",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockRegionService)
			handler := NewRegionHandler(mockSvc)
			if tt.callsService {
				mockSvc.On("MapAddresses", mock.Anything, viewportBounds, tt.zoom).Return(tt.mockResult, tt.mockError)
			}

			c, w := newContext(http.MethodGet, tt.target, nil)
			handler.MapAddresses(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var actual models.AddressMap
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual))
				assert.Equal(t, tt.mockResult, actual)
			}
			if tt.callsService {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "MapAddresses", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRegionHandler_Clusters(t *testing.T) {
	mockSvc := new(MockRegionService)
	handler := NewRegionHandler(mockSvc)
	clusters := []models.AddressCluster{{Latitude: 39.55, Longitude: -105.0, Count: 3}}
	mockSvc.On("ClustersInBounds", mock.Anything, viewportBounds).Return(clusters, nil)

	c, w := newContext(http.MethodGet, "/map/clusters?"+viewport, nil)
	handler.Clusters(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var actual []models.AddressCluster
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual))
	assert.Equal(t, clusters, actual)
}

func TestRegionHandler_Lines(t *testing.T) {
	mockSvc := new(MockRegionService)
	handler := NewRegionHandler(mockSvc)
	lines := []models.LineString{
		{ID: "circuit-7", Coordinates: orb.LineString{{-105.0, 39.55}, {-104.99, 39.56}}},
		{Coordinates: orb.LineString{{-105.05, 39.52}, {-105.04, 39.53}}},
	}
	mockSvc.On("LinesInBounds", mock.Anything, models.LineKindOutage, viewportBounds).Return(lines, nil)

	c, w := newContext(http.MethodGet, "/map/lines/outage?"+viewport, gin.Params{{Key: "kind", Value: "outage"}})
	handler.Lines(c)

	require.Equal(t, http.StatusOK, w.Code)
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	assert.Equal(t, "circuit-7", fc.Features[0].ID)
	assert.Equal(t, "outage", fc.Features[0].Properties["kind"])
	assert.Equal(t, lines[0].Coordinates, fc.Features[0].Geometry)
	assert.Nil(t, fc.Features[1].ID)
	mockSvc.AssertExpectations(t)
}

func TestRegionHandler_LinesUnknownKind(t *testing.T) {
	mockSvc := new(MockRegionService)
	handler := NewRegionHandler(mockSvc)

	c, w := newContext(http.MethodGet, "/map/lines/water?"+viewport, gin.Params{{Key: "kind", Value: "water"}})
	handler.Lines(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid kind: must be service or outage", decodeError(t, w))
	mockSvc.AssertNotCalled(t, "LinesInBounds", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegionHandler_NearbyLines(t *testing.T) {
	p := geo.LatLon(39.55, -105.0)
	nearby := []models.NearbyLine{
		{Line: models.LineString{ID: "a", Coordinates: orb.LineString{{-105.0, 39.5505}, {-104.99, 39.5505}}}, DistanceMeters: 55.6},
	}

	tests := []struct {
		name           string
		target         string
		callsService   bool
		mockError      error
		expectedStatus int
	}{
		{name: "nearby service lines", target: "/lines/service/nearby?lat=39.55&lon=-105.0&radius=200", callsService: true, expectedStatus: http.StatusOK},
		{name: "missing radius", target: "/lines/service/nearby?lat=39.55&lon=-105.0", expectedStatus: http.StatusBadRequest},
		{name: "missing position", target: "/lines/service/nearby?radius=200", expectedStatus: http.StatusBadRequest},
		{name: "service error", target: "/lines/service/nearby?lat=39.55&lon=-105.0&radius=200", callsService: true, mockError: assert.AnError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockRegionService)
			handler := NewRegionHandler(mockSvc)
			if tt.callsService {
				mockSvc.On("NearbyLines", mock.Anything, models.LineKindService, p, 200.0).Return(nearby, tt.mockError)
			}

			c, w := newContext(http.MethodGet, tt.target, gin.Params{{Key: "kind", Value: "service"}})
			handler.NearbyLines(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var actual []models.NearbyLine
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual))
				assert.Equal(t, nearby, actual)
			}
			if !tt.callsService {
				mockSvc.AssertNotCalled(t, "NearbyLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
