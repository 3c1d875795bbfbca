package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outage-api/internal/geo"
	"outage-api/internal/models"
	"outage-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSearchService is a mock implementation of the SearchService interface
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, q models.SearchQuery) ([]models.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SearchResult), args.Error(1)
}

// newContext builds a gin test context for method and target.
func newContext(method, target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Params = params
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestSearchHandler_Search(t *testing.T) {
	score := 0.788
	ref := geo.LatLon(39.55, -105.0)
	main := models.Address{ID: 1, AddressLine1: "100 MAIN ST", City: "LITTLETON", Latitude: 39.55, Longitude: -105.0}

	tests := []struct {
		name           string
		target         string
		expectedQuery  *models.SearchQuery
		mockResults    []models.SearchResult
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "text search",
			target:         "/search?q=Main&limit=5&fields=street",
			expectedQuery:  &models.SearchQuery{Term: "Main", Limit: 5, Fields: models.FieldsStreet},
			mockResults:    []models.SearchResult{{Address: main, Score: &score}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "proximity search",
			target:         "/search?lat=39.55&lon=-105.0&radius=500",
			expectedQuery:  &models.SearchQuery{Reference: &ref, RadiusMeters: 500},
			mockResults:    []models.SearchResult{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "latitude without longitude",
			target:         "/search?q=Main&lat=39.55",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid position: lat and lon must be given together",
		},
		{
			name:           "malformed limit",
			target:         "/search?q=Main&limit=ten",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid limit: must be an integer",
		},
		{
			name:           "service rejects query",
			target:         "/search?q=Main&fields=everything",
			expectedQuery:  &models.SearchQuery{Term: "Main", Fields: "everything"},
			mockError:      &service.QueryError{Field: "fields", Reason: `unknown field set "everything"`},
			expectedStatus: http.StatusBadRequest,
			expectedError:  `invalid fields: unknown field set "everything"`,
		},
		{
			name:           "deadline exceeded",
			target:         "/search?q=Main",
			expectedQuery:  &models.SearchQuery{Term: "Main"},
			mockError:      context.DeadlineExceeded,
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "request timed out, try again",
		},
		{
			name:           "service error",
			target:         "/search?q=Main",
			expectedQuery:  &models.SearchQuery{Term: "Main"},
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockSearchService)
			handler := NewSearchHandler(mockSvc)
			if tt.expectedQuery != nil {
				mockSvc.On("Search", mock.Anything, *tt.expectedQuery).Return(tt.mockResults, tt.mockError)
			}

			c, w := newContext(http.MethodGet, tt.target, nil)
			handler.Search(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
			} else {
				var actual []models.SearchResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual))
				assert.Equal(t, tt.mockResults, actual)
			}

			if tt.expectedQuery != nil {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
			}
		})
	}
}
