package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"outage-api/internal/ingest"
	"outage-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSynchronizer is a mock implementation of the Synchronizer interface
type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) Synchronize(ctx context.Context, table string) (ingest.Result, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(ingest.Result), args.Error(1)
}

// MockPinger is a mock implementation of the Pinger interface
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestSyncHandler_Sync(t *testing.T) {
	tests := []struct {
		name           string
		table          string
		mockResult     ingest.Result
		mockError      error
		expectedStatus int
	}{
		{
			name:           "synchronized",
			table:          repository.TableOutageLines,
			mockResult:     ingest.Result{Table: repository.TableOutageLines, Rows: 9, Skipped: 1},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown table",
			table:          "parcels",
			mockError:      &ingest.IngestError{Table: "parcels", Op: ingest.OpFetch, Err: ingest.ErrUnknownTable},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "upstream failure",
			table:          repository.TableServiceLines,
			mockError:      &ingest.IngestError{Table: repository.TableServiceLines, Op: ingest.OpFetch, Err: errors.New("unexpected status 502")},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "store failure",
			table:          repository.TableAddresses,
			mockError:      &ingest.IngestError{Table: repository.TableAddresses, Op: ingest.OpReplace, Err: assert.AnError},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := new(MockSynchronizer)
			handler := NewSyncHandler(syncer)
			syncer.On("Synchronize", mock.Anything, tt.table).Return(tt.mockResult, tt.mockError)

			c, w := newContext(http.MethodPost, "/admin/sync/"+tt.table, gin.Params{{Key: "table", Value: tt.table}})
			handler.Sync(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var actual ingest.Result
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actual))
				assert.Equal(t, tt.mockResult, actual)
			}
			syncer.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		pingError      error
		expectedStatus int
		expectedBody   string
	}{
		{"database reachable", nil, http.StatusOK, `{"status":"ok"}`},
		{"database down", assert.AnError, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockPinger)
			db.On("Ping", mock.Anything).Return(tt.pingError)

			c, w := newContext(http.MethodGet, "/health", nil)
			NewHealthHandler(db).Health(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
