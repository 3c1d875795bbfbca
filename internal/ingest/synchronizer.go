package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"outage-api/internal/metrics"
	"outage-api/internal/models"
	"outage-api/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Store is the part of the repository a synchronization writes to.
type Store interface {
	ReplaceAddresses(ctx context.Context, addresses []models.Address) (int64, error)
	ReplaceLines(ctx context.Context, kind models.LineKind, lines []models.LineString) (int64, error)
	ReplaceIncidents(ctx context.Context, incidents []models.OutageIncident) (int64, error)
	RowCount(ctx context.Context, table string) (int64, error)
}

// Result summarizes one table synchronization.
type Result struct {
	Table       string        `json:"table"`
	Rows        int64         `json:"rows"`
	Skipped     int           `json:"skipped"`
	NotModified bool          `json:"not_modified"`
	Duration    time.Duration `json:"duration_ns"`
}

// Synchronizer refreshes store tables from their sources.
type Synchronizer struct {
	store   Store
	fetcher *Fetcher
	state   FeedState
	sources map[string]string

	group singleflight.Group
}

// NewSynchronizer creates a synchronizer for the tables in sources (table
// name to URL or path). Tables with an empty source are left out.
func NewSynchronizer(store Store, fetcher *Fetcher, state FeedState, sources map[string]string) *Synchronizer {
	configured := make(map[string]string, len(sources))
	for table, src := range sources {
		if src != "" {
			configured[table] = src
		}
	}
	if state == nil {
		state = NewMemoryFeedState()
	}
	return &Synchronizer{store: store, fetcher: fetcher, state: state, sources: configured}
}

// Tables returns the configured tables in name order.
func (s *Synchronizer) Tables() []string {
	tables := make([]string, 0, len(s.sources))
	for t := range s.sources {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Synchronize fetches, decodes and atomically replaces one table. Concurrent
// calls for the same table share one run. Any failure is an *IngestError and
// leaves the current table in place.
func (s *Synchronizer) Synchronize(ctx context.Context, table string) (Result, error) {
	v, err, _ := s.group.Do(table, func() (any, error) {
		return s.synchronize(ctx, table)
	})
	return v.(Result), err
}

// SynchronizeAll synchronizes every configured table concurrently. One
// table failing does not stop the others; the errors are joined.
func (s *Synchronizer) SynchronizeAll(ctx context.Context) ([]Result, error) {
	tables := s.Tables()
	results := make([]Result, len(tables))
	errs := make([]error, len(tables))

	var g errgroup.Group
	for i, table := range tables {
		g.Go(func() error {
			results[i], errs[i] = s.Synchronize(ctx, table)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (s *Synchronizer) synchronize(ctx context.Context, table string) (Result, error) {
	start := time.Now()
	res := Result{Table: table}

	source, ok := s.sources[table]
	if !ok {
		return res, &IngestError{Table: table, Op: OpFetch, Err: ErrUnknownTable}
	}
	logger := log.With().Str("table", table).Logger()

	etag := s.conditionalETag(ctx, table)

	fetched, err := s.fetcher.Fetch(ctx, source, etag)
	if err != nil {
		return s.fail(res, start, &IngestError{Table: table, Op: OpFetch, Err: err})
	}
	if fetched.NotModified {
		res.NotModified = true
		res.Duration = time.Since(start)
		metrics.SyncRunsTotal.WithLabelValues(table, "not_modified").Inc()
		logger.Debug().Msg("source not modified")
		return res, nil
	}

	var skipped []*RecordError
	switch table {
	case repository.TableAddresses:
		var addresses []models.Address
		addresses, skipped, err = ParseAddresses(fetched.Body)
		if err == nil && len(addresses) == 0 && len(bytes.TrimSpace(fetched.Body)) > 0 {
			err = fmt.Errorf("no valid addresses in %d skipped records", len(skipped))
		}
		if err != nil {
			return s.fail(res, start, &IngestError{Table: table, Op: OpParse, Err: err})
		}
		res.Rows, err = s.store.ReplaceAddresses(ctx, addresses)

	case repository.TableServiceLines, repository.TableOutageLines:
		kind := models.LineKindService
		if table == repository.TableOutageLines {
			kind = models.LineKindOutage
		}
		var lines []models.LineString
		lines, skipped, err = ParseLineFeed(bytes.NewReader(fetched.Body))
		if err != nil {
			return s.fail(res, start, &IngestError{Table: table, Op: OpParse, Err: err})
		}
		res.Rows, err = s.store.ReplaceLines(ctx, kind, lines)

	case repository.TableIncidents:
		var incidents []models.OutageIncident
		incidents, skipped, err = ParseIncidentFeed(bytes.NewReader(fetched.Body))
		if err != nil {
			return s.fail(res, start, &IngestError{Table: table, Op: OpParse, Err: err})
		}
		res.Rows, err = s.store.ReplaceIncidents(ctx, incidents)

	default:
		return s.fail(res, start, &IngestError{Table: table, Op: OpFetch, Err: ErrUnknownTable})
	}

	res.Skipped = len(skipped)
	for _, rec := range skipped {
		logger.Warn().Int("index", rec.Index).Str("record_id", rec.ID).Err(rec.Err).Msg("skipped malformed record")
	}
	metrics.DecodeFailuresTotal.WithLabelValues(table).Add(float64(len(skipped)))

	if err != nil {
		return s.fail(res, start, &IngestError{Table: table, Op: OpReplace, Err: err})
	}

	if err := s.state.SetETag(ctx, table, fetched.ETag); err != nil {
		logger.Warn().Err(&IngestError{Table: table, Op: OpState, Err: err}).Msg("failed to store etag")
	}

	res.Duration = time.Since(start)
	metrics.SyncRunsTotal.WithLabelValues(table, "ok").Inc()
	metrics.SyncDurationMs.WithLabelValues(table).Observe(float64(res.Duration.Milliseconds()))
	metrics.SyncRows.WithLabelValues(table).Set(float64(res.Rows))
	metrics.LastSyncTimestamp.WithLabelValues(table).SetToCurrentTime()

	logger.Info().
		Int64("rows", res.Rows).
		Int("skipped", res.Skipped).
		Dur("duration", res.Duration).
		Msg("table synchronized")
	return res, nil
}

// conditionalETag returns the ETag to revalidate the source with. The stored
// ETag is only trusted while the table still holds rows, since the state
// store and the database can be reset independently.
func (s *Synchronizer) conditionalETag(ctx context.Context, table string) string {
	logger := log.With().Str("table", table).Logger()

	etag, err := s.state.ETag(ctx, table)
	if err != nil {
		logger.Warn().Err(err).Msg("feed state unavailable, fetching unconditionally")
		return ""
	}
	if etag == "" {
		return ""
	}

	rows, err := s.store.RowCount(ctx, table)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to count rows, fetching unconditionally")
		return ""
	}
	if rows == 0 {
		logger.Info().Msg("table is empty, ignoring stored etag")
		return ""
	}
	return etag
}

func (s *Synchronizer) fail(res Result, start time.Time, err *IngestError) (Result, error) {
	res.Duration = time.Since(start)
	metrics.SyncRunsTotal.WithLabelValues(res.Table, "error").Inc()
	metrics.SyncDurationMs.WithLabelValues(res.Table).Observe(float64(res.Duration.Milliseconds()))
	return res, err
}
