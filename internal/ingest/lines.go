package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"outage-api/internal/geo"
	"outage-api/internal/models"
)

// lineFeed is the wire shape of a service or outage line feed.
type lineFeed struct {
	Lines []feedLine `json:"lines"`
}

type feedLine struct {
	Geometry string          `json:"g"`
	ID       json.RawMessage `json:"f,omitempty"`
}

// id accepts the feed id as a JSON string or number.
func (l feedLine) id() string {
	raw := bytes.TrimSpace(l.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ParseLineFeed decodes a line feed. A line whose polyline is malformed or
// has fewer than two vertices is skipped and reported in skipped; only an
// unreadable document fails the whole feed.
func ParseLineFeed(r io.Reader) (lines []models.LineString, skipped []*RecordError, err error) {
	var feed lineFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, nil, fmt.Errorf("decode line feed: %w", err)
	}

	lines = make([]models.LineString, 0, len(feed.Lines))
	for i, l := range feed.Lines {
		id := l.id()
		coords, err := geo.DecodeLine(strings.TrimSpace(l.Geometry))
		if err != nil {
			skipped = append(skipped, &RecordError{Index: i, ID: id, Err: err})
			continue
		}
		lines = append(lines, models.LineString{ID: id, Coordinates: coords})
	}
	return lines, skipped, nil
}
