package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"outage-api/internal/geo"
	"outage-api/internal/models"
)

// incidentFeed is the wire shape of the customer outage feed.
type incidentFeed struct {
	OutageData struct {
		Outages []feedIncident `json:"outages"`
	} `json:"outageData"`
}

type feedIncident struct {
	ID                *int64   `json:"id"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	CustomersAffected int      `json:"customersAffected"`
	OutageCause       string   `json:"outageCause"`
	OutageStart       string   `json:"outageStart"`
	County            string   `json:"county"`
	Zip               string   `json:"zip"`
}

// Layouts accepted for outageStart. Times without a zone are UTC.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid outage start %q", s)
}

func (f feedIncident) incident() (models.OutageIncident, error) {
	if f.ID == nil {
		return models.OutageIncident{}, errors.New("missing id")
	}
	if f.Latitude == nil || f.Longitude == nil {
		return models.OutageIncident{}, errors.New("missing location")
	}
	p := geo.LatLon(*f.Latitude, *f.Longitude)
	if !geo.ValidPoint(p) {
		return models.OutageIncident{}, fmt.Errorf("location %v out of range", p)
	}
	if f.CustomersAffected < 0 {
		return models.OutageIncident{}, fmt.Errorf("negative customers affected %d", f.CustomersAffected)
	}
	start, err := parseStart(f.OutageStart)
	if err != nil {
		return models.OutageIncident{}, err
	}

	return models.OutageIncident{
		ID:                *f.ID,
		CustomersAffected: f.CustomersAffected,
		Cause:             strings.TrimSpace(f.OutageCause),
		Start:             start,
		County:            models.NormalizeText(f.County),
		Zipcode:           models.NormalizeText(f.Zip),
		Latitude:          p.Lat(),
		Longitude:         p.Lon(),
	}, nil
}

// ParseIncidentFeed decodes the customer outage feed. Incidents without an
// id, a valid location or a parseable start time are skipped and reported.
func ParseIncidentFeed(r io.Reader) (incidents []models.OutageIncident, skipped []*RecordError, err error) {
	var feed incidentFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, nil, fmt.Errorf("decode incident feed: %w", err)
	}

	outages := feed.OutageData.Outages
	incidents = make([]models.OutageIncident, 0, len(outages))
	for i, f := range outages {
		inc, err := f.incident()
		if err != nil {
			id := ""
			if f.ID != nil {
				id = fmt.Sprint(*f.ID)
			}
			skipped = append(skipped, &RecordError{Index: i, ID: id, Err: err})
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents, skipped, nil
}
