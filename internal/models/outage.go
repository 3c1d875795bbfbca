package models

// OutageClass is the classification of an address against the outage lines.
type OutageClass string

const (
	StatusOutage   OutageClass = "outage"
	StatusNoOutage OutageClass = "no_outage"
	StatusUnknown  OutageClass = "unknown"
)

// OutageStatus reports how far an address is from the nearest outage line.
type OutageStatus struct {
	AddressID       int64       `json:"address_id"`
	AddressFound    bool        `json:"address_found"`
	DistanceMeters  *float64    `json:"distance_meters"`
	DistanceText    string      `json:"distance_text,omitempty"`
	ThresholdMeters float64     `json:"threshold_meters"`
	Status          OutageClass `json:"status"`
}

// OutageDistance is the raw per-address result of the nearest-outage query.
// Distance is nil when there are no outage lines.
type OutageDistance struct {
	AddressID int64
	Distance  *float64
}
