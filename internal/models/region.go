package models

// AddressMap is the map view of a viewport: clusters at low zoom,
// individual addresses otherwise.
type AddressMap struct {
	Clustered bool             `json:"clustered"`
	Addresses []Address        `json:"addresses,omitempty"`
	Clusters  []AddressCluster `json:"clusters,omitempty"`
}
