// File: signage/models/screen.go
package models

import "time"

// Screen is a registered display client. The token→id mapping is
// immutable once created; the record itself is mutable only through
// explicit updates (name, groups, heartbeat).
type Screen struct {
	ID            string    `json:"id"`
	Token         string    `json:"-"`
	Name          string    `json:"name"`
	Groups        []string  `json:"groups"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
}

// ScreenStatus is the dashboard projection of a screen.
type ScreenStatus struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LastHeartbeat string `json:"lastHeartbeat"`
	Critical      bool   `json:"critical"`
}

// FleetCounts summarizes the whole fleet.
type FleetCounts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
}

// FleetView aggregates screen status per tenant (API key id) into
// "all" and "critical" buckets. Bucket element order reflects the
// completion order of concurrent loads; callers must not assume
// determinism.
type FleetView struct {
	All      map[string][]ScreenStatus `json:"all"`
	Critical map[string][]ScreenStatus `json:"critical"`
	Counts   FleetCounts               `json:"counts"`
}
