package models

// APIKey is a tenant credential owning a set of screens. API keys are
// managed externally; this service only reads them for fleet scoping.
// The owned screen ids live in the registry as a per-key set.
type APIKey struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
