package odoosentry

import (
	"os"
)

const (
	// StageEnvVar selects the deployment stage used to namespace config
	// keys (Odoo.sh sets it to "production" or "staging").
	StageEnvVar = "ODOO_STAGE"

	configPrefix = "sentry_"
	noStage      = "nostage"
)

// Source is the host's configuration store. Lookups return the raw string
// value and whether the key was present at all.
type Source interface {
	Get(key string) (string, bool)
}

// MapSource adapts a plain map to a Source, mostly for tests and small hosts.
type MapSource map[string]string

func (m MapSource) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Resolver looks up sentry configuration keys in a Source, preferring
// stage-qualified keys over plain ones.
type Resolver struct {
	source Source
	stage  string
}

// NewResolver builds a Resolver for source, reading the stage from the
// ODOO_STAGE environment variable.
func NewResolver(source Source) *Resolver {
	stage := os.Getenv(StageEnvVar)
	if stage == "" {
		stage = noStage
	}
	return &Resolver{source: source, stage: stage}
}

// Get resolves key as sentry_<stage>_<key>, falling back to sentry_<key>,
// falling back to def. It never fails.
func (r *Resolver) Get(key, def string) string {
	if v, ok := r.source.Get(configPrefix + r.stage + "_" + key); ok {
		return v
	}
	if v, ok := r.source.Get(configPrefix + key); ok {
		return v
	}
	return def
}

// Has reports whether key is set, staged or not, ignoring its value.
func (r *Resolver) Has(key string) bool {
	if _, ok := r.source.Get(configPrefix + r.stage + "_" + key); ok {
		return true
	}
	_, ok := r.source.Get(configPrefix + key)
	return ok
}
