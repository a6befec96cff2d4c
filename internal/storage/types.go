package storage

import (
	"maps"
	"time"

	"github.com/runnerr0/stringlab/internal/analysis"
)

// Record is an analyzed string held by a Store.
type Record struct {
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
	CreatedAt  time.Time           `json:"created_at"`
}

// newRecord analyzes value and stamps it with createdAt.
func newRecord(value string, createdAt time.Time) Record {
	props := analysis.Analyze(value)
	return Record{
		ID:         props.Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  createdAt.UTC(),
	}
}

// clone returns a copy that shares no mutable state with r.
func (r Record) clone() Record {
	r.Properties.CharacterFrequencyMap = maps.Clone(r.Properties.CharacterFrequencyMap)
	return r
}

// Option configures a Store backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
