package store

import (
	"basketminer/ingest"
	"basketminer/pattern"
)

// Run is one persisted mining request. Results holds one entry per engine
// that ran; Differences is set when more than one engine ran.
type Run struct {
	ID          string               `json:"id"`
	CreatedAt   string               `json:"created_at"`
	Dataset     string               `json:"dataset,omitempty"`
	Stats       *ingest.Stats        `json:"stats,omitempty"`
	Results     []pattern.Result     `json:"results"`
	Differences []pattern.Difference `json:"differences,omitempty"`

	// ParentRunID is set when the run re-mined the fp tree of another run.
	ParentRunID string `json:"parent_run_id,omitempty"`
}

// Result returns the run's result for algo.
func (r *Run) Result(algo pattern.Algorithm) (pattern.Result, bool) {
	for _, res := range r.Results {
		if res.Algorithm == algo {
			return res, true
		}
	}
	return pattern.Result{}, false
}
