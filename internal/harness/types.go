package harness

import (
	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
	"github.com/roach88/updatesynth/internal/store"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Order is the canonical updater order. Empty if naming failed.
	Order []string `json:"order"`

	// Updaters holds the prop then state updater. Nil if synthesis failed.
	Updaters []*compiler.Updater `json:"updaters,omitempty"`

	// Artifacts are the rows recorded for Updaters.
	Artifacts []store.Artifact `json:"artifacts,omitempty"`

	// Err is the synthesis failure, if any. ErrorCode is its E2xx code.
	Err       error  `json:"-"`
	ErrorCode string `json:"error_code,omitempty"`

	// Errors lists failed assertion messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Order:  []string{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Updater returns the synthesized updater for cat, or nil.
func (r *Result) Updater(cat ir.Category) *compiler.Updater {
	for _, u := range r.Updaters {
		if u.Category == cat {
			return u
		}
	}
	return nil
}
