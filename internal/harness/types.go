package harness

import "github.com/roach88/hlsdecl/internal/manifest"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: the build behaved as expected and
	// every assertion held.
	Pass bool `json:"pass"`

	// Manifest is the built manifest. Nil when the build failed.
	Manifest *manifest.Manifest `json:"manifest,omitempty"`

	// ErrorCode is the code of the build error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
