package model

import (
	"strings"
	"time"
)

// DefaultGroup is the pass folder used when no group is given.
const DefaultGroup = "personal"

// ImportOptions configures a single import run. It is not modified once
// the run has started.
type ImportOptions struct {
	// Force overwrites existing pass entries.
	Force bool

	// Group is the pass folder the accounts are placed in.
	Group string

	// Notes enables the metadata lines after the password.
	Notes bool

	// DryRun reports what would be inserted without running pass.
	DryRun bool
}

// DefaultImportOptions returns the options used when no flag is given.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		Group: DefaultGroup,
		Notes: true,
	}
}

// Destination returns the pass path "<group>/<service>".
// An empty group places the entry at the store root.
func Destination(group, service string) string {
	group = strings.Trim(group, "/")
	if group == "" {
		return service
	}
	return group + "/" + service
}

// Outcome is the result of importing one account.
type Outcome struct {
	Service     string
	Destination string
	Status      OutcomeStatus
	Err         error
}

// OK reports whether the account was imported, or would have been in a dry run.
func (o Outcome) OK() bool {
	return o.Status == StatusImported || o.Status == StatusDryRun
}

// Summary aggregates the outcomes of a run.
type Summary struct {
	Total    int
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Count returns the number of outcomes with the given status.
func (s *Summary) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the outcomes that were not imported.
func (s *Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// HasFailures returns true if any account failed or was skipped.
func (s *Summary) HasFailures() bool {
	return len(s.Failures()) > 0
}
