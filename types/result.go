package types

import (
	"fmt"
	"strings"
	"time"
)

// CaseStatus represents the harness-visible outcome of a case run.
type CaseStatus string

const (
	CaseStatusPass CaseStatus = "pass"
	CaseStatusFail CaseStatus = "fail"
	CaseStatusSkip CaseStatus = "skip"
)

// CaseResult captures the outcome of one test case execution.
type CaseResult struct {
	Case     *CaseType
	Status   CaseStatus
	Error    error
	Duration time.Duration
	Steps    []*Step

	// Exception is the terminal run-level exception reported by the
	// runner in its runStop event, empty on a clean run.
	Exception string

	// RunnerDuration is the execution time the runner itself reported in
	// runStop, distinct from the wall-clock Duration above.
	RunnerDuration time.Duration

	// Failures and Skips count the testFailure and testSkipped events
	// the runner published during the run.
	Failures int
	Skips    int

	// UnknownEvents counts testUnknown bookkeeping signals; they carry
	// no step transition.
	UnknownEvents int

	TimedOut bool
}

// SuiteResult aggregates the case results of one suite.
type SuiteResult struct {
	Name     string
	Version  string
	Cases    []*CaseResult
	Stats    RunStats
	Duration time.Duration
	Status   CaseStatus
}

// RunStats tracks aggregate pass/fail/skip counts.
type RunStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// RunResult is the aggregate outcome of a full harness run.
type RunResult struct {
	RunID    string
	Suites   []*SuiteResult
	Stats    RunStats
	Duration time.Duration
	Status   CaseStatus
}

// AddCase folds one case result into the suite aggregates.
func (s *SuiteResult) AddCase(r *CaseResult) {
	s.Cases = append(s.Cases, r)
	s.Duration += r.Duration
	s.Stats.Total++
	switch r.Status {
	case CaseStatusPass:
		s.Stats.Passed++
	case CaseStatusSkip:
		s.Stats.Skipped++
	default:
		s.Stats.Failed++
	}
	s.Status = s.Stats.Status()
}

// AddSuite folds one suite result into the run aggregates.
func (r *RunResult) AddSuite(s *SuiteResult) {
	r.Suites = append(r.Suites, s)
	r.Duration += s.Duration
	r.Stats.Total += s.Stats.Total
	r.Stats.Passed += s.Stats.Passed
	r.Stats.Failed += s.Stats.Failed
	r.Stats.Skipped += s.Stats.Skipped
	r.Status = r.Stats.Status()
}

// Status derives the aggregate status: any failure fails the whole set,
// an all-skip set is a skip, anything else passes.
func (st RunStats) Status() CaseStatus {
	switch {
	case st.Failed > 0:
		return CaseStatusFail
	case st.Total > 0 && st.Skipped == st.Total:
		return CaseStatusSkip
	default:
		return CaseStatusPass
	}
}

// String renders a short human-readable run summary.
func (r *RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %s (%d total, %d passed, %d failed, %d skipped) in %.1fs",
		r.RunID, r.Status, r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped, r.Duration.Seconds())
	for _, suite := range r.Suites {
		fmt.Fprintf(&b, "\n  suite %s (%s): %s", suite.Name, suite.Version, suite.Status)
		for _, c := range suite.Cases {
			fmt.Fprintf(&b, "\n    %s: %s", c.Case.Identifier, c.Status)
			if c.Error != nil {
				fmt.Fprintf(&b, " (%v)", c.Error)
			}
		}
	}
	return b.String()
}
