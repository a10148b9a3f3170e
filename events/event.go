// Package events implements the cross-process event channel between the
// harness and the external runner process. The runner publishes named
// lifecycle events against a per-run HTTP endpoint; the harness drains
// them in FIFO order.
package events

import (
	"encoding/json"
)

// Name identifies a lifecycle event. The vocabulary is a closed set;
// anything outside it is a protocol violation for the consumer.
type Name string

const (
	RunStart    Name = "runStart"    // file, name, count
	RunStop     Name = "runStop"     // exception, duration
	TestSkipped Name = "testSkipped" // name, expression
	TestStart   Name = "testStart"   // name
	TestSuccess Name = "testSuccess" // logDetails, logs, duration, request
	TestFailure Name = "testFailure" // logDetails, logs, duration, request, received
	TestUnknown Name = "testUnknown"
)

var vocabulary = map[Name]struct{}{
	RunStart:    {},
	RunStop:     {},
	TestSkipped: {},
	TestStart:   {},
	TestSuccess: {},
	TestFailure: {},
	TestUnknown: {},
}

// Known reports whether the name belongs to the fixed event vocabulary.
func (n Name) Known() bool {
	_, ok := vocabulary[n]
	return ok
}

// Event is one lifecycle notification published by the runner process.
type Event struct {
	Name   Name           `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// StringParam returns the named parameter as a string, or "" when absent
// or of another type.
func (e Event) StringParam(key string) string {
	if v, ok := e.Params[key].(string); ok {
		return v
	}
	return ""
}

// IntParam returns the named parameter as an int. JSON decoding yields
// float64 for numbers, so both forms are accepted.
func (e Event) IntParam(key string) int {
	switch v := e.Params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}
