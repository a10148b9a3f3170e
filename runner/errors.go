package runner

import (
	"errors"
	"fmt"
	"time"
)

// LaunchError indicates the runner process failed to start. Fatal to the
// run; a failed launch is never retried.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("runner launch failed: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsLaunchError checks if the error is or wraps a LaunchError.
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return err != nil && errors.As(err, &launchErr)
}

// ProtocolError indicates the runner published an event outside the
// fixed vocabulary, or events arrived against an inconsistent step
// cursor. Fatal to the run; never silently ignored.
type ProtocolError struct {
	EventName string
	Reason    string
}

func (e *ProtocolError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("protocol violation on event %q: %s", e.EventName, e.Reason)
	}
	return fmt.Sprintf("protocol violation: event %q is not in the channel vocabulary", e.EventName)
}

// IsProtocolError checks if the error is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var protoErr *ProtocolError
	return err != nil && errors.As(err, &protoErr)
}

// TimeoutError indicates the drain loop exceeded its deadline without
// the runner signaling completion. Fatal to the run; the channel is
// still torn down.
type TimeoutError struct {
	Deadline time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("drain loop exceeded deadline of %v", e.Deadline)
}

// IsTimeoutError checks if the error is or wraps a TimeoutError.
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return err != nil && errors.As(err, &timeoutErr)
}
