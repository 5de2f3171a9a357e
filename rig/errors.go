package rig

import "fmt"

// Error is the structured error type returned by chain validation and
// admission. It names the stage at which the failure occurred, the
// offending field, and a human-readable reason, mirroring
// src_v2/contracts.py's prefixed exception hierarchy but collapsed
// into one concrete type since Go favors error values over a class
// tree.
type Error struct {
	// Stage is "chain", "commit", or "admission".
	Stage string
	// Field is the BuilderConfig field or chain call implicated, if
	// any ("" when the error is not field-specific).
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("rig: %s: %s", e.Stage, e.Reason)
	}
	return fmt.Sprintf("rig: %s: %s: %s", e.Stage, e.Field, e.Reason)
}

func newChainErr(field, reason string) *Error {
	return &Error{Stage: "chain", Field: field, Reason: reason}
}

func newCommitErr(field, reason string) *Error {
	return &Error{Stage: "commit", Field: field, Reason: reason}
}

func newAdmissionErr(reason string) *Error {
	return &Error{Stage: "admission", Reason: reason}
}
