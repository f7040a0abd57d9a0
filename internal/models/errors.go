package models

import "errors"

var (
	// ErrSessionNotStarted means a collection method was called with no
	// active intake session. The caller must restart the flow.
	ErrSessionNotStarted = errors.New("intake session not started")

	// ErrNoPatientData means triage or plan generation was attempted
	// before any session was started.
	ErrNoPatientData = errors.New("no patient information available")
)
