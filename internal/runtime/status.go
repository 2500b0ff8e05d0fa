// SPDX-License-Identifier: MIT

// Package runtime defines the provider-agnostic execution model: device
// and job abstractions, job status lifecycle, run options and result
// types shared by all quantum backends.
package runtime

import (
	"encoding/json"
	"fmt"

	"github.com/qbraid/qbraid-go/internal/log"
)

// JobStatus represents the canonical state of a quantum job. Vendor
// status strings are normalized into this enum by each provider's
// status map.
type JobStatus string

// Job status constants define all canonical states of a quantum job.
const (
	// StatusInitializing indicates the job is being created.
	StatusInitializing JobStatus = "INITIALIZING"

	// StatusQueued indicates the job is waiting in the device queue.
	StatusQueued JobStatus = "QUEUED"

	// StatusValidating indicates the job is being checked against the
	// device's capabilities before execution.
	StatusValidating JobStatus = "VALIDATING"

	// StatusRunning indicates the job is currently executing.
	StatusRunning JobStatus = "RUNNING"

	// StatusCancelling indicates cancellation was requested but has not
	// yet taken effect.
	StatusCancelling JobStatus = "CANCELLING"

	// StatusCancelled indicates the job was cancelled.
	StatusCancelled JobStatus = "CANCELLED"

	// StatusCompleted indicates the job finished successfully.
	StatusCompleted JobStatus = "COMPLETED"

	// StatusFailed indicates the job encountered an error and terminated.
	StatusFailed JobStatus = "FAILED"

	// StatusUnknown is the fallback for vendor states with no canonical
	// equivalent.
	StatusUnknown JobStatus = "UNKNOWN"
)

// String implements fmt.Stringer.
func (s JobStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is one of the defined constants.
func (s JobStatus) IsValid() bool {
	switch s {
	case StatusInitializing, StatusQueued, StatusValidating, StatusRunning,
		StatusCancelling, StatusCancelled, StatusCompleted, StatusFailed, StatusUnknown:
		return true
	default:
		return false
	}
}

// IsTerminal checks whether the status represents a final state. A job
// in a terminal state will not transition again.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks whether this status can transition to the
// target status. Terminal states cannot transition; UNKNOWN can move to
// anything since the real state was never observed.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if !target.IsValid() {
		return false
	}

	switch s {
	case StatusInitializing:
		return target == StatusQueued || target == StatusValidating ||
			target == StatusRunning || target == StatusCancelling ||
			target == StatusCancelled || target == StatusFailed
	case StatusQueued:
		return target == StatusValidating || target == StatusRunning ||
			target == StatusCancelling || target == StatusCancelled || target == StatusFailed
	case StatusValidating:
		return target == StatusRunning || target == StatusCancelling ||
			target == StatusCancelled || target == StatusFailed
	case StatusRunning:
		return target == StatusCompleted || target == StatusFailed ||
			target == StatusCancelling || target == StatusCancelled
	case StatusCancelling:
		return target == StatusCancelled || target == StatusCompleted || target == StatusFailed
	case StatusUnknown:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler for JobStatus.
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := JobStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid job status: %q", str)
	}

	*s = status
	return nil
}

// ParseJobStatus parses a string into a JobStatus, returning an error
// if invalid.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid job status: %q", s)
	}
	return status, nil
}

// AllJobStatuses returns all defined job statuses.
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		StatusInitializing,
		StatusQueued,
		StatusValidating,
		StatusRunning,
		StatusCancelling,
		StatusCancelled,
		StatusCompleted,
		StatusFailed,
		StatusUnknown,
	}
}

// StatusMap translates vendor-native status strings into canonical
// statuses. Lookups fall back to StatusUnknown.
type StatusMap map[string]JobStatus

// Normalize maps a vendor status string to its canonical status.
// Unmapped vendor values resolve to StatusUnknown rather than failing.
func (m StatusMap) Normalize(vendor string) JobStatus {
	if status, ok := m[vendor]; ok {
		return status
	}
	logger := log.WithComponent("runtime")
	logger.Debug().
		Str("vendor_status", vendor).
		Msg("unmapped vendor status")
	return StatusUnknown
}
