// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID   = "request_id"
	FieldJobID       = "job_id"
	FieldVendorJobID = "vendor_job_id"
	FieldDeviceID    = "device_id"
	FieldProvider    = "provider"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Program fields
	FieldFormat    = "format"
	FieldNumQubits = "num_qubits"
	FieldShots     = "shots"

	// State fields
	FieldOldStatus = "old_status"
	FieldNewStatus = "new_status"
)
