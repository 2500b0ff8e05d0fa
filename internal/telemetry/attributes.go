// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
// HTTP-level attributes come from the otelhttp instrumentation.
const (
	// Device attributes
	DeviceIDKey       = "device.id"
	DeviceProviderKey = "device.provider"
	DeviceTypeKey     = "device.type"

	// Job attributes
	JobIDKey       = "job.id"
	JobVendorIDKey = "job.vendor_id"
	JobStatusKey   = "job.status"
	JobShotsKey    = "job.shots"

	// Conversion attributes
	ConversionSourceKey = "conversion.source"
	ConversionTargetKey = "conversion.target"
	ConversionPathKey   = "conversion.path"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// DeviceAttributes creates device-related span attributes.
func DeviceAttributes(id, provider, deviceType string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if id != "" {
		attrs = append(attrs, attribute.String(DeviceIDKey, id))
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(DeviceProviderKey, provider))
	}
	if deviceType != "" {
		attrs = append(attrs, attribute.String(DeviceTypeKey, deviceType))
	}
	return attrs
}

// JobAttributes creates job-related span attributes.
func JobAttributes(id, status string, shots int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(JobIDKey, id),
		attribute.String(JobStatusKey, status),
		attribute.Int(JobShotsKey, shots),
	}
}

// ConversionAttributes creates transpilation span attributes.
func ConversionAttributes(source, target, path string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ConversionSourceKey, source),
		attribute.String(ConversionTargetKey, target),
		attribute.String(ConversionPathKey, path),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
