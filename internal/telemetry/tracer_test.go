// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "qbraid",
		ExporterType: "carrier-pigeon",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestTracerReturnsNamedTracer(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NotNil(t, Tracer("qbraid/test"))
}

func TestDeviceAttributesSkipEmpty(t *testing.T) {
	attrs := DeviceAttributes("aws_sv1", "", "simulator")
	assert.Len(t, attrs, 2)
}

func TestJobAttributes(t *testing.T) {
	attrs := JobAttributes("job-1", "RUNNING", 100)
	assert.Len(t, attrs, 3)
}
