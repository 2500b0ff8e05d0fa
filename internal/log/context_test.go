// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithJobID(ctx, "qbraid_job_123")
	ctx = ContextWithDeviceID(ctx, "aws_sv1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "qbraid_job_123", JobIDFromContext(ctx))
	assert.Equal(t, "aws_sv1", DeviceIDFromContext(ctx))
}

func TestContextMissingValues(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, JobIDFromContext(nil)) //nolint:staticcheck // nil ctx tolerated on purpose
	assert.Empty(t, DeviceIDFromContext(context.Background()))
}

func TestWithContextEnrichment(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := ContextWithJobID(context.Background(), "qbraid_job_42")
	l := WithContext(ctx, base)
	l.Info().Msg("status poll")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "qbraid_job_42", entry[FieldJobID])
	assert.NotContains(t, entry, FieldDeviceID)
}

func TestWithContextNoFieldsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	l := WithContext(context.Background(), base)
	l.Info().Msg("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, FieldRequestID)
}
