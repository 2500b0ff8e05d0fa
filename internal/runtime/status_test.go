// SPDX-License-Identifier: MIT

package runtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusIsValid(t *testing.T) {
	for _, status := range AllJobStatuses() {
		assert.True(t, status.IsValid(), "status %s should be valid", status)
	}
	assert.False(t, JobStatus("bogus").IsValid())
	assert.False(t, JobStatus("").IsValid())
	assert.False(t, JobStatus("completed").IsValid(), "statuses are upper case")
}

func TestJobStatusIsTerminal(t *testing.T) {
	terminal := map[JobStatus]bool{
		StatusCompleted: true,
		StatusFailed:    true,
		StatusCancelled: true,
	}
	for _, status := range AllJobStatuses() {
		assert.Equal(t, terminal[status], status.IsTerminal(), "status %s", status)
	}
}

func TestJobStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{StatusInitializing, StatusQueued, true},
		{StatusInitializing, StatusCompleted, false},
		{StatusQueued, StatusRunning, true},
		{StatusQueued, StatusCompleted, false},
		{StatusValidating, StatusRunning, true},
		{StatusRunning, StatusCompleted, true},
		{StatusRunning, StatusFailed, true},
		{StatusRunning, StatusQueued, false},
		{StatusCancelling, StatusCancelled, true},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusQueued, false},
		{StatusCancelled, StatusCancelling, false},
		{StatusUnknown, StatusCompleted, true},
		{StatusRunning, JobStatus("bogus"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestJobStatusJSON(t *testing.T) {
	data, err := json.Marshal(StatusRunning)
	require.NoError(t, err)
	assert.JSONEq(t, `"RUNNING"`, string(data))

	var status JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"COMPLETED"`), &status))
	assert.Equal(t, StatusCompleted, status)

	err = json.Unmarshal([]byte(`"nonsense"`), &status)
	assert.Error(t, err)
}

func TestParseJobStatus(t *testing.T) {
	status, err := ParseJobStatus("QUEUED")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, status)

	_, err = ParseJobStatus("queued")
	assert.Error(t, err)
}

func TestStatusMapNormalize(t *testing.T) {
	m := StatusMap{
		"CREATED":   StatusInitializing,
		"COMPLETED": StatusCompleted,
	}
	assert.Equal(t, StatusInitializing, m.Normalize("CREATED"))
	assert.Equal(t, StatusCompleted, m.Normalize("COMPLETED"))
	assert.Equal(t, StatusUnknown, m.Normalize("SOMETHING_NEW"))
}
