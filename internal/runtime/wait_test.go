// SPDX-License-Identifier: MIT

package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJob walks through a scripted status sequence.
type fakeJob struct {
	id       string
	statuses []JobStatus
	errs     []error
	calls    atomic.Int32
}

func (j *fakeJob) ID() string { return j.id }

func (j *fakeJob) Status(context.Context) (JobStatus, error) {
	i := int(j.calls.Add(1)) - 1
	if i >= len(j.statuses) {
		i = len(j.statuses) - 1
	}
	if i < len(j.errs) && j.errs[i] != nil {
		return StatusUnknown, j.errs[i]
	}
	return j.statuses[i], nil
}

func (j *fakeJob) Result(context.Context) (*Result, error) { return nil, ErrResultUnavailable }

func (j *fakeJob) Cancel(context.Context) error { return nil }

func (j *fakeJob) Metadata(context.Context) (map[string]any, error) { return nil, nil }

func TestWaitReachesTerminalStatus(t *testing.T) {
	job := &fakeJob{
		id:       "job-1",
		statuses: []JobStatus{StatusQueued, StatusRunning, StatusCompleted},
	}

	status, err := Wait(context.Background(), job, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
	assert.Equal(t, int32(3), job.calls.Load())
}

func TestWaitTimesOut(t *testing.T) {
	job := &fakeJob{id: "job-2", statuses: []JobStatus{StatusRunning}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	status, err := Wait(ctx, job, 5*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJobTimeout)
	assert.Equal(t, StatusRunning, status)
}

func TestWaitSurvivesTransientErrors(t *testing.T) {
	job := &fakeJob{
		id:       "job-3",
		statuses: []JobStatus{StatusRunning, StatusRunning, StatusCompleted},
		errs:     []error{nil, errors.New("upstream hiccup"), nil},
	}

	status, err := Wait(context.Background(), job, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
}

func TestResultProbabilities(t *testing.T) {
	r := &Result{
		JobID:  "job-4",
		Counts: map[string]int{"00": 750, "11": 250},
		Shots:  1000,
	}
	probs := r.Probabilities()
	assert.InDelta(t, 0.75, probs["00"], 1e-9)
	assert.InDelta(t, 0.25, probs["11"], 1e-9)

	empty := &Result{JobID: "job-5"}
	assert.Nil(t, empty.Probabilities())
}
