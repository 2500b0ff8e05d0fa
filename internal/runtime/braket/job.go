// SPDX-License-Identifier: MIT

package braket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/runtime"
)

// Job tracks a Braket task through the proxy API. Results are read from
// the task's S3 output location once the task completes.
type Job struct {
	id       string
	taskARN  string
	provider *Provider
	logger   zerolog.Logger

	mu   sync.Mutex
	last runtime.JobStatus
}

func newJob(id, taskARN string, provider *Provider) *Job {
	return &Job{
		id:       id,
		taskARN:  taskARN,
		provider: provider,
		logger: log.WithComponent("job.braket").With().
			Str(log.FieldJobID, id).
			Str(log.FieldVendorJobID, taskARN).
			Logger(),
		last: runtime.StatusUnknown,
	}
}

// NewJob builds a handle for an existing Braket-backed job.
func NewJob(id, taskARN string, provider *Provider) *Job {
	return newJob(id, taskARN, provider)
}

// LoadJob implements runtime.JobLoader.
func (p *Provider) LoadJob(ctx context.Context, id string) (runtime.Job, error) {
	doc, err := p.session.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}
	return newJob(id, doc.VendorJobID, p), nil
}

// ID implements runtime.Job.
func (j *Job) ID() string { return j.id }

// TaskARN returns the Braket quantum task ARN.
func (j *Job) TaskARN() string { return j.taskARN }

// Status implements runtime.Job. The vendor state is normalized through
// the Braket status map; a change is pushed back to the job document.
func (j *Job) Status(ctx context.Context) (runtime.JobStatus, error) {
	doc, err := j.provider.session.GetJob(ctx, j.id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return runtime.StatusUnknown, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, j.id)
		}
		return runtime.StatusUnknown, fmt.Errorf("job status: %w", err)
	}
	status := vendorStatuses.Normalize(doc.VendorStatus)

	j.mu.Lock()
	changed := status != j.last && status != runtime.StatusUnknown
	if changed {
		j.last = status
	}
	j.mu.Unlock()

	if changed {
		if _, err := j.provider.session.UpdateJob(ctx, j.id, doc.VendorStatus, status.String()); err != nil {
			j.logger.Warn().Err(err).
				Str(log.FieldNewStatus, status.String()).
				Msg("failed to sync job document")
		}
	}
	return status, nil
}

// Result implements runtime.Job.
func (j *Job) Result(ctx context.Context) (*runtime.Result, error) {
	status, err := j.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status != runtime.StatusCompleted {
		return nil, fmt.Errorf("%w: job %s is %s", runtime.ErrResultUnavailable, j.id, status)
	}

	store, err := j.provider.resultStore()
	if err != nil {
		return nil, err
	}
	key := j.resultKey()
	raw, err := store.Fetch(ctx, j.provider.cfg.S3Bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	return parseTaskResult(j.id, raw)
}

// resultKey builds the object key of the task's result document:
// <folder>/<task-id>/results.json, where the task ID is the final ARN
// segment.
func (j *Job) resultKey() string {
	taskID := j.taskARN
	if i := strings.LastIndex(taskID, "/"); i >= 0 {
		taskID = taskID[i+1:]
	}
	return path.Join(j.provider.cfg.S3Folder, taskID, "results.json")
}

// Cancel implements runtime.Job.
func (j *Job) Cancel(ctx context.Context) error {
	status, err := j.Status(ctx)
	if err != nil {
		return err
	}
	if status.IsTerminal() {
		return fmt.Errorf("%w: %s", runtime.ErrJobTerminal, status)
	}
	if err := j.provider.session.CancelJob(ctx, j.id); err != nil {
		return fmt.Errorf("cancel job: %w", err)
	}
	j.logger.Info().Msg("cancellation requested")
	return nil
}

// Metadata implements runtime.Job.
func (j *Job) Metadata(ctx context.Context) (map[string]any, error) {
	doc, err := j.provider.session.GetJob(ctx, j.id)
	if err != nil {
		return nil, fmt.Errorf("job metadata: %w", err)
	}
	status := vendorStatuses.Normalize(doc.VendorStatus)
	meta, err := j.provider.session.UpdateJob(ctx, j.id, doc.VendorStatus, status.String())
	if err != nil {
		return nil, fmt.Errorf("job metadata: %w", err)
	}
	return meta, nil
}

// taskResult is the slice of the Braket result document this module
// consumes.
type taskResult struct {
	Measurements             [][]int            `json:"measurements"`
	MeasurementProbabilities map[string]float64 `json:"measurementProbabilities"`
	TaskMetadata             struct {
		Shots int `json:"shots"`
	} `json:"taskMetadata"`
}

// parseTaskResult converts a Braket results.json payload into counts.
// Shot-by-shot measurements take precedence; probability-only payloads
// are scaled by the recorded shot count.
func parseTaskResult(jobID string, raw []byte) (*runtime.Result, error) {
	var tr taskResult
	if err := json.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	counts := make(map[string]int)
	switch {
	case len(tr.Measurements) > 0:
		var sb strings.Builder
		for _, shot := range tr.Measurements {
			sb.Reset()
			for _, bit := range shot {
				if bit == 0 {
					sb.WriteByte('0')
				} else {
					sb.WriteByte('1')
				}
			}
			counts[sb.String()]++
		}
	case len(tr.MeasurementProbabilities) > 0:
		for bits, prob := range tr.MeasurementProbabilities {
			counts[bits] = int(prob*float64(tr.TaskMetadata.Shots) + 0.5)
		}
	default:
		return nil, fmt.Errorf("%w: empty result payload", runtime.ErrResultUnavailable)
	}

	shots := tr.TaskMetadata.Shots
	if shots == 0 {
		shots = len(tr.Measurements)
	}
	return &runtime.Result{
		JobID:  jobID,
		Counts: counts,
		Shots:  shots,
		Raw:    raw,
	}, nil
}
