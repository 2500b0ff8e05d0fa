// SPDX-License-Identifier: MIT

package native

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/runtime"
)

// Job tracks a platform-managed quantum job. Status reads reconcile the
// job document when the observed status changes.
type Job struct {
	id      string
	session *api.Session
	logger  zerolog.Logger

	mu   sync.Mutex
	last runtime.JobStatus
}

func newJob(id string, session *api.Session) *Job {
	return &Job{
		id:      id,
		session: session,
		logger:  log.WithComponent("job.native").With().Str(log.FieldJobID, id).Logger(),
		last:    runtime.StatusUnknown,
	}
}

// NewJob builds a handle for an existing platform job, e.g. one loaded
// from history.
func NewJob(id string, session *api.Session) *Job {
	return newJob(id, session)
}

// LoadJob implements runtime.JobLoader.
func (p *Provider) LoadJob(ctx context.Context, id string) (runtime.Job, error) {
	if _, err := p.session.GetJob(ctx, id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}
	return newJob(id, p.session), nil
}

// ID implements runtime.Job.
func (j *Job) ID() string { return j.id }

// Status implements runtime.Job. A status change is pushed back to the
// platform job document so the record stays in sync with the vendor.
func (j *Job) Status(ctx context.Context) (runtime.JobStatus, error) {
	doc, err := j.session.GetJob(ctx, j.id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return runtime.StatusUnknown, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, j.id)
		}
		return runtime.StatusUnknown, fmt.Errorf("job status: %w", err)
	}
	status, err := runtime.ParseJobStatus(doc.QbraidStatus)
	if err != nil {
		status = runtime.StatusUnknown
	}

	j.mu.Lock()
	changed := status != j.last && status != runtime.StatusUnknown
	if changed {
		j.last = status
	}
	j.mu.Unlock()

	if changed {
		if _, err := j.session.UpdateJob(ctx, j.id, doc.VendorStatus, status.String()); err != nil {
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

	res, err := j.session.GetResult(ctx, j.id)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	shots := 0
	for _, c := range res.MeasurementCount {
		shots += c
	}
	return &runtime.Result{
		JobID:  j.id,
		Counts: res.MeasurementCount,
		Shots:  shots,
		Raw:    res.Measurements,
	}, nil
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
	if err := j.session.CancelJob(ctx, j.id); err != nil {
		return fmt.Errorf("cancel job: %w", err)
	}
	j.logger.Info().Msg("cancellation requested")
	return nil
}

// Metadata implements runtime.Job. The platform responds with the
// reconciled job document.
func (j *Job) Metadata(ctx context.Context) (map[string]any, error) {
	doc, err := j.session.GetJob(ctx, j.id)
	if err != nil {
		return nil, fmt.Errorf("job metadata: %w", err)
	}
	meta, err := j.session.UpdateJob(ctx, j.id, doc.VendorStatus, doc.QbraidStatus)
	if err != nil {
		return nil, fmt.Errorf("job metadata: %w", err)
	}
	return meta, nil
}
