// SPDX-License-Identifier: MIT

package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/metrics"
)

// DefaultPollInterval is used when Wait is called with a non-positive
// interval.
const DefaultPollInterval = 5 * time.Second

// Wait polls the job until it reaches a terminal status and returns
// that status. Context cancellation or deadline expiry yields
// ErrJobTimeout wrapping the context error. Transient status errors are
// logged and polling continues.
func Wait(ctx context.Context, job Job, poll time.Duration) (JobStatus, error) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	logger := log.WithComponent("runtime").With().
		Str(log.FieldJobID, job.ID()).
		Logger()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	last := StatusUnknown
	for {
		status, err := job.Status(ctx)
		switch {
		case err == nil:
			metrics.IncJobPoll(status.String())
			if status != last {
				logger.Debug().
					Str(log.FieldOldStatus, last.String()).
					Str(log.FieldNewStatus, status.String()).
					Msg("job status changed")
				last = status
			}
			if status.IsTerminal() {
				return status, nil
			}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return last, fmt.Errorf("%w: %w", ErrJobTimeout, err)
		default:
			metrics.IncJobPoll("error")
			logger.Warn().Err(err).Msg("status poll failed")
		}

		select {
		case <-ctx.Done():
			return last, fmt.Errorf("%w: %w", ErrJobTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
