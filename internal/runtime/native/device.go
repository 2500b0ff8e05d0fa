// SPDX-License-Identifier: MIT

package native

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/metrics"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// Device is a qBraid-managed execution target.
type Device struct {
	info    api.DeviceInfo
	profile runtime.Profile
	session *api.Session
	graph   *transpiler.Graph
	logger  zerolog.Logger
}

// ID implements runtime.Device.
func (d *Device) ID() string { return d.info.ID }

// Profile implements runtime.Device.
func (d *Device) Profile() runtime.Profile { return d.profile }

// Status implements runtime.Device. The catalog record is re-fetched so
// the answer reflects current availability, not the listing snapshot.
func (d *Device) Status(ctx context.Context) (string, error) {
	info, err := d.session.GetDevice(ctx, d.info.ID)
	if err != nil {
		return "", fmt.Errorf("device status: %w", err)
	}
	return info.Status, nil
}

// Run implements runtime.Device. The program is validated, converted to
// the device's input format when needed, and submitted to the platform.
func (d *Device) Run(ctx context.Context, p *programs.Program, shots int, opts *runtime.Options) (runtime.Job, error) {
	if opts == nil {
		opts = runtime.DefaultOptions()
	}
	if !d.info.Online() {
		return nil, fmt.Errorf("%w: %s", runtime.ErrDeviceOffline, d.info.ID)
	}
	if opts.GetBool("validate", true) {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("validate program: %w", err)
		}
	}

	target := d.profile.Spec.Format
	var (
		encoded []byte
		err     error
	)
	if opts.GetBool("transpile", true) && p.Format != target {
		encoded, err = d.graph.ConvertProgram(ctx, p, target)
		if err != nil {
			return nil, fmt.Errorf("transpile to %s: %w", target, err)
		}
	} else {
		target = p.Format
		encoded, err = programs.Encode(p.Format, p)
		if err != nil {
			return nil, fmt.Errorf("encode program: %w", err)
		}
	}

	doc, err := d.session.CreateJob(ctx, api.CreateJobRequest{
		DeviceID:      d.info.ID,
		Program:       string(encoded),
		ProgramFormat: target,
		Shots:         shots,
		NumQubits:     p.NumQubits,
		Depth:         p.Depth(),
		Tags:          opts.GetTags(),
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	metrics.IncJobSubmitted(ProviderName)
	d.logger.Info().
		Str(log.FieldJobID, doc.QbraidJobID).
		Str(log.FieldFormat, target).
		Int(log.FieldShots, shots).
		Msg("job submitted")

	return newJob(doc.QbraidJobID, d.session), nil
}

// EstimateCost implements runtime.Device using the catalog's per-task
// and per-shot prices.
func (d *Device) EstimateCost(_ context.Context, _ *programs.Program, shots int) (float64, error) {
	if shots < 0 {
		return 0, fmt.Errorf("shots must be non-negative, got %d", shots)
	}
	return d.info.PricePerTask + d.info.PricePerShot*float64(shots), nil
}
