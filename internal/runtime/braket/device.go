// SPDX-License-Identifier: MIT

package braket

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/metrics"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
)

// perTaskFee is the flat per-task charge on Braket QPUs, in USD.
const perTaskFee = 0.3

// onDemandSimulators are the managed simulators billed by runtime
// rather than per shot.
var onDemandSimulators = map[string]struct{}{
	"SV1": {},
	"DM1": {},
	"TN1": {},
}

// Device is a Braket execution target addressed by its ARN.
type Device struct {
	info     api.DeviceInfo
	profile  runtime.Profile
	provider *Provider
	logger   zerolog.Logger
}

// ID implements runtime.Device. The ID is the qBraid catalog ID; the
// underlying Braket ARN is available via ARN.
func (d *Device) ID() string { return d.info.ID }

// ARN returns the Braket device ARN.
func (d *Device) ARN() string { return d.info.DeviceARN }

// Profile implements runtime.Device.
func (d *Device) Profile() runtime.Profile { return d.profile }

// Status implements runtime.Device.
func (d *Device) Status(ctx context.Context) (string, error) {
	info, err := d.provider.session.GetDevice(ctx, d.info.ID)
	if err != nil {
		return "", fmt.Errorf("device status: %w", err)
	}
	return info.Status, nil
}

// Run implements runtime.Device.
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
		encoded, err = d.provider.graph.ConvertProgram(ctx, p, target)
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

	doc, err := d.provider.session.CreateJob(ctx, api.CreateJobRequest{
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
		Str(log.FieldVendorJobID, doc.VendorJobID).
		Int(log.FieldShots, shots).
		Msg("task submitted")

	return newJob(doc.QbraidJobID, doc.VendorJobID, d.provider), nil
}

// EstimateCost implements runtime.Device. On-demand simulators are
// billed by runtime, which grows with circuit width and, past a few
// thousand shots, shot count; QPUs charge per shot plus a flat task fee.
func (d *Device) EstimateCost(_ context.Context, p *programs.Program, shots int) (float64, error) {
	if shots < 0 {
		return 0, fmt.Errorf("shots must be non-negative, got %d", shots)
	}
	if d.info.Simulator() {
		if _, ok := onDemandSimulators[simulatorName(d.info)]; !ok {
			return 0, fmt.Errorf("no pricing model for simulator %s", d.info.ID)
		}
		return d.info.PricePerMin*float64(p.NumQubits) + math.Exp(float64(shots)/1000), nil
	}
	return d.info.PricePerShot*float64(shots) + perTaskFee, nil
}

func simulatorName(info api.DeviceInfo) string {
	name := info.Name
	if i := strings.LastIndex(info.DeviceARN, "/"); i >= 0 {
		name = info.DeviceARN[i+1:]
	}
	return strings.ToUpper(name)
}
