// SPDX-License-Identifier: MIT

// Package braket implements the runtime interfaces for Amazon
// Braket-backed devices reached through the qBraid quantum proxy API.
// Device IDs are Braket device ARNs; result payloads live in
// S3-compatible object storage.
package braket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// ProviderName identifies the Braket provider.
const ProviderName = "aws"

// Regions lists the AWS regions Braket devices are served from.
var Regions = []string{"us-east-1", "us-west-1", "us-west-2", "eu-west-2"}

// ErrNoOpenQASMSupport marks a device that does not accept OpenQASM
// programs. Such devices cannot be targeted.
var ErrNoOpenQASMSupport = errors.New("device does not accept OpenQASM programs")

// vendorStatuses maps Braket task states onto the canonical lifecycle.
var vendorStatuses = runtime.StatusMap{
	"CREATED":    runtime.StatusInitializing,
	"QUEUED":     runtime.StatusQueued,
	"RUNNING":    runtime.StatusRunning,
	"CANCELLING": runtime.StatusCancelling,
	"CANCELLED":  runtime.StatusCancelled,
	"COMPLETED":  runtime.StatusCompleted,
	"FAILED":     runtime.StatusFailed,
}

// Provider lists Braket devices visible through the proxy API.
type Provider struct {
	session *api.Session
	cfg     config.Config
	graph   *transpiler.Graph
	store   objectStore
	logger  zerolog.Logger
}

// NewProvider builds a Braket provider. The object store for result
// retrieval is created lazily on first use so listing devices works
// without S3 credentials.
func NewProvider(session *api.Session, cfg config.Config) *Provider {
	return &Provider{
		session: session,
		cfg:     cfg,
		graph:   transpiler.Default(),
		logger:  log.WithComponent("provider.braket"),
	}
}

// Name implements runtime.Provider.
func (p *Provider) Name() string { return ProviderName }

// Devices implements runtime.Provider. Devices without OpenQASM support
// are skipped: nothing in this module can produce programs for them.
func (p *Provider) Devices(ctx context.Context) ([]runtime.Device, error) {
	infos, err := p.session.ListDevices(ctx, api.DeviceFilter{Vendor: "AWS"})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	devices := make([]runtime.Device, 0, len(infos))
	for _, info := range infos {
		if !supportsOpenQASM(info) {
			p.logger.Debug().
				Str(log.FieldDeviceID, info.ID).
				Msg("skipping device without OpenQASM action")
			continue
		}
		devices = append(devices, p.newDevice(info))
	}
	return devices, nil
}

// Device implements runtime.Provider.
func (p *Provider) Device(ctx context.Context, id string) (runtime.Device, error) {
	info, err := p.session.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", runtime.ErrDeviceNotFound, id)
		}
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}
	if !supportsOpenQASM(info) {
		return nil, fmt.Errorf("%w: %s", ErrNoOpenQASMSupport, id)
	}
	return p.newDevice(info), nil
}

func (p *Provider) newDevice(info api.DeviceInfo) *Device {
	return &Device{
		info:     info,
		profile:  buildProfile(info),
		provider: p,
		logger:   p.logger.With().Str(log.FieldDeviceID, info.ID).Logger(),
	}
}

// supportsOpenQASM checks the device's capability record for an
// OpenQASM run input.
func supportsOpenQASM(info api.DeviceInfo) bool {
	for _, f := range info.RunInputTypes {
		if f == "qasm2" || f == "qasm3" {
			return true
		}
	}
	return false
}

func buildProfile(info api.DeviceInfo) runtime.Profile {
	deviceType := runtime.DeviceTypeQPU
	if info.Simulator() {
		deviceType = runtime.DeviceTypeSimulator
	}
	format := "qasm3"
	for _, f := range info.RunInputTypes {
		if programs.IsSupported(f) {
			format = f
			break
		}
	}
	return runtime.Profile{
		DeviceID:   info.ID,
		Provider:   ProviderName,
		DeviceType: deviceType,
		NumQubits:  info.NumQubits,
		Spec:       programs.Spec{Format: format},
	}
}
