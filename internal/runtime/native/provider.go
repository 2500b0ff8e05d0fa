// SPDX-License-Identifier: MIT

// Package native implements the runtime interfaces on top of the qBraid
// platform API: devices managed by qBraid itself, jobs submitted and
// tracked through the platform's job documents.
package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/log"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// ProviderName identifies the native qBraid provider.
const ProviderName = "qbraid"

// Provider lists qBraid-managed devices from the platform catalog.
type Provider struct {
	session *api.Session
	graph   *transpiler.Graph
	logger  zerolog.Logger
}

// NewProvider builds a provider on the given API session. Conversions
// for device-format mismatches run through the default graph.
func NewProvider(session *api.Session) *Provider {
	return &Provider{
		session: session,
		graph:   transpiler.Default(),
		logger:  log.WithComponent("provider.native"),
	}
}

// Name implements runtime.Provider.
func (p *Provider) Name() string { return ProviderName }

// Devices implements runtime.Provider.
func (p *Provider) Devices(ctx context.Context) ([]runtime.Device, error) {
	infos, err := p.session.ListDevices(ctx, api.DeviceFilter{Vendor: "QBRAID"})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	devices := make([]runtime.Device, 0, len(infos))
	for _, info := range infos {
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
	return p.newDevice(info), nil
}

func (p *Provider) newDevice(info api.DeviceInfo) *Device {
	return &Device{
		info:    info,
		profile: buildProfile(info),
		session: p.session,
		graph:   p.graph,
		logger:  p.logger.With().Str(log.FieldDeviceID, info.ID).Logger(),
	}
}

// buildProfile derives a runtime profile from a catalog record. The
// program spec targets the first run-input format with a registered
// codec, falling back to OpenQASM 2.
func buildProfile(info api.DeviceInfo) runtime.Profile {
	deviceType := runtime.DeviceTypeQPU
	if info.Simulator() {
		deviceType = runtime.DeviceTypeSimulator
	}
	format := "qasm2"
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
