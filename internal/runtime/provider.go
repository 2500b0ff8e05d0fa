// SPDX-License-Identifier: MIT

package runtime

import (
	"context"
	"errors"

	"github.com/qbraid/qbraid-go/internal/programs"
)

// Sentinel errors shared by all providers.
var (
	// ErrDeviceNotFound indicates the requested device is not in the
	// provider's catalog.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrDeviceOffline indicates the device is not accepting jobs.
	ErrDeviceOffline = errors.New("device offline")

	// ErrJobNotFound indicates no job exists for the given ID.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobTimeout indicates polling stopped before the job reached a
	// terminal state.
	ErrJobTimeout = errors.New("timed out waiting for job")

	// ErrJobTerminal indicates an operation that requires a live job was
	// attempted on one already in a terminal state.
	ErrJobTerminal = errors.New("job already in terminal state")

	// ErrResultUnavailable indicates the job has no result payload, for
	// example because it failed or was cancelled.
	ErrResultUnavailable = errors.New("result unavailable")
)

// DeviceType distinguishes hardware from classical simulation.
type DeviceType string

const (
	DeviceTypeQPU       DeviceType = "qpu"
	DeviceTypeSimulator DeviceType = "simulator"
)

// Profile describes a device's static capabilities. Providers build a
// profile once per device and hand it to callers for inspection.
type Profile struct {
	DeviceID   string
	Provider   string
	DeviceType DeviceType
	NumQubits  int
	BasisGates []programs.GateName
	Spec       programs.Spec
}

// Provider enumerates the devices a vendor account can reach.
type Provider interface {
	// Name returns the provider's identifier, e.g. "qbraid" or "aws".
	Name() string

	// Devices lists all devices visible to the account.
	Devices(ctx context.Context) ([]Device, error)

	// Device resolves a single device by ID. Returns ErrDeviceNotFound
	// if the ID is not in the catalog.
	Device(ctx context.Context, id string) (Device, error)
}

// Device is a single quantum execution target.
type Device interface {
	// ID returns the device identifier.
	ID() string

	// Profile returns the device's static capabilities.
	Profile() Profile

	// Status returns the device's current availability.
	Status(ctx context.Context) (string, error)

	// Run submits a program for execution. The program is validated and,
	// when opts enables it, transpiled to a format the device accepts.
	Run(ctx context.Context, p *programs.Program, shots int, opts *Options) (Job, error)

	// EstimateCost predicts the cost in USD of running a program with
	// the given shot count.
	EstimateCost(ctx context.Context, p *programs.Program, shots int) (float64, error)
}

// JobLoader is implemented by providers that can rebuild a job handle
// from a stored job ID.
type JobLoader interface {
	// LoadJob resolves an existing job by ID. Returns ErrJobNotFound if
	// the provider has no record of it.
	LoadJob(ctx context.Context, id string) (Job, error)
}

// Job is a handle on a submitted quantum job.
type Job interface {
	// ID returns the job identifier.
	ID() string

	// Status fetches the job's current canonical status.
	Status(ctx context.Context) (JobStatus, error)

	// Result fetches the job's result. Blocks callers should use Wait
	// first; Result on a non-terminal job returns ErrResultUnavailable.
	Result(ctx context.Context) (*Result, error)

	// Cancel requests cancellation. Cancelling a terminal job returns
	// ErrJobTerminal.
	Cancel(ctx context.Context) error

	// Metadata returns provider-specific details about the job.
	Metadata(ctx context.Context) (map[string]any, error)
}

// Result carries the measurement outcome of a completed job.
type Result struct {
	JobID  string
	Counts map[string]int
	Shots  int
	Raw    []byte
}

// Probabilities normalizes the measurement counts into a probability
// distribution. Returns nil when no shots were recorded.
func (r *Result) Probabilities() map[string]float64 {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	if total == 0 {
		return nil
	}
	probs := make(map[string]float64, len(r.Counts))
	for bits, c := range r.Counts {
		probs[bits] = float64(c) / float64(total)
	}
	return probs
}
