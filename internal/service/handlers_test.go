// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbraid/qbraid-go/internal/cache"
	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/store"
)

// fakeDevice is an in-memory runtime.Device.
type fakeDevice struct {
	id      string
	profile runtime.Profile
	status  string
	runErr  error
	jobs    map[string]*fakeJob
}

func (d *fakeDevice) ID() string { return d.id }

func (d *fakeDevice) Profile() runtime.Profile { return d.profile }

func (d *fakeDevice) Status(context.Context) (string, error) { return d.status, nil }

func (d *fakeDevice) Run(_ context.Context, p *programs.Program, shots int, _ *runtime.Options) (runtime.Job, error) {
	if d.runErr != nil {
		return nil, d.runErr
	}
	job := &fakeJob{id: fmt.Sprintf("job-%d", len(d.jobs)+1), status: runtime.StatusQueued}
	d.jobs[job.id] = job
	return job, nil
}

func (d *fakeDevice) EstimateCost(context.Context, *programs.Program, int) (float64, error) {
	return 0.5, nil
}

type fakeJob struct {
	id     string
	status runtime.JobStatus
}

func (j *fakeJob) ID() string { return j.id }

func (j *fakeJob) Status(context.Context) (runtime.JobStatus, error) { return j.status, nil }

func (j *fakeJob) Cancel(context.Context) error {
	if j.status.IsTerminal() {
		return runtime.ErrJobTerminal
	}
	j.status = runtime.StatusCancelling
	return nil
}

func (j *fakeJob) Result(context.Context) (*runtime.Result, error) {
	return nil, runtime.ErrResultUnavailable
}

func (j *fakeJob) Metadata(context.Context) (map[string]any, error) { return nil, nil }

// fakeProvider serves a fixed set of devices and loads jobs from them.
type fakeProvider struct {
	name    string
	devices []*fakeDevice
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Devices(context.Context) ([]runtime.Device, error) {
	out := make([]runtime.Device, len(p.devices))
	for i, d := range p.devices {
		out[i] = d
	}
	return out, nil
}

func (p *fakeProvider) Device(_ context.Context, id string) (runtime.Device, error) {
	for _, d := range p.devices {
		if d.id == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", runtime.ErrDeviceNotFound, id)
}

func (p *fakeProvider) LoadJob(_ context.Context, id string) (runtime.Job, error) {
	for _, d := range p.devices {
		if job, ok := d.jobs[id]; ok {
			return job, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", runtime.ErrJobNotFound, id)
}

func newTestServer(t *testing.T) (*Server, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{
		name: "qbraid",
		devices: []*fakeDevice{{
			id: "sim-1",
			profile: runtime.Profile{
				DeviceID:   "sim-1",
				Provider:   "qbraid",
				DeviceType: runtime.DeviceTypeSimulator,
				NumQubits:  32,
				Spec:       programs.Spec{Format: "qasm2"},
			},
			status: "ONLINE",
			jobs:   map[string]*fakeJob{},
		}},
	}
	history, err := store.OpenHistory(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	cfg := config.Defaults()
	cfg.RateLimitRPS = 10000
	return New(Deps{
		Config:    cfg,
		Providers: []runtime.Provider{provider},
		History:   history,
		Cache:     cache.NewMemory("test", 0),
	}), provider
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

const bellQASM2 = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzWithoutProviders(t *testing.T) {
	s := New(Deps{Config: config.Defaults()})
	rec := doRequest(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListDevices(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/devices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []deviceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "sim-1", views[0].ID)
	assert.Equal(t, "simulator", views[0].Type)

	// Second call is served from the cache.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/devices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), s.devCache.Stats().Hits)
}

func TestGetDevice(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/devices/sim-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view deviceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "ONLINE", view.Status)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/devices/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateJob(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/jobs", createJobRequest{
		DeviceID: "sim-1",
		Program:  bellQASM2,
		Format:   "qasm2",
		Shots:    100,
		Tags:     map[string]string{"experiment": "bell"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view jobView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "job-1", view.ID)
	assert.Equal(t, "sim-1", view.DeviceID)

	// Recorded in history.
	got, err := s.history.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Shots)
	assert.Equal(t, "bell", got.Tags["experiment"])
}

func TestCreateJobValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/jobs", createJobRequest{
		DeviceID: "sim-1", Program: bellQASM2, Format: "qasm2", Shots: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/jobs", createJobRequest{
		DeviceID: "sim-1", Program: "OPENQASM 2.0; bogus", Format: "qasm2", Shots: 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/jobs", createJobRequest{
		DeviceID: "nope", Program: bellQASM2, Format: "qasm2", Shots: 10,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobLifecycleEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/jobs", createJobRequest{
		DeviceID: "sim-1", Program: bellQASM2, Format: "qasm2", Shots: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/jobs/job-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view jobView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, runtime.StatusQueued.String(), view.Status)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/jobs?status=QUEUED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []jobView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 1)

	rec = doRequest(t, s, http.MethodDelete, "/api/v1/jobs/job-1", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranspileEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/transpile", transpileRequest{
		Program: bellQASM2,
		Source:  "qasm2",
		Target:  "qasm3",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transpileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Program, "OPENQASM 3.0")

	rec = doRequest(t, s, http.MethodPost, "/api/v1/transpile", transpileRequest{
		Program: "not qasm", Source: "qasm2", Target: "qasm3",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/transpile", transpileRequest{
		Program: bellQASM2, Source: "qasm2", Target: "pdf",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorEnvelopeShape(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/devices/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}

func TestServerStartStop(t *testing.T) {
	s, _ := newTestServer(t)
	s.http.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
