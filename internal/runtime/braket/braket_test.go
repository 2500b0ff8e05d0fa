// SPDX-License-Identifier: MIT

package braket

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/config"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/runtime"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Defaults()
	cfg.APIURL = srv.URL
	cfg.APIKey = "test-key"
	cfg.S3Folder = "tasks"
	session := api.NewSession(cfg,
		api.WithHTTPClient(srv.Client()),
		api.WithRateLimit(1000, 1000),
		api.WithMaxRetries(0),
	)
	return NewProvider(session, cfg)
}

func sv1Info() api.DeviceInfo {
	return api.DeviceInfo{
		ID:            "aws_sv1",
		Name:          "SV1",
		Provider:      "AWS",
		Vendor:        "AWS",
		Type:          "SIMULATOR",
		Status:        "ONLINE",
		NumQubits:     34,
		RunInputTypes: []string{"qasm3"},
		PricePerMin:   0.075,
		DeviceARN:     "arn:aws:braket:::device/quantum-simulator/amazon/sv1",
	}
}

func qpuInfo() api.DeviceInfo {
	return api.DeviceInfo{
		ID:            "aws_ionq_aria",
		Name:          "Aria 1",
		Provider:      "IonQ",
		Vendor:        "AWS",
		Type:          "QPU",
		Status:        "ONLINE",
		NumQubits:     25,
		RunInputTypes: []string{"qasm3"},
		PricePerShot:  0.03,
		DeviceARN:     "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1",
	}
}

func twoQubitProgram(t *testing.T) *programs.Program {
	t.Helper()
	p := &programs.Program{
		Format:    "qasm3",
		NumQubits: 2,
		Instructions: []programs.Instruction{
			{Gate: programs.GateH, Qubits: []int{0}},
			{Gate: programs.GateCX, Qubits: []int{0, 1}},
		},
	}
	require.NoError(t, p.Validate())
	return p
}

func TestDevicesSkipWithoutOpenQASM(t *testing.T) {
	annealer := api.DeviceInfo{
		ID:            "aws_dwave",
		Vendor:        "AWS",
		Type:          "QPU",
		Status:        "ONLINE",
		RunInputTypes: []string{"annealing"},
	}
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.DeviceInfo{sv1Info(), annealer})
	}))

	devices, err := p.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "aws_sv1", devices[0].ID())
}

func TestDeviceRejectsWithoutOpenQASM(t *testing.T) {
	info := qpuInfo()
	info.RunInputTypes = []string{"blackbird"}
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(info)
	}))

	_, err := p.Device(context.Background(), info.ID)
	assert.ErrorIs(t, err, ErrNoOpenQASMSupport)
}

func TestEstimateCostSimulator(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sv1Info())
	}))
	device, err := p.Device(context.Background(), "aws_sv1")
	require.NoError(t, err)

	prog := twoQubitProgram(t)
	cost, err := device.EstimateCost(context.Background(), prog, 2000)
	require.NoError(t, err)
	want := 0.075*2 + math.Exp(2.0)
	assert.InDelta(t, want, cost, 1e-9)
}

func TestEstimateCostQPU(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(qpuInfo())
	}))
	device, err := p.Device(context.Background(), "aws_ionq_aria")
	require.NoError(t, err)

	cost, err := device.EstimateCost(context.Background(), twoQubitProgram(t), 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.03*100+0.3, cost, 1e-9)
}

func TestVendorStatusMap(t *testing.T) {
	tests := map[string]runtime.JobStatus{
		"CREATED":    runtime.StatusInitializing,
		"QUEUED":     runtime.StatusQueued,
		"RUNNING":    runtime.StatusRunning,
		"CANCELLING": runtime.StatusCancelling,
		"CANCELLED":  runtime.StatusCancelled,
		"COMPLETED":  runtime.StatusCompleted,
		"FAILED":     runtime.StatusFailed,
		"DEPRECATED": runtime.StatusUnknown,
	}
	for vendor, want := range tests {
		assert.Equal(t, want, vendorStatuses.Normalize(vendor), vendor)
	}
}

// fakeStore serves canned result documents in place of S3.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    []string
}

func (s *fakeStore) Fetch(_ context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = append(s.gets, bucket+"/"+key)
	data, ok := s.objects[key]
	if !ok {
		return nil, api.ErrNotFound
	}
	return data, nil
}

func TestJobResultFromObjectStore(t *testing.T) {
	resultDoc := `{
		"measurements": [[0,0],[1,1],[1,1],[0,0]],
		"taskMetadata": {"shots": 4}
	}`
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/update-job" {
			_, _ = w.Write([]byte(`[{"qbraidJobId":"job-1"}]`))
			return
		}
		_ = json.NewEncoder(w).Encode(api.JobDoc{
			QbraidJobID:  "job-1",
			VendorStatus: "COMPLETED",
		})
	}))
	store := &fakeStore{objects: map[string][]byte{
		"tasks/task-abc/results.json": []byte(resultDoc),
	}}
	p.store = store

	job := NewJob("job-1", "arn:aws:braket:us-east-1:123:quantum-task/task-abc", p)
	res, err := job.Result(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Shots)
	assert.Equal(t, map[string]int{"00": 2, "11": 2}, res.Counts)
	require.Len(t, store.gets, 1)
	assert.True(t, strings.HasSuffix(store.gets[0], "tasks/task-abc/results.json"))
}

func TestParseTaskResultProbabilities(t *testing.T) {
	raw := []byte(`{
		"measurementProbabilities": {"00": 0.5, "11": 0.5},
		"taskMetadata": {"shots": 100}
	}`)
	res, err := parseTaskResult("job-2", raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"00": 50, "11": 50}, res.Counts)

	_, err = parseTaskResult("job-3", []byte(`{}`))
	assert.ErrorIs(t, err, runtime.ErrResultUnavailable)
}

func TestTasksByTagQueriesAllRegions(t *testing.T) {
	var (
		mu      sync.Mutex
		regions []string
	)
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		regions = append(regions, r.URL.Query().Get("region"))
		mu.Unlock()
		assert.Equal(t, "experiment", r.URL.Query().Get("tag.key"))
		_ = json.NewEncoder(w).Encode([]api.JobDoc{})
	}))

	_, err := p.TasksByTag(context.Background(), "experiment", []string{"bell"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, Regions, regions)
}
