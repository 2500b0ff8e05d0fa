// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/store"
	"github.com/qbraid/qbraid-go/internal/telemetry"
)

const devicesCacheKey = "devices:all"

// deviceView is the gateway's wire representation of a device.
type deviceView struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	Type      string `json:"type"`
	NumQubits int    `json:"numQubits"`
	Format    string `json:"format"`
	Status    string `json:"status,omitempty"`
}

func deviceToView(d runtime.Device) deviceView {
	profile := d.Profile()
	return deviceView{
		ID:        d.ID(),
		Provider:  profile.Provider,
		Type:      string(profile.DeviceType),
		NumQubits: profile.NumQubits,
		Format:    profile.Spec.Format,
	}
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := s.devCache.Get(ctx, devicesCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	views := make([]deviceView, 0)
	for _, provider := range s.providers {
		devices, err := provider.Devices(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		for _, d := range devices {
			views = append(views, deviceToView(d))
		}
	}

	body, err := json.Marshal(views)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.devCache.Set(ctx, devicesCacheKey, body, s.cfg.DeviceTTL.Std())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	device, err := s.findDevice(r, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	view := deviceToView(device)
	if status, err := device.Status(r.Context()); err == nil {
		view.Status = status
	}
	writeJSON(w, http.StatusOK, view)
}

// findDevice asks each provider in turn; the first hit wins.
func (s *Server) findDevice(r *http.Request, id string) (runtime.Device, error) {
	var lastErr error = fmt.Errorf("%w: %s", runtime.ErrDeviceNotFound, id)
	for _, provider := range s.providers {
		device, err := provider.Device(r.Context(), id)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// createJobRequest is the gateway's job submission payload.
type createJobRequest struct {
	DeviceID string            `json:"deviceId"`
	Program  string            `json:"program"`
	Format   string            `json:"format"`
	Shots    int               `json:"shots"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// jobView is the gateway's wire representation of a job.
type jobView struct {
	ID       string            `json:"id"`
	DeviceID string            `json:"deviceId"`
	Provider string            `json:"provider"`
	Status   string            `json:"status"`
	Shots    int               `json:"shots"`
	Tags     map[string]string `json:"tags,omitempty"`
	Created  string            `json:"createdAt,omitempty"`
}

func recordToView(rec store.JobRecord) jobView {
	return jobView{
		ID:       rec.JobID,
		DeviceID: rec.DeviceID,
		Provider: rec.Provider,
		Status:   rec.Status.String(),
		Shots:    rec.Shots,
		Tags:     rec.Tags,
		Created:  rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer("qbraid/gateway").Start(r.Context(), "jobs.create")
	defer span.End()
	r = r.WithContext(ctx)

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.DeviceID == "" || req.Program == "" || req.Format == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "deviceId, program and format are required")
		return
	}
	if req.Shots <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "shots must be positive")
		return
	}

	program, err := s.decodeProgram(req.Program, req.Format)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	device, err := s.findDevice(r, req.DeviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	profile := device.Profile()
	span.SetAttributes(telemetry.DeviceAttributes(device.ID(), profile.Provider, string(profile.DeviceType))...)

	opts := runtime.DefaultOptions()
	if len(req.Tags) > 0 {
		if err := opts.Set(runtime.OptionTags, req.Tags); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}
	job, err := device.Run(r.Context(), program, req.Shots, opts)
	if err != nil {
		span.SetAttributes(telemetry.ErrorAttributes("run_failed")...)
		writeDomainError(w, err)
		return
	}
	span.SetAttributes(telemetry.JobAttributes(job.ID(), runtime.StatusInitializing.String(), req.Shots)...)

	rec := store.JobRecord{
		JobID:    job.ID(),
		DeviceID: device.ID(),
		Provider: profile.Provider,
		Status:   runtime.StatusInitializing,
		Shots:    req.Shots,
		Tags:     req.Tags,
	}
	if s.history != nil {
		if err := s.history.Upsert(r.Context(), rec); err != nil {
			s.logger.Warn().Err(err).Str("job_id", job.ID()).Msg("failed to record job history")
		}
	}
	writeJSON(w, http.StatusCreated, recordToView(rec))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []jobView{})
		return
	}
	filter := store.ListFilter{
		DeviceID: r.URL.Query().Get("deviceId"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := runtime.ParseJobStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		filter.Status = status
	}

	recs, err := s.history.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	views := make([]jobView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, recordToView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, provider, err := s.findJob(r, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	status, err := job.Status(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view := jobView{ID: id, Provider: provider, Status: status.String()}
	if s.history != nil {
		if rec, err := s.history.Get(r.Context(), id); err == nil {
			view = recordToView(rec)
			view.Status = status.String()
			rec.Status = status
			if err := s.history.Upsert(r.Context(), rec); err != nil {
				s.logger.Warn().Err(err).Str("job_id", id).Msg("failed to refresh job history")
			}
		}
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, _, err := s.findJob(r, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := job.Cancel(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": runtime.StatusCancelling.String()})
}

// findJob resolves a job handle from the local history first, falling
// back to the native provider for unknown IDs.
func (s *Server) findJob(r *http.Request, id string) (runtime.Job, string, error) {
	providerName := ""
	if s.history != nil {
		if rec, err := s.history.Get(r.Context(), id); err == nil {
			providerName = rec.Provider
		}
	}
	if providerName != "" {
		if provider, ok := s.providers[providerName]; ok {
			if loader, ok := provider.(runtime.JobLoader); ok {
				job, err := loader.LoadJob(r.Context(), id)
				return job, providerName, err
			}
		}
	}
	for name, provider := range s.providers {
		if loader, ok := provider.(runtime.JobLoader); ok {
			job, err := loader.LoadJob(r.Context(), id)
			if err == nil {
				return job, name, nil
			}
		}
	}
	return nil, "", fmt.Errorf("%w: %s", runtime.ErrJobNotFound, id)
}
