// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// JobDoc is the platform record for a submitted quantum job.
type JobDoc struct {
	QbraidJobID  string            `json:"qbraidJobId"`
	VendorJobID  string            `json:"vendorJobId,omitempty"`
	DeviceID     string            `json:"qbraidDeviceId"`
	Provider     string            `json:"provider,omitempty"`
	VendorStatus string            `json:"status,omitempty"`
	QbraidStatus string            `json:"qbraidStatus,omitempty"`
	Shots        int               `json:"shots"`
	Tags         map[string]string `json:"tags,omitempty"`
	CreatedAt    time.Time         `json:"createdAt,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt,omitempty"`
	Cost         float64           `json:"cost,omitempty"`
}

// CreateJobRequest describes a job submission.
type CreateJobRequest struct {
	DeviceID      string            `json:"qbraidDeviceId"`
	Program       string            `json:"openQasm,omitempty"`
	ProgramFormat string            `json:"programType,omitempty"`
	Shots         int               `json:"shots"`
	NumQubits     int               `json:"circuitNumQubits,omitempty"`
	Depth         int               `json:"circuitDepth,omitempty"`
	Tags          map[string]string `json:"tags,omitempty"`
}

// JobFilter narrows a job listing. Zero-value fields are ignored.
type JobFilter struct {
	DeviceID   string
	Provider   string
	Region     string
	Status     string
	TagKey     string
	TagValues  []string
	MaxResults int
}

// JobResult carries the measurement payload for a finished job.
type JobResult struct {
	QbraidJobID      string          `json:"qbraidJobId"`
	Measurements     json.RawMessage `json:"measurements,omitempty"`
	MeasurementCount map[string]int  `json:"measurementCounts,omitempty"`
	ExecutionSeconds float64         `json:"timeStamps.executionDuration,omitempty"`
}

// CreateJob submits a job to the platform.
func (s *Session) CreateJob(ctx context.Context, req CreateJobRequest) (JobDoc, error) {
	var doc JobDoc
	if err := s.post(ctx, "create_job", "/quantum-jobs", req, &doc); err != nil {
		return JobDoc{}, err
	}
	return doc, nil
}

// GetJob fetches a job record by qBraid job ID.
func (s *Session) GetJob(ctx context.Context, id string) (JobDoc, error) {
	var doc JobDoc
	if err := s.get(ctx, "get_job", "/quantum-jobs/"+url.PathEscape(id), &doc); err != nil {
		return JobDoc{}, err
	}
	return doc, nil
}

// ListJobs queries the caller's job history.
func (s *Session) ListJobs(ctx context.Context, filter JobFilter) ([]JobDoc, error) {
	q := url.Values{}
	if filter.DeviceID != "" {
		q.Set("qbraidDeviceId", filter.DeviceID)
	}
	if filter.Provider != "" {
		q.Set("provider", filter.Provider)
	}
	if filter.Region != "" {
		q.Set("region", filter.Region)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.TagKey != "" {
		q.Set("tag.key", filter.TagKey)
		for _, v := range filter.TagValues {
			q.Add("tag.values", v)
		}
	}
	if filter.MaxResults > 0 {
		q.Set("resultsPerPage", strconv.Itoa(filter.MaxResults))
	}
	path := "/quantum-jobs"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var jobs []JobDoc
	if err := s.get(ctx, "list_jobs", path, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CancelJob requests cancellation of a job. Cancellation of a job that
// already reached a terminal state fails upstream.
func (s *Session) CancelJob(ctx context.Context, id string) error {
	return s.put(ctx, "cancel_job", "/quantum-jobs/cancel/"+url.PathEscape(id), nil, nil)
}

// UpdateJob reconciles the platform record with the vendor-side status.
// The upstream responds with the updated document; bookkeeping fields
// that are not part of the job record (_id, user) are stripped before
// the metadata is returned.
func (s *Session) UpdateJob(ctx context.Context, id, vendorStatus, status string) (map[string]any, error) {
	body := map[string]string{
		"qbraidJobId":  id,
		"status":       vendorStatus,
		"qbraidStatus": status,
	}
	var docs []map[string]any
	if err := s.put(ctx, "update_job", "/update-job", body, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &APIError{Sentinel: ErrBadResponse, Operation: "update_job", Body: "empty update response"}
	}
	meta := docs[0]
	delete(meta, "_id")
	delete(meta, "user")
	return meta, nil
}

// GetResult fetches the result payload for a finished job.
func (s *Session) GetResult(ctx context.Context, id string) (JobResult, error) {
	var res JobResult
	if err := s.get(ctx, "get_result", "/quantum-jobs/result/"+url.PathEscape(id), &res); err != nil {
		return JobResult{}, err
	}
	return res, nil
}
