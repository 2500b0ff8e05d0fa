// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/url"
)

// DeviceInfo is the platform catalog record for a quantum device.
type DeviceInfo struct {
	ID            string   `json:"qbraid_id"`
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	Vendor        string   `json:"vendor"`
	Type          string   `json:"type"` // "QPU" or "SIMULATOR"
	Status        string   `json:"status"`
	NumQubits     int      `json:"numberQubits"`
	QueueDepth    int      `json:"pendingJobs"`
	Paradigm      string   `json:"paradigm"`
	RunInputTypes []string `json:"runInputTypes"`
	PricePerTask  float64  `json:"pricePerTask"`
	PricePerShot  float64  `json:"pricePerShot"`
	PricePerMin   float64  `json:"pricePerMinute"`
	DeviceARN     string   `json:"objArg,omitempty"`
}

// Simulator reports whether the device is a classical simulator.
func (d DeviceInfo) Simulator() bool {
	return d.Type == "SIMULATOR"
}

// Online reports whether the device currently accepts jobs.
func (d DeviceInfo) Online() bool {
	return d.Status == "ONLINE"
}

// DeviceFilter narrows a catalog query. Zero-value fields are ignored.
type DeviceFilter struct {
	Provider string
	Vendor   string
	Type     string
	Status   string
}

// ListDevices queries the device catalog.
func (s *Session) ListDevices(ctx context.Context, filter DeviceFilter) ([]DeviceInfo, error) {
	q := url.Values{}
	if filter.Provider != "" {
		q.Set("provider", filter.Provider)
	}
	if filter.Vendor != "" {
		q.Set("vendor", filter.Vendor)
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	path := "/quantum-devices"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var devices []DeviceInfo
	if err := s.get(ctx, "list_devices", path, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDevice fetches a single catalog record by qBraid device ID.
func (s *Session) GetDevice(ctx context.Context, id string) (DeviceInfo, error) {
	var device DeviceInfo
	if err := s.get(ctx, "get_device", "/quantum-devices/"+url.PathEscape(id), &device); err != nil {
		return DeviceInfo{}, err
	}
	return device, nil
}
