// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qbraid/qbraid-go/internal/api"
	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/qasm"
	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/store"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var parseErr *qasm.ParseError
	if errors.As(err, &parseErr) {
		writeError(w, http.StatusBadRequest, "parse_error", parseErr.Error())
		return
	}

	switch {
	case errors.Is(err, runtime.ErrDeviceNotFound),
		errors.Is(err, runtime.ErrJobNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, api.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, runtime.ErrDeviceOffline):
		writeError(w, http.StatusConflict, "device_offline", err.Error())
	case errors.Is(err, runtime.ErrJobTerminal):
		writeError(w, http.StatusConflict, "job_terminal", err.Error())
	case errors.Is(err, runtime.ErrResultUnavailable):
		writeError(w, http.StatusConflict, "result_unavailable", err.Error())
	case errors.Is(err, programs.ErrInvalidProgram),
		errors.Is(err, programs.ErrUnboundParam),
		errors.Is(err, programs.ErrUnsupportedFormat),
		errors.Is(err, transpiler.ErrNoConversionPath):
		writeError(w, http.StatusBadRequest, "invalid_program", err.Error())
	case errors.Is(err, api.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "upstream_unauthorized", err.Error())
	case errors.Is(err, api.ErrCircuitOpen),
		errors.Is(err, api.ErrUpstreamUnavailable),
		errors.Is(err, api.ErrUpstreamError),
		errors.Is(err, api.ErrTimeout):
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
