// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/qbraid/qbraid-go/internal/programs"
	"github.com/qbraid/qbraid-go/internal/telemetry"
	"github.com/qbraid/qbraid-go/internal/transpiler"
)

// transpileRequest asks for a program conversion between formats.
type transpileRequest struct {
	Program string `json:"program"`
	Source  string `json:"source"`
	Target  string `json:"target"`
}

// transpileResponse carries the converted program.
type transpileResponse struct {
	Program string `json:"program"`
	Source  string `json:"source"`
	Target  string `json:"target"`
}

func (s *Server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	var req transpileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Program == "" || req.Source == "" || req.Target == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "program, source and target are required")
		return
	}
	if !programs.IsSupported(req.Source) || !programs.IsSupported(req.Target) {
		writeError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("supported formats: %v", programs.Supported()))
		return
	}

	ctx, span := telemetry.Tracer("qbraid/gateway").Start(r.Context(), "transpile")
	defer span.End()
	pathStr := ""
	if path, err := s.graph.Path(req.Source, req.Target); err == nil {
		pathStr = transpiler.PathString(path)
	}
	span.SetAttributes(telemetry.ConversionAttributes(req.Source, req.Target, pathStr)...)

	out, err := s.graph.Convert(ctx, []byte(req.Program), req.Source, req.Target)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transpileResponse{
		Program: string(out),
		Source:  req.Source,
		Target:  req.Target,
	})
}

// decodeProgram parses an inbound program string in the given format.
func (s *Server) decodeProgram(src, format string) (*programs.Program, error) {
	p, err := programs.Decode(format, []byte(src))
	if err != nil {
		return nil, err
	}
	return p, nil
}
