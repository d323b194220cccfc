package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/debatelab/argdown-feedback-sub001/internal/dispatch"
	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"
)

// maxBodyBytes caps verification request bodies.
const maxBodyBytes = 4 << 20

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "verifierName")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errs.NewVerificationError(name, fmt.Errorf("decoding request body: %w", err)))
		return
	}

	resp, err := s.svc.VerifyAsync(r.Context(), name, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVerifiers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Listing())
}

func (s *Server) handleVerifierInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.VerifierInfo(chi.URLParam(r, "verifierName"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: s.version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error(err, "encoding response")
	}
}

// writeError maps an error onto its HTTP status and envelope form.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, errs.StatusFor(err), errs.ToEnvelope(err))
}
