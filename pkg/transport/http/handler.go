package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleGetCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.counter.Current(r.Context())
	if err != nil {
		s.logger.Errorf("could not read counter: %v", err)
		http.Error(w, "could not read counter", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "Current POST requests count: %d", count)
}

func (s *Server) handlePostCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.counter.Increment(r.Context())
	if err != nil {
		s.logger.Errorf("could not increment counter: %v", err)
		http.Error(w, "could not increment counter", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "POST requests counter updated. Current count: %d", count)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := s.counter.Check(r.Context()); err != nil {
		s.logger.Errorf("health check failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(healthResponse{Status: "unhealthy", Reason: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(healthResponse{Status: "healthy"})
}
