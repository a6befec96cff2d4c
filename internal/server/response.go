package server

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// respond writes data and logs encoding failures; the status line is
// already sent by then so nothing else can be reported to the client.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data); err != nil {
		s.logFor(r).Warnw("Failed to write response", "error", err)
	}
}

// fail renders err as a JSON error body. Internal errors are logged with
// full detail and reported to the client generically.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	log := s.logFor(r)
	if e.status >= http.StatusInternalServerError {
		log.Errorw("Request failed", "path", r.URL.Path, "error", err)
	} else {
		log.Debugw("Request rejected", "path", r.URL.Path, "kind", e.kind, "error", err)
	}

	resp := errorResponse{Error: e.kind, Message: e.message}
	if e != internalError {
		resp.Hint = errors.FlattenHints(err)
	}
	s.respond(w, r, e.status, resp)
}

func (s *Server) logFor(r *http.Request) *zap.SugaredLogger {
	if id := requestIDFrom(r.Context()); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}
