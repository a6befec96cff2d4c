package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/query"
	"github.com/runnerr0/stringlab/internal/storage"
)

type createRequest struct {
	Value json.RawMessage `json:"value"`
}

type listResponse struct {
	Data           []storage.Record `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied *query.Filter    `json:"filters_applied,omitempty"`
	Message        string           `json:"message,omitempty"`
}

type interpretedQuery struct {
	Original      string       `json:"original"`
	ParsedFilters query.Filter `json:"parsed_filters"`
	Description   string       `json:"description"`
}

type phraseResponse struct {
	Data             []storage.Record `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery interpretedQuery `json:"interpreted_query"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Count   int    `json:"count"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Hello, World!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, healthResponse{Status: "ok", Version: s.version, Count: n})
}

// decodeValue extracts the "value" field of a create request, telling apart
// a missing field, a non-string field and a malformed body.
func (s *Server) decodeValue(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errors.Wrapf(ErrBodyTooLarge, "limit %d bytes", tooLarge.Limit)
		}
		return "", errors.Wrap(ErrMalformedBody, err.Error())
	}

	var req createRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errors.Wrap(ErrMalformedBody, err.Error())
	}

	raw := bytes.TrimSpace(req.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingValue
	}
	if raw[0] != '"' {
		return "", errors.Wrapf(ErrInvalidType, "got %s", raw)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.Wrap(ErrInvalidType, err.Error())
	}
	return value, nil
}

func (s *Server) handleCreateString(w http.ResponseWriter, r *http.Request) {
	value, err := s.decodeValue(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.Insert(r.Context(), value)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logFor(r).Debugw("String stored", "id", rec.ID, "length", rec.Properties.Length)
	s.respond(w, r, http.StatusCreated, rec)
}

func (s *Server) handleGetString(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("string_value")
	if value == "" {
		s.fail(w, r, ErrMissingValue)
		return
	}

	rec, err := s.store.Get(r.Context(), value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rec)
}

func (s *Server) handleDeleteString(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("string_value")
	if value == "" {
		s.fail(w, r, ErrMissingValue)
		return
	}

	if err := s.store.Delete(r.Context(), value); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListStrings returns every string when no filter constrains the
// listing, and reports a constrained listing with no matches as 404.
func (s *Server) handleListStrings(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseValues(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	records, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if filter.IsEmpty() {
		s.respond(w, r, http.StatusOK, listResponse{
			Data:    records,
			Count:   len(records),
			Message: "All strings returned (no filters applied)",
		})
		return
	}

	matched := filter.Apply(records)
	if len(matched) == 0 {
		s.fail(w, r, errors.Wrapf(query.ErrEmptyResult, "filters %s", filter))
		return
	}

	s.respond(w, r, http.StatusOK, listResponse{
		Data:           matched,
		Count:          len(matched),
		FiltersApplied: &filter,
	})
}

// handlePhraseQuery resolves a phrase from the fixed table. Zero matches
// is a successful, empty response.
func (s *Server) handlePhraseQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("query_prompt")
	if raw == "" {
		raw = q.Get("query")
	}

	phrase, err := query.ResolvePhrase(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	records, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	matched := phrase.Apply(records)
	s.respond(w, r, http.StatusOK, phraseResponse{
		Data:  matched,
		Count: len(matched),
		InterpretedQuery: interpretedQuery{
			Original:      raw,
			ParsedFilters: phrase.Filter,
			Description:   phrase.Description,
		},
	})
}
