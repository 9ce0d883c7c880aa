package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lwch/logging"

	"github.com/born-ml/tokcipher/internal/cipher"
	"github.com/born-ml/tokcipher/internal/engine"
)

type transformRequest struct {
	Text string      `json:"text"`
	Seed *string     `json:"seed"`
	Mode cipher.Mode `json:"mode"`
}

type transformResponse struct {
	Output       string      `json:"output"`
	Seed         string      `json:"seed"`
	Shift        int64       `json:"shift"`
	ShiftKind    string      `json:"shift_kind"`
	Mode         cipher.Mode `json:"mode"`
	InputTokens  []int       `json:"input_tokens"`
	OutputTokens []int       `json:"output_tokens"`
	InputCount   int         `json:"input_count"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req transformRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	var seed string
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = s.seeds.Next()
	}

	res, err := s.engine.Transform(req.Text, seed, req.Mode)
	switch {
	case errors.Is(err, engine.ErrNotReady):
		respondError(w, http.StatusServiceUnavailable, "tokenizer not ready")
		return
	case err != nil:
		logging.Error("transform request %s: %v", requestID(r), err)
		respondError(w, http.StatusInternalServerError, "transform failed")
		return
	}

	shift := cipher.ParseShift(seed)
	respondJSON(w, http.StatusOK, transformResponse{
		Output:       res.Output,
		Seed:         seed,
		Shift:        shift.Value,
		ShiftKind:    shift.Kind.String(),
		Mode:         req.Mode,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		InputCount:   res.InputCount(),
	})
}

func (s *Server) handleSeed(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"seed": s.seeds.Next()})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	ready := s.engine.Check(r.Context()) == nil
	respondJSON(w, http.StatusOK, map[string]any{
		"ready":      ready,
		"tokenizer":  s.engine.TokenizerName(),
		"vocab_size": s.engine.VocabSize(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if payload != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"ok": false, "error": msg})
}
