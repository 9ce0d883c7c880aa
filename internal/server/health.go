package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// HealthResult is the body of health responses.
type HealthResult struct {
	Status string            `json:"status"` // "ok" or "fail"
	Checks map[string]string `json:"checks"`
}

// LivenessHandler always reports the process as alive.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResult{
			Status: "ok",
			Checks: map[string]string{"process": "ok"},
		})
	}
}

// ReadinessHandler runs every check and answers 503 if any fails.
func ReadinessHandler(checks map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		res := HealthResult{Status: "ok", Checks: map[string]string{}}
		for name, fn := range checks {
			if err := fn(ctx); err != nil {
				res.Checks[name] = "fail: " + err.Error()
				res.Status = "fail"
			} else {
				res.Checks[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if res.Status == "ok" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
