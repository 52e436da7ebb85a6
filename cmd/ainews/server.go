package main

import (
	"encoding/json"
	"net/http"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
)

// collection is the read side of the article file.
type collection interface {
	Raw() ([]byte, error)
}

func newMux(data collection) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/data.json", dataHandler(data))
	return mux
}

// dataHandler serves the collection as written by the last run. Query
// strings are ignored, so cache-busting parameters always hit the file.
func dataHandler(data collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, err := data.Raw()
		if err != nil {
			logger.Error("failed to read collection", "error", err)
			http.Error(w, "collection unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(body)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if healthy, _ := stats["is_healthy"].(bool); !healthy {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
