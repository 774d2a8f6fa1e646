// Package server exposes the residue tools over HTTP for agent frameworks.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	goresidue "github.com/njchilds90/goresidue"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// RequestIDHeader carries the id that also tags the request's log records.
const RequestIDHeader = "X-Request-ID"

// New returns the HTTP handler. A nil analyzer uses the defaults.
func New(an *goresidue.Analyzer, log *slog.Logger) http.Handler {
	if an == nil {
		an = &goresidue.Analyzer{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		l := log.With("request_id", id)

		defer func() {
			if rec := recover(); rec != nil {
				l.Error("tool.panic", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req goresidue.ToolRequest
		if err := dec.Decode(&req); err != nil {
			l.Info("tool.bad_request", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		tl := *an
		tl.Logger = l
		resp := tl.HandleToolCall(r.Context(), req)
		l.Info("tool.done", "tool", req.Tool, "error", resp.Error, "duration", time.Since(start))
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, goresidue.MCPToolSpec())
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
