package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mjpearson/pagedfile/core/pagedfile"
	"github.com/mjpearson/pagedfile/internal/logging"
	"github.com/mjpearson/pagedfile/internal/verifysvc"
)

// ServeCmd starts an HTTP server exposing asynchronous verification jobs:
// POST /jobs to start one, GET /jobs/{id} to poll it, and a WebSocket at
// /jobs/{id}/ws for live progress.
type ServeCmd struct {
	Addr           string   `help:"Address to listen on." default:":8080"`
	AllowedOrigins []string `help:"WebSocket origins to accept; \"*\" allows any." default:"*"`
}

func (c *ServeCmd) Run(out *outputMode) error {
	store := verifysvc.NewJobStore()
	hub := verifysvc.NewHub(c.AllowedOrigins)

	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		handleCreateJob(w, r, store, hub)
	})
	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		handleJobRoutes(w, r, store, hub)
	})

	logging.Info("verifysvc_server_starting", "addr", c.Addr)
	return http.ListenAndServe(c.Addr, withRequestID(mux))
}

// withRequestID tags every request with a request ID, attaches it to the
// request's context, and logs the request's start and completion against
// it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequestID(r.Context(), uuid.New().String())
		logging.InfoContext(ctx, "request_started", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.InfoContext(ctx, "request_completed", "method", r.Method, "path", r.URL.Path)
	})
}

type createJobRequest struct {
	Path   string `json:"path"`
	Policy string `json:"policy"`
}

func handleCreateJob(w http.ResponseWriter, r *http.Request, store *verifysvc.JobStore, hub *verifysvc.Hub) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST is allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	policy := pagedfile.PolicyAll
	if req.Policy != "" {
		parsed, err := pagedfile.ParsePolicy(req.Policy)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		policy = parsed
	}

	job := store.Create(req.Path, policy, hub)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(job)
}

func handleJobRoutes(w http.ResponseWriter, r *http.Request, store *verifysvc.JobStore, hub *verifysvc.Hub) {
	id, isWS := splitJobPath(r.URL.Path)
	if isWS {
		if err := hub.Serve(w, r, id); err != nil {
			logging.Error("verifysvc_websocket_upgrade_failed", "error", err.Error())
		}
		return
	}

	job, ok := store.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// splitJobPath extracts a job ID from "/jobs/{id}" or "/jobs/{id}/ws".
func splitJobPath(path string) (id string, isWS bool) {
	const prefix = "/jobs/"
	if len(path) <= len(prefix) {
		return "", false
	}
	rest := path[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			return rest[:i], rest[i:] == "/ws"
		}
	}
	return rest, false
}
