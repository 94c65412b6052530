package main

import (
	"encoding/json"
	"net/http"

	"github.com/elijahnyp/switcher/state"
	. "github.com/elijahnyp/switcher/util"
)

type endpointLister interface {
	Endpoints() []string
}

// EndpointsResponse is the body of GET /endpoints
type EndpointsResponse struct {
	Endpoints []string `json:"endpoints"`
}

// SwitchHandler accepts the same form a device takes and forwards the state.
// It answers before any device has replied.
func SwitchHandler(notifier StateNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}
		values, ok := r.PostForm[state.Field]
		if !ok || len(values) == 0 {
			http.Error(w, "Missing "+state.Field+" field", http.StatusBadRequest)
			return
		}
		Logger.Debug().Msgf("state %q received from %s", values[0], r.RemoteAddr)
		notifier.Notify(values[0])
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("accepted")) //nolint:errcheck // nothing to do if the client went away
	}
}

// EndpointsHandler lists the configured device endpoints as JSON.
func EndpointsHandler(notifier endpointLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		endpoints := notifier.Endpoints()
		if endpoints == nil {
			endpoints = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(EndpointsResponse{Endpoints: endpoints}); err != nil {
			Logger.Error().Msgf("Error encoding endpoints: %v", err)
		}
	}
}

// HealthHandler answers ok while the listener is up.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck // nothing to do if the client went away
}
