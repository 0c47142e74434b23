package handlers

import (
	"net/http"
)

// Health responds to liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
