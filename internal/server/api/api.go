// Package api provides HTTP API handlers for the AR SDK status service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/nvar/internal/nvar"
)

// Loader returns the AR SDK library, loading it on first use.
type Loader func() (*nvar.Library, error)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
