package api

import (
	"net/http"

	"github.com/ayusman/nvar/internal/nvar"
)

type featuresResponse struct {
	Features   []nvar.Feature              `json:"features"`
	Parameters map[string][]nvar.Parameter `json:"parameters"`
}

// FeaturesHandler serves the feature identifiers and parameter keys.
func FeaturesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, featuresResponse{
		Features: nvar.Features(),
		Parameters: map[string][]nvar.Parameter{
			"config": nvar.ConfigKeys(),
			"input":  nvar.InputKeys(),
			"output": nvar.OutputKeys(),
		},
	})
}
