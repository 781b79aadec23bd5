package api

import (
	"net/http"

	"github.com/ayusman/nvar/internal/nvar"
)

// SDKHandler reports the loaded library.
type SDKHandler struct {
	load Loader
}

// NewSDKHandler creates a new SDKHandler with the given loader.
func NewSDKHandler(load Loader) *SDKHandler {
	return &SDKHandler{load: load}
}

type sdkResponse struct {
	Available   bool     `json:"available"`
	Version     string   `json:"version,omitempty"`
	LibraryPath string   `json:"library_path,omitempty"`
	ModelDir    string   `json:"model_dir,omitempty"`
	Symbols     []string `json:"symbols"`
	Error       string   `json:"error,omitempty"`
}

// ServeHTTP handles GET /api/sdk.
func (h *SDKHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := sdkResponse{Symbols: nvar.Symbols()}

	lib, err := h.load()
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Available = true
	resp.LibraryPath = lib.LibraryPath()
	resp.ModelDir = lib.ModelPath()
	if v, res := lib.Version(); res.OK() {
		resp.Version = v.String()
	}

	writeJSON(w, http.StatusOK, resp)
}
