package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/probe"
	"github.com/ayusman/nvar/internal/store"
)

// ProbeHandler handles HTTP requests for probe resources.
type ProbeHandler struct {
	store  *store.Store
	load   Loader
	cfg    detector.Config
	notify func(*probe.Report)
}

// NewProbeHandler creates a new ProbeHandler. notify, if non-nil, receives
// every stored report.
func NewProbeHandler(s *store.Store, load Loader, cfg detector.Config, notify func(*probe.Report)) *ProbeHandler {
	return &ProbeHandler{store: s, load: load, cfg: cfg, notify: notify}
}

type listProbesResponse struct {
	Probes []*probe.Report `json:"probes"`
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ProbeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/probes or /api/probes/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/probes")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.run(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/probes?limit=N.
func (h *ProbeHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	reports, err := h.store.Probes().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list probes")
		return
	}
	if reports == nil {
		reports = []*probe.Report{}
	}

	writeJSON(w, http.StatusOK, listProbesResponse{Probes: reports})
}

// run handles POST /api/probes: probes the SDK and stores the report.
func (h *ProbeHandler) run(w http.ResponseWriter, r *http.Request) {
	lib, err := h.load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	rep, err := probe.New(lib, h.cfg).Run(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Probe interrupted")
		return
	}

	if err := h.store.Probes().Create(rep); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store probe")
		return
	}

	if h.notify != nil {
		h.notify(rep)
	}
	log.Printf("Stored probe %s", rep.ID)

	writeJSON(w, http.StatusCreated, rep)
}

// get handles GET /api/probes/{id}. The id "latest" returns the newest report.
func (h *ProbeHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	var (
		rep *probe.Report
		err error
	)
	if id == "latest" {
		rep, err = h.store.Probes().Latest()
	} else {
		rep, err = h.store.Probes().GetByID(id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Probe not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get probe")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// delete handles DELETE /api/probes/{id}.
func (h *ProbeHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Probes().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Probe not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete probe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
