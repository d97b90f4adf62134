// internal/app/features/views/handler.go
package views

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
)

// VersionSource reports how often a view path has been invalidated.
type VersionSource interface {
	Version(path string) uint64
}

type Handler struct {
	versions VersionSource
}

func NewHandler(src VersionSource) *Handler {
	return &Handler{versions: src}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/version", h.ServeVersion)
	return r
}

type versionResponse struct {
	Path    string `json:"path"`
	Version uint64 `json:"version"`
}

// ServeVersion handles GET /views/version?path=/dashboard/areas.
// Clients poll it and refetch when the number changes.
func (h *Handler) ServeVersion(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		envelope.Fail(w, http.StatusBadRequest, envelope.KindValidation, "path must be an absolute view path")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	envelope.OK(w, http.StatusOK, versionResponse{Path: path, Version: h.versions.Version(path)})
}
