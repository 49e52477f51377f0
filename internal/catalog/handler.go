package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicemed/platform/pkg/logging"
)

// Handler serves the department directory for booking clients.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(cat *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: cat, logger: logger}
}

// Routes mounts the catalog endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/departments", h.ListDepartments)
	r.Get("/departments/{departmentID}", h.GetDepartment)
	r.Get("/departments/{departmentID}/doctors", h.ListDoctors)
	return r
}

// ListDepartments handles GET /catalog/departments.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"departments": h.catalog.Departments(),
	})
}

// GetDepartment handles GET /catalog/departments/{departmentID}.
func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "departmentID")
	dept, ok := h.catalog.FindDepartment(id)
	if !ok {
		http.Error(w, "department not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

// ListDoctors handles GET /catalog/departments/{departmentID}/doctors.
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "departmentID")
	dept, ok := h.catalog.FindDepartment(id)
	if !ok {
		http.Error(w, "department not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"department_id": dept.ID,
		"doctors":       dept.Doctors,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
