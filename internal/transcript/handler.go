package transcript

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicemed/platform/internal/observability/metrics"
	"github.com/voicemed/platform/pkg/logging"
)

// Handler scans voice transcripts for date/time phrases. The extracted
// phrase is advisory only: clients may surface it as a suggestion, but
// booking selections always go through the wizard endpoints.
type Handler struct {
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewHandler creates a transcript handler.
func NewHandler(m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{metrics: m, logger: logger}
}

// Routes mounts the transcript endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/hint", h.ExtractHint)
	return r
}

type hintRequest struct {
	Transcript string `json:"transcript"`
}

type hintResponse struct {
	Phrase string `json:"phrase"`
}

// ExtractHint handles POST /transcript/hint. It returns the first
// date/time phrase found in the transcript, or 204 when none matches.
func (h *Handler) ExtractHint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	phrase, ok := ExtractDateTimePhrase(req.Transcript)
	h.metrics.ObserveHint(ok)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.logger.Info("transcript hint extracted", "phrase", phrase)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(hintResponse{Phrase: phrase})
}
