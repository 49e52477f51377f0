package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/voicemed/platform/internal/calendar"
	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/internal/observability/metrics"
	"github.com/voicemed/platform/pkg/logging"
)

var bookingTracer = otel.Tracer("voicemed.internal.booking")

const dateLayout = "2006-01-02"

// ConfirmationPublisher emits the booking-confirmed event on Confirm.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error
}

// Handler exposes the wizard over HTTP, one session per client.
type Handler struct {
	sessions  SessionStore
	publisher ConfirmationPublisher
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewHandler creates a booking wizard handler.
func NewHandler(sessions SessionStore, publisher ConfirmationPublisher, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if sessions == nil {
		panic("booking: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		sessions:  sessions,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Routes mounts the wizard session endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Post("/department", h.SelectDepartment)
		r.Post("/doctor", h.SelectDoctor)
		r.Post("/date", h.SelectDate)
		r.Post("/time", h.SelectTime)
		r.Post("/patient", h.SubmitPatient)
		r.Post("/back", h.GoBack)
		r.Post("/month", h.NavigateMonth)
		r.Post("/confirm", h.Confirm)
	})
	return r
}

type calendarCell struct {
	Date  string `json:"date,omitempty"`
	Today bool   `json:"today,omitempty"`
	Past  bool   `json:"past,omitempty"`
}

type sessionView struct {
	SessionID string         `json:"session_id"`
	Step      string         `json:"step"`
	Selection Selection      `json:"selection"`
	Month     string         `json:"month"`
	Calendar  []calendarCell `json:"calendar"`
}

func viewOf(id string, w *Wizard) sessionView {
	grid := w.MonthGrid()
	cells := make([]calendarCell, 0, len(grid))
	for _, day := range grid {
		if day.IsZero() {
			cells = append(cells, calendarCell{})
			continue
		}
		cells = append(cells, calendarCell{
			Date:  day.Format(dateLayout),
			Today: calendar.IsToday(day),
			Past:  calendar.IsPastDate(day),
		})
	}
	return sessionView{
		SessionID: id,
		Step:      w.Step().String(),
		Selection: w.Selection(),
		Month:     w.MonthCursor().String(),
		Calendar:  cells,
	}
}

// CreateSession handles POST /bookings/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create booking session", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	wizard, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load new booking session", "error", err, "session_id", id)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	h.logger.Info("booking session created", "session_id", id)
	writeJSON(w, http.StatusCreated, viewOf(id, wizard))
}

// GetSession handles GET /bookings/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	wizard, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, wizard))
}

// SelectDepartment handles POST /bookings/sessions/{sessionID}/department.
func (h *Handler) SelectDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DepartmentID string `json:"department_id"`
	}
	h.transition(w, r, "select_department", &req, func(wizard *Wizard) error {
		return wizard.SelectDepartment(req.DepartmentID)
	})
}

// SelectDoctor handles POST /bookings/sessions/{sessionID}/doctor.
func (h *Handler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DoctorID string `json:"doctor_id"`
	}
	h.transition(w, r, "select_doctor", &req, func(wizard *Wizard) error {
		return wizard.SelectDoctor(req.DoctorID)
	})
}

// SelectDate handles POST /bookings/sessions/{sessionID}/date.
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	h.transition(w, r, "select_date", &req, func(wizard *Wizard) error {
		day, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
		if err != nil {
			return &PreconditionError{Op: "select_date", Condition: "date must be formatted YYYY-MM-DD"}
		}
		return wizard.SelectDate(day)
	})
}

// SelectTime handles POST /bookings/sessions/{sessionID}/time.
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimeSlot string `json:"time_slot"`
	}
	h.transition(w, r, "select_time", &req, func(wizard *Wizard) error {
		return wizard.SelectTime(req.TimeSlot)
	})
}

// SubmitPatient handles POST /bookings/sessions/{sessionID}/patient.
// It stores the form fields and advances to Confirm in one call.
func (h *Handler) SubmitPatient(w http.ResponseWriter, r *http.Request) {
	var req PatientInfo
	h.transition(w, r, "advance_from_patient", &req, func(wizard *Wizard) error {
		if err := wizard.SetPatient(req); err != nil {
			return err
		}
		return wizard.AdvanceFromPatient()
	})
}

// GoBack handles POST /bookings/sessions/{sessionID}/back.
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "go_back", nil, func(wizard *Wizard) error {
		wizard.GoBack()
		return nil
	})
}

// NavigateMonth handles POST /bookings/sessions/{sessionID}/month.
func (h *Handler) NavigateMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	h.transition(w, r, "navigate_month", &req, func(wizard *Wizard) error {
		wizard.NavigateMonth(req.Delta)
		return nil
	})
}

type confirmResponse struct {
	SessionID string                    `json:"session_id"`
	Booking   events.BookingConfirmedV1 `json:"booking"`
	Next      sessionView               `json:"next"`
}

// Confirm handles POST /bookings/sessions/{sessionID}/confirm. On success it
// publishes the booking-confirmed event and returns the reset wizard state.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx, span := bookingTracer.Start(r.Context(), "booking.confirm")
	defer span.End()

	id := chi.URLParam(r, "sessionID")
	span.SetAttributes(attribute.String("voicemed.session_id", id))

	wizard, err := h.sessions.Get(ctx, id)
	if err != nil {
		h.writeLookupError(w, err, id)
		return
	}

	snapshot, err := wizard.Confirm()
	if err != nil {
		h.metrics.ObserveTransition("confirm", true)
		h.writeTransitionError(w, err, id, "confirm")
		return
	}

	evt := events.BookingConfirmedV1{
		SessionID:    id,
		DepartmentID: snapshot.DepartmentID,
		DoctorID:     snapshot.DoctorID,
		Date:         snapshot.Date,
		TimeSlot:     snapshot.TimeSlot,
		Patient: events.Patient{
			Name:   snapshot.Patient.Name,
			Age:    snapshot.Patient.Age,
			Phone:  snapshot.Patient.Phone,
			Email:  snapshot.Patient.Email,
			Reason: snapshot.Patient.Reason,
		},
		ConfirmedAt: time.Now().UTC(),
	}
	if h.publisher != nil {
		if err := h.publisher.PublishBookingConfirmed(ctx, evt); err != nil {
			// The wizard has not been saved yet, so the stored session still
			// holds the unconfirmed state and the client can retry.
			span.RecordError(err)
			h.logger.Error("failed to publish booking confirmation", "error", err, "session_id", id)
			http.Error(w, "failed to confirm booking", http.StatusBadGateway)
			return
		}
	}

	if err := h.sessions.Save(ctx, id, wizard); err != nil {
		span.RecordError(err)
		h.logger.Error("failed to reset booking session", "error", err, "session_id", id)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(
		attribute.String("voicemed.department_id", evt.DepartmentID),
		attribute.String("voicemed.doctor_id", evt.DoctorID),
	)
	h.metrics.ObserveTransition("confirm", false)
	h.metrics.ObserveConfirmed()
	h.logger.Info("booking confirmed",
		"session_id", id,
		"department_id", evt.DepartmentID,
		"doctor_id", evt.DoctorID,
		"time_slot", evt.TimeSlot,
	)

	writeJSON(w, http.StatusOK, confirmResponse{
		SessionID: id,
		Booking:   evt,
		Next:      viewOf(id, wizard),
	})
}

// DeleteSession handles DELETE /bookings/sessions/{sessionID}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete booking session", "error", err, "session_id", id)
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// transition runs one guarded wizard operation: load, apply, save, render.
// Rejected preconditions leave the stored session untouched.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op string, req any, apply func(*Wizard) error) {
	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	id := chi.URLParam(r, "sessionID")
	wizard, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, id)
		return
	}

	if err := apply(wizard); err != nil {
		h.metrics.ObserveTransition(op, true)
		h.writeTransitionError(w, err, id, op)
		return
	}

	if err := h.sessions.Save(r.Context(), id, wizard); err != nil {
		h.logger.Error("failed to save booking session", "error", err, "session_id", id)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveTransition(op, false)
	writeJSON(w, http.StatusOK, viewOf(id, wizard))
}

type transitionError struct {
	Error         string   `json:"error"`
	Operation     string   `json:"operation"`
	Condition     string   `json:"condition"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error, sessionID, op string) {
	var pre *PreconditionError
	if errors.As(err, &pre) {
		h.logger.Info("wizard transition rejected",
			"session_id", sessionID,
			"operation", pre.Op,
			"condition", pre.Condition,
		)
		writeJSON(w, http.StatusUnprocessableEntity, transitionError{
			Error:         "precondition violated",
			Operation:     pre.Op,
			Condition:     pre.Condition,
			MissingFields: pre.MissingFields,
		})
		return
	}

	h.logger.Error("wizard transition failed", "error", err, "session_id", sessionID, "operation", op)
	http.Error(w, "transition failed", http.StatusInternalServerError)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error, sessionID string) {
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.logger.Error("failed to load booking session", "error", err, "session_id", sessionID)
	http.Error(w, "failed to load session", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
