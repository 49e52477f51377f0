package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/voicemed/platform/internal/catalog"
	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/pkg/logging"
)

type capturingPublisher struct {
	published []events.BookingConfirmedV1
	err       error
}

func (p *capturingPublisher) PublishBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evt)
	return nil
}

type handlerFixture struct {
	router    http.Handler
	store     *MemorySessionStore
	publisher *capturingPublisher
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	store := NewMemorySessionStore(catalog.Default())
	publisher := &capturingPublisher{}
	h := NewHandler(store, publisher, nil, logging.Default())
	return &handlerFixture{
		router:    h.Routes(),
		store:     store,
		publisher: publisher,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) createSession(t *testing.T) string {
	t.Helper()
	w := f.do(t, "POST", "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating session, got %d: %s", w.Code, w.Body.String())
	}
	var view struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode session view: %v", err)
	}
	if view.SessionID == "" {
		t.Fatal("expected a session id")
	}
	return view.SessionID
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var view map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestCreateSessionStartsAtDepartment(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, "POST", "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	view := decodeView(t, w)
	if view["step"] != "department" {
		t.Errorf("expected step department, got %v", view["step"])
	}
	if view["calendar"] == nil {
		t.Error("expected calendar grid in view")
	}
}

func TestGetSessionUnknown(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, "GET", "/sessions/no-such-session/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSelectDepartmentPersistsAcrossRequests(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)

	w := f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "cardiology"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = f.do(t, "GET", "/sessions/"+id+"/", nil)
	view := decodeView(t, w)
	if view["step"] != "doctor" {
		t.Errorf("expected step doctor after reload, got %v", view["step"])
	}
}

func TestSelectDepartmentUnknownReturns422(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)

	w := f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "podiatry"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var resp struct {
		Operation string `json:"operation"`
		Condition string `json:"condition"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Operation != "select_department" {
		t.Errorf("expected operation select_department, got %q", resp.Operation)
	}
	if resp.Condition == "" {
		t.Error("expected a condition in the error body")
	}

	// Stored session must be untouched.
	w = f.do(t, "GET", "/sessions/"+id+"/", nil)
	if view := decodeView(t, w); view["step"] != "department" {
		t.Errorf("expected session still at department, got %v", view["step"])
	}
}

func TestSelectDateRejectsMalformed(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)
	f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "cardiology"})
	f.do(t, "POST", "/sessions/"+id+"/doctor", map[string]string{"doctor_id": "dr-smith"})

	w := f.do(t, "POST", "/sessions/"+id+"/date", map[string]string{"date": "next tuesday"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for malformed date, got %d", w.Code)
	}
}

func TestSubmitPatientMissingFields(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)
	f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "cardiology"})
	f.do(t, "POST", "/sessions/"+id+"/doctor", map[string]string{"doctor_id": "dr-smith"})
	f.do(t, "POST", "/sessions/"+id+"/date", map[string]string{"date": time.Now().AddDate(0, 0, 1).Format(dateLayout)})
	f.do(t, "POST", "/sessions/"+id+"/time", map[string]string{"time_slot": "09:00 AM"})

	w := f.do(t, "POST", "/sessions/"+id+"/patient", map[string]string{"name": "Ada Lovelace"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		MissingFields []string `json:"missing_fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if len(resp.MissingFields) != 3 {
		t.Errorf("expected age, phone and reason missing, got %v", resp.MissingFields)
	}
}

func TestFullFlowConfirmPublishesAndResets(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)

	date := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	steps := []struct {
		path string
		body any
	}{
		{"/department", map[string]string{"department_id": "neurology"}},
		{"/doctor", map[string]string{"doctor_id": "dr-williams"}},
		{"/date", map[string]string{"date": date}},
		{"/time", map[string]string{"time_slot": "10:00 AM"}},
		{"/patient", map[string]string{
			"name":   "Ada Lovelace",
			"age":    "36",
			"phone":  "+15550100",
			"reason": "recurring headaches",
		}},
	}
	for _, step := range steps {
		w := f.do(t, "POST", "/sessions/"+id+step.path, step.body)
		if w.Code != http.StatusOK {
			t.Fatalf("step %s: expected 200, got %d: %s", step.path, w.Code, w.Body.String())
		}
	}

	w := f.do(t, "POST", "/sessions/"+id+"/confirm", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 confirming, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Booking events.BookingConfirmedV1 `json:"booking"`
		Next    struct {
			Step string `json:"step"`
		} `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode confirm response: %v", err)
	}
	if resp.Booking.DoctorID != "dr-williams" {
		t.Errorf("expected dr-williams on booking, got %q", resp.Booking.DoctorID)
	}
	if resp.Booking.TimeSlot != "10:00 AM" {
		t.Errorf("expected 10:00 AM slot, got %q", resp.Booking.TimeSlot)
	}
	if resp.Next.Step != "department" {
		t.Errorf("expected wizard reset to department, got %q", resp.Next.Step)
	}

	if len(f.publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(f.publisher.published))
	}
	if f.publisher.published[0].SessionID != id {
		t.Errorf("expected event session id %q, got %q", id, f.publisher.published[0].SessionID)
	}

	// The stored session was reset along with the response.
	w = f.do(t, "GET", "/sessions/"+id+"/", nil)
	if view := decodeView(t, w); view["step"] != "department" {
		t.Errorf("expected stored session reset, got %v", view["step"])
	}
}

func TestConfirmBeforeReadyRejected(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)

	w := f.do(t, "POST", "/sessions/"+id+"/confirm", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 confirming at department step, got %d", w.Code)
	}
	if len(f.publisher.published) != 0 {
		t.Errorf("expected no events published, got %d", len(f.publisher.published))
	}
}

func TestConfirmPublishFailureKeepsSession(t *testing.T) {
	f := newHandlerFixture(t)
	f.publisher.err = fmt.Errorf("queue unavailable")
	id := f.createSession(t)

	date := time.Now().AddDate(0, 0, 1).Format(dateLayout)
	f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "cardiology"})
	f.do(t, "POST", "/sessions/"+id+"/doctor", map[string]string{"doctor_id": "dr-smith"})
	f.do(t, "POST", "/sessions/"+id+"/date", map[string]string{"date": date})
	f.do(t, "POST", "/sessions/"+id+"/time", map[string]string{"time_slot": "09:00 AM"})
	f.do(t, "POST", "/sessions/"+id+"/patient", map[string]string{
		"name": "Ada Lovelace", "age": "36", "phone": "+15550100", "reason": "chest pain",
	})

	w := f.do(t, "POST", "/sessions/"+id+"/confirm", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on publish failure, got %d", w.Code)
	}

	// Session still at confirm so the client can retry.
	w = f.do(t, "GET", "/sessions/"+id+"/", nil)
	if view := decodeView(t, w); view["step"] != "confirm" {
		t.Errorf("expected session still at confirm, got %v", view["step"])
	}
}

func TestGoBackAndMonthNavigation(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)
	f.do(t, "POST", "/sessions/"+id+"/department", map[string]string{"department_id": "dermatology"})

	w := f.do(t, "POST", "/sessions/"+id+"/back", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	view := decodeView(t, w)
	if view["step"] != "department" {
		t.Errorf("expected step department after back, got %v", view["step"])
	}
	sel, ok := view["selection"].(map[string]any)
	if !ok || sel["department_id"] != "dermatology" {
		t.Errorf("expected department selection preserved, got %v", view["selection"])
	}

	before := view["month"]
	w = f.do(t, "POST", "/sessions/"+id+"/month", map[string]int{"delta": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if after := decodeView(t, w)["month"]; after == before {
		t.Errorf("expected month cursor to move, still %v", after)
	}
}

func TestDeleteSession(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.createSession(t)

	w := f.do(t, "DELETE", "/sessions/"+id+"/", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = f.do(t, "GET", "/sessions/"+id+"/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
