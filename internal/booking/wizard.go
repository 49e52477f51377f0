// Package booking implements the multi-step appointment wizard as an
// explicit state machine. All mutation happens through guarded transitions;
// a transition either fully applies and advances the step, or rejects with a
// PreconditionError and leaves state untouched. The wizard itself performs
// no I/O — Confirm returns an event snapshot for the caller to publish.
package booking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/voicemed/platform/internal/calendar"
	"github.com/voicemed/platform/internal/catalog"
)

// Step is one stage of the booking flow, in fixed linear order.
type Step int

const (
	StepDepartment Step = iota
	StepDoctor
	StepDate
	StepTime
	StepPatient
	StepConfirm
)

var stepNames = [...]string{"department", "doctor", "date", "time", "patient", "confirm"}

func (s Step) String() string {
	if s < StepDepartment || s > StepConfirm {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep converts a step name back to its Step value.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return StepDepartment, fmt.Errorf("booking: unknown step %q", name)
}

// MarshalJSON encodes the step by name so stored sessions stay readable.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStep(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PatientInfo carries the patient form fields. Email is the only optional
// field.
type PatientInfo struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

// MissingRequired lists the required fields that are still empty.
func (p PatientInfo) MissingRequired() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"age", p.Age},
		{"phone", p.Phone},
		{"reason", p.Reason},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Selection is the wizard's accumulated state for one in-progress booking.
// Zero values mean "not selected yet".
type Selection struct {
	DepartmentID string      `json:"department_id,omitempty"`
	DoctorID     string      `json:"doctor_id,omitempty"`
	Date         time.Time   `json:"date,omitempty"`
	TimeSlot     string      `json:"time_slot,omitempty"`
	Patient      PatientInfo `json:"patient"`
}

// State is a serializable snapshot of a wizard, used by session stores to
// persist and rehydrate in-progress bookings.
type State struct {
	Step      Step               `json:"step"`
	Selection Selection          `json:"selection"`
	Month     calendar.YearMonth `json:"month"`
}

// Confirmation is the snapshot emitted when a booking is confirmed.
type Confirmation struct {
	DepartmentID string
	DoctorID     string
	Date         time.Time
	TimeSlot     string
	Patient      PatientInfo
}

// Wizard drives one booking attempt. Instances are not safe for concurrent
// use; each belongs to a single session and callers that share one must
// serialize access (the session stores do).
type Wizard struct {
	catalog *catalog.Catalog
	step    Step
	sel     Selection
	month   calendar.YearMonth
}

// New creates a wizard at the Department step with an empty selection. The
// month cursor starts at the current month.
func New(cat *catalog.Catalog) *Wizard {
	return &Wizard{
		catalog: cat,
		step:    StepDepartment,
		month:   calendar.Current(),
	}
}

// Restore rebuilds a wizard from a previously captured State.
func Restore(cat *catalog.Catalog, st State) *Wizard {
	return &Wizard{
		catalog: cat,
		step:    st.Step,
		sel:     st.Selection,
		month:   st.Month,
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Selection returns a copy of the accumulated selection.
func (w *Wizard) Selection() Selection {
	return w.sel
}

// MonthCursor returns the month currently shown in the calendar.
func (w *Wizard) MonthCursor() calendar.YearMonth {
	return w.month
}

// MonthGrid returns the calendar cells for the visible month.
func (w *Wizard) MonthGrid() []time.Time {
	return calendar.MonthDays(w.month)
}

// State captures the wizard for persistence.
func (w *Wizard) State() State {
	return State{Step: w.step, Selection: w.sel, Month: w.month}
}

// SelectDepartment picks a department and advances to the Doctor step.
// Any previously selected doctor, date, and time are cleared.
func (w *Wizard) SelectDepartment(id string) error {
	const op = "select_department"
	if w.step != StepDepartment {
		return reject(op, "not at department step")
	}
	if _, ok := w.catalog.FindDepartment(id); !ok {
		return reject(op, "department not found")
	}
	w.sel.DepartmentID = id
	w.clearDownstreamOf(StepDepartment)
	w.step = StepDoctor
	return nil
}

// SelectDoctor picks a doctor within the selected department and advances to
// the Date step. Any previously selected date and time are cleared.
func (w *Wizard) SelectDoctor(id string) error {
	const op = "select_doctor"
	if w.step != StepDoctor {
		return reject(op, "not at doctor step")
	}
	if _, ok := w.catalog.FindDoctor(w.sel.DepartmentID, id); !ok {
		return reject(op, "doctor not in selected department")
	}
	w.sel.DoctorID = id
	w.clearDownstreamOf(StepDoctor)
	w.step = StepDate
	return nil
}

// SelectDate picks an appointment date and advances to the Time step.
// Past dates are rejected.
func (w *Wizard) SelectDate(date time.Time) error {
	const op = "select_date"
	if w.step != StepDate {
		return reject(op, "not at date step")
	}
	if date.IsZero() {
		return reject(op, "date is required")
	}
	if calendar.IsPastDate(date) {
		return reject(op, "date is in the past")
	}
	w.sel.Date = date
	w.step = StepTime
	return nil
}

// SelectTime picks one of the selected doctor's slot labels and advances to
// the Patient step.
func (w *Wizard) SelectTime(label string) error {
	const op = "select_time"
	if w.step != StepTime {
		return reject(op, "not at time step")
	}
	doctor, ok := w.catalog.FindDoctor(w.sel.DepartmentID, w.sel.DoctorID)
	if !ok || !doctor.HasSlot(label) {
		return reject(op, "time slot not available for selected doctor")
	}
	w.sel.TimeSlot = label
	w.step = StepPatient
	return nil
}

// SetPatient stores the patient form fields. Validation happens on
// AdvanceFromPatient so partially filled forms can be saved.
func (w *Wizard) SetPatient(info PatientInfo) error {
	const op = "set_patient"
	if w.step != StepPatient {
		return reject(op, "not at patient step")
	}
	w.sel.Patient = info
	return nil
}

// AdvanceFromPatient moves to the Confirm step once all required patient
// fields are present. The rejection lists which fields are missing.
func (w *Wizard) AdvanceFromPatient() error {
	const op = "advance_from_patient"
	if w.step != StepPatient {
		return reject(op, "not at patient step")
	}
	if missing := w.sel.Patient.MissingRequired(); len(missing) > 0 {
		return &PreconditionError{Op: op, Condition: "required patient fields missing", MissingFields: missing}
	}
	w.step = StepConfirm
	return nil
}

// GoBack moves to the preceding step without clearing any selection, so
// navigating back and forward restores prior choices. No-op at Department.
func (w *Wizard) GoBack() {
	if w.step > StepDepartment {
		w.step--
	}
}

// NavigateMonth shifts the visible month cursor by delta months. The current
// step and selection are unaffected.
func (w *Wizard) NavigateMonth(delta int) {
	w.month = w.month.Add(delta)
}

// Confirm finalizes the booking. It returns a snapshot of the selection for
// the caller to publish, then resets the wizard to the Department step with
// an empty selection.
func (w *Wizard) Confirm() (Confirmation, error) {
	const op = "confirm"
	if w.step != StepConfirm {
		return Confirmation{}, reject(op, "not at confirm step")
	}
	if w.sel.DepartmentID == "" || w.sel.DoctorID == "" || w.sel.Date.IsZero() || w.sel.TimeSlot == "" {
		return Confirmation{}, reject(op, "selection incomplete")
	}
	if missing := w.sel.Patient.MissingRequired(); len(missing) > 0 {
		return Confirmation{}, &PreconditionError{Op: op, Condition: "required patient fields missing", MissingFields: missing}
	}

	snapshot := Confirmation{
		DepartmentID: w.sel.DepartmentID,
		DoctorID:     w.sel.DoctorID,
		Date:         w.sel.Date,
		TimeSlot:     w.sel.TimeSlot,
		Patient:      w.sel.Patient,
	}

	w.sel = Selection{}
	w.step = StepDepartment
	w.month = calendar.Current()

	return snapshot, nil
}

// clearDownstreamOf enforces the cascade invariant: changing an upstream
// selection invalidates everything that depends on it. Called by every
// upstream setter rather than duplicated per call site.
func (w *Wizard) clearDownstreamOf(step Step) {
	if step <= StepDepartment {
		w.sel.DoctorID = ""
	}
	if step <= StepDoctor {
		w.sel.Date = time.Time{}
		w.sel.TimeSlot = ""
	}
}
