package events

import "time"

// Patient is the contact snapshot carried on booking events.
type Patient struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

// BookingConfirmedV1 is emitted when a wizard session confirms a booking.
// Downstream consumers own persistence and notification; the event carries
// everything they need at the moment of confirmation.
type BookingConfirmedV1 struct {
	EventID      string    `json:"event_id"`
	SessionID    string    `json:"session_id"`
	DepartmentID string    `json:"department_id"`
	DoctorID     string    `json:"doctor_id"`
	Date         time.Time `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Patient      Patient   `json:"patient"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}
