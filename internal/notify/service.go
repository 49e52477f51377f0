package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicemed/platform/internal/catalog"
	"github.com/voicemed/platform/internal/events"
	"github.com/voicemed/platform/pkg/logging"
)

// Service sends the patient-facing confirmation email after a booking is
// confirmed. Persistence of the booking itself belongs to other consumers of
// the confirmed event.
type Service struct {
	email   EmailSender
	catalog *catalog.Catalog
	logger  *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, cat *catalog.Catalog, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:   email,
		catalog: cat,
		logger:  logger,
	}
}

// NotifyBookingConfirmed emails the patient their appointment summary.
// Patients who left the optional email field empty are skipped.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if strings.TrimSpace(evt.Patient.Email) == "" {
		s.logger.Debug("notify: patient left no email, skipping confirmation", "session_id", evt.SessionID)
		return nil
	}

	msg := EmailMessage{
		To:      evt.Patient.Email,
		ToName:  evt.Patient.Name,
		Subject: "Your appointment is confirmed",
		Body:    s.renderConfirmation(evt),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}

	s.logger.Info("booking confirmation sent",
		"event_id", evt.EventID,
		"session_id", evt.SessionID,
		"doctor_id", evt.DoctorID,
	)
	return nil
}

func (s *Service) renderConfirmation(evt events.BookingConfirmedV1) string {
	departmentName := evt.DepartmentID
	doctorName := evt.DoctorID
	if s.catalog != nil {
		if dept, ok := s.catalog.FindDepartment(evt.DepartmentID); ok {
			departmentName = dept.Name
		}
		if doc, ok := s.catalog.FindDoctor(evt.DepartmentID, evt.DoctorID); ok {
			doctorName = doc.Name
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", evt.Patient.Name)
	b.WriteString("Your appointment has been booked.\n\n")
	fmt.Fprintf(&b, "Department: %s\n", departmentName)
	fmt.Fprintf(&b, "Doctor: %s\n", doctorName)
	fmt.Fprintf(&b, "Date: %s at %s\n", evt.Date.Format("Monday, January 2, 2006"), evt.TimeSlot)
	fmt.Fprintf(&b, "Reason: %s\n\n", evt.Patient.Reason)
	b.WriteString("Please arrive 10 minutes early and bring a photo ID.\n")
	return b.String()
}
