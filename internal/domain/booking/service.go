package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/domain/availability"
	"github.com/frontdesk/frontdesk/internal/domain/medrecord"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/roster"
)

// DefaultMaxCandidates bounds how many staff members one booking attempt
// scans, so a request cannot walk an arbitrarily long roster under
// contention.
const DefaultMaxCandidates = 32

// Service is the booking coordinator: it routes complaints to a department,
// finds the first available worker there, reserves the slot atomically and
// records the appointment.
type Service struct {
	appointments  Repository
	patients      *patient.Service
	roster        *roster.Service
	avail         *availability.Service
	records       *medrecord.Service
	maxCandidates int
	log           zerolog.Logger

	mu          sync.Mutex
	cancelLocks map[uuid.UUID]*sync.Mutex
}

func NewService(appointments Repository, patients *patient.Service, ros *roster.Service,
	avail *availability.Service, records *medrecord.Service, log zerolog.Logger) *Service {
	return &Service{
		appointments:  appointments,
		patients:      patients,
		roster:        ros,
		avail:         avail,
		records:       records,
		maxCandidates: DefaultMaxCandidates,
		log:           log.With().Str("component", "booking").Logger(),
		cancelLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockCancel serializes cancellation of one appointment so concurrent
// cancels resolve deterministically: one succeeds, the rest observe
// ErrAlreadyCancelled.
func (s *Service) lockCancel(appointmentID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.cancelLocks[appointmentID]
	if !ok {
		l = &sync.Mutex{}
		s.cancelLocks[appointmentID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// SetMaxCandidates overrides the staff scan bound. Values below one are
// ignored.
func (s *Service) SetMaxCandidates(n int) {
	if n >= 1 {
		s.maxCandidates = n
	}
}

// Schedule books an appointment for the patient at the requested interval.
// Complaints are routed to a department and its staff is scanned in
// registration order; the first worker whose schedule admits the interval
// gets the reservation. The reserve is atomic per worker, and any failure
// after it rolls the reservation back, so no half-booked state survives.
func (s *Service) Schedule(ctx context.Context, patientID uuid.UUID, complaints []string, iv availability.TimeInterval) (*Appointment, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(complaints) == 0 {
		complaints = p.Complaints
	} else if err := s.patients.SetComplaints(ctx, patientID, complaints); err != nil {
		return nil, fmt.Errorf("record complaints: %w", err)
	}

	dept, err := s.roster.Route(ctx, complaints)
	if err != nil {
		return nil, err
	}

	staff, err := s.roster.StaffOf(ctx, dept.ID)
	if err != nil {
		return nil, fmt.Errorf("load staff of %s: %w", dept.Name, err)
	}
	if len(staff) > s.maxCandidates {
		staff = staff[:s.maxCandidates]
	}

	apptID := uuid.New()
	for _, w := range staff {
		_, err := s.avail.Reserve(ctx, w.ID, iv, apptID)
		if errors.Is(err, availability.ErrConflict) || errors.Is(err, availability.ErrOutsideWorkingHours) {
			continue
		}
		if err != nil {
			return nil, err
		}

		appt, err := s.finishBooking(ctx, apptID, p.ID, w.ID, dept.ID, iv)
		if err != nil {
			if relErr := s.avail.Release(ctx, w.ID, iv); relErr != nil {
				s.log.Error().Err(relErr).Stringer("worker_id", w.ID).
					Msg("failed to roll back reservation after booking error")
			}
			return nil, err
		}

		s.log.Info().
			Stringer("appointment_id", appt.ID).
			Stringer("patient_id", p.ID).
			Stringer("worker_id", w.ID).
			Str("department", dept.Name).
			Msg("appointment booked")
		return appt, nil
	}

	return nil, ErrNoAvailability
}

// finishBooking runs the post-reservation steps: lazy card creation and the
// appointment record itself.
func (s *Service) finishBooking(ctx context.Context, apptID, patientID, workerID, deptID uuid.UUID, iv availability.TimeInterval) (*Appointment, error) {
	card, err := s.records.EnsureCard(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("ensure medical card: %w", err)
	}

	appt := &Appointment{
		ID:           apptID,
		PatientID:    patientID,
		WorkerID:     workerID,
		DepartmentID: deptID,
		CardID:       card.ID,
		Interval:     iv,
		Status:       StatusBooked,
		CreatedAt:    time.Now(),
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("record appointment: %w", err)
	}
	return appt, nil
}

// Cancel releases the reserved slot and retires the appointment. Only the
// owning patient may cancel; cancelling twice is ErrAlreadyCancelled.
func (s *Service) Cancel(ctx context.Context, appointmentID, patientID uuid.UUID) error {
	unlock := s.lockCancel(appointmentID)
	defer unlock()

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return ErrNotOwner
	}
	if appt.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}

	// Release first so the round-trip guarantee (schedule then cancel
	// restores the index) holds even if retiring the record fails below.
	if err := s.avail.Release(ctx, appt.WorkerID, appt.Interval); err != nil &&
		!errors.Is(err, availability.ErrNotFound) {
		return fmt.Errorf("release reservation: %w", err)
	}

	now := time.Now()
	if err := s.appointments.SetStatus(ctx, appointmentID, StatusCancelled, &now); err != nil {
		return fmt.Errorf("retire appointment: %w", err)
	}

	s.log.Info().
		Stringer("appointment_id", appointmentID).
		Stringer("patient_id", patientID).
		Msg("appointment cancelled")
	return nil
}

// Get returns one appointment by ID.
func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, appointmentID)
}

// AppointmentsOf lists a patient's appointments, oldest first, cancelled
// ones included.
func (s *Service) AppointmentsOf(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.appointments.ListByPatient(ctx, patientID)
}

// ReceptionLog lists currently booked appointments.
func (s *Service) ReceptionLog(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListBooked(ctx, limit, offset)
}
