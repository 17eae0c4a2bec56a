package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by the availability index.
var (
	ErrInvalidInterval     = errors.New("interval start must not be after end")
	ErrOutsideWorkingHours = errors.New("interval is outside the worker's working hours")
	ErrConflict            = errors.New("interval conflicts with an existing reservation")
	ErrNotFound            = errors.New("schedule entry not found")
)

// EntryKind distinguishes recurring working-hour blocks from booked slots.
type EntryKind string

const (
	// KindOpen marks a block during which the worker is on duty and bookable.
	KindOpen EntryKind = "open"
	// KindReserved marks a slot already committed to an appointment.
	KindReserved EntryKind = "reserved"
)

// TimeInterval spans a date range and a time-of-day range. Dates carry only
// the calendar day (midnight UTC); times are minutes from midnight. Both
// axes are inclusive on both ends.
type TimeInterval struct {
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	StartMinute int       `db:"start_minute" json:"start_minute"`
	EndMinute   int       `db:"end_minute" json:"end_minute"`
}

// NewInterval builds a validated interval. The date arguments are truncated
// to their calendar day.
func NewInterval(startDate, endDate time.Time, startMinute, endMinute int) (TimeInterval, error) {
	iv := TimeInterval{
		StartDate:   DateOnly(startDate),
		EndDate:     DateOnly(endDate),
		StartMinute: startMinute,
		EndMinute:   endMinute,
	}
	if err := iv.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return iv, nil
}

// At builds a point interval (zero-length on both axes) from a single
// date+time, the shape of an individual appointment request.
func At(ts time.Time) TimeInterval {
	minute := ts.Hour()*60 + ts.Minute()
	return TimeInterval{
		StartDate:   DateOnly(ts),
		EndDate:     DateOnly(ts),
		StartMinute: minute,
		EndMinute:   minute,
	}
}

// DateOnly strips the time-of-day component, keeping the calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks start <= end on both axes and that the minute values fall
// within a single day.
func (iv TimeInterval) Validate() error {
	if iv.StartDate.After(iv.EndDate) {
		return fmt.Errorf("%w: start date %s after end date %s",
			ErrInvalidInterval, iv.StartDate.Format("2006-01-02"), iv.EndDate.Format("2006-01-02"))
	}
	if iv.StartMinute > iv.EndMinute {
		return fmt.Errorf("%w: start minute %d after end minute %d",
			ErrInvalidInterval, iv.StartMinute, iv.EndMinute)
	}
	if iv.StartMinute < 0 || iv.EndMinute >= 24*60 {
		return fmt.Errorf("%w: minutes must fall within a single day", ErrInvalidInterval)
	}
	return nil
}

// Contains reports whether other lies entirely within iv on both axes.
// Bounds are inclusive, so a request touching the edge of a working block
// is still contained.
func (iv TimeInterval) Contains(other TimeInterval) bool {
	if other.StartDate.Before(iv.StartDate) || other.EndDate.After(iv.EndDate) {
		return false
	}
	return iv.StartMinute <= other.StartMinute && other.EndMinute <= iv.EndMinute
}

// Overlaps reports whether the two intervals share at least one date and at
// least one minute. Bounds are inclusive on both axes.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	if iv.EndDate.Before(other.StartDate) || other.EndDate.Before(iv.StartDate) {
		return false
	}
	return iv.StartMinute <= other.EndMinute && other.StartMinute <= iv.EndMinute
}

// Equal reports exact equality on both axes.
func (iv TimeInterval) Equal(other TimeInterval) bool {
	return iv.StartDate.Equal(other.StartDate) &&
		iv.EndDate.Equal(other.EndDate) &&
		iv.StartMinute == other.StartMinute &&
		iv.EndMinute == other.EndMinute
}

// ScheduleEntry is one interval on a worker's schedule, either an open
// working-hour block or a reserved appointment slot. Open and reserved
// entries are distinct sets: reserving a slot never rewrites a working-hour
// block.
type ScheduleEntry struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	WorkerID      uuid.UUID    `db:"worker_id" json:"worker_id"`
	Kind          EntryKind    `db:"kind" json:"kind"`
	Interval      TimeInterval `json:"interval"`
	AppointmentID *uuid.UUID   `db:"appointment_id" json:"appointment_id,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}
