package appointments

import (
	"time"

	"github.com/google/uuid"
)

// DefaultOccurrences is how many calendar weeks a recurring booking spans,
// base week included.
const DefaultOccurrences = 12

// Series is the outcome of a recurrence expansion. SkippedDates lists the
// weeks that were silently dropped because the slot was already taken; the
// series never substitutes another date or extends past the requested
// number of weeks.
type Series struct {
	Appointments []Appointment
	SkippedDates []string
}

// ExpandWeekly produces the base appointment followed by up to
// occurrences-1 weekly repeats. Each repeat advances exactly 7 days from
// the previously computed date, conflicts are checked against existing
// only (not against siblings generated in this same expansion), and
// conflicting weeks are skipped rather than rescheduled.
//
// Repeats copy patient, times, modality and value from the base but start
// clean: fresh id, empty notes, scheduled status, unpaid, no clinical
// record. The whole series, base included, shares one newly generated
// recurrence id.
func ExpandWeekly(base Appointment, occurrences int, existing []Appointment) (Series, error) {
	if occurrences <= 0 {
		occurrences = DefaultOccurrences
	}

	current, err := time.Parse("2006-01-02", base.Date)
	if err != nil {
		return Series{}, ErrInvalidDate
	}

	recurrenceID := uuid.NewString()
	base.RecurrenceID = recurrenceID

	series := Series{Appointments: []Appointment{base}}
	for i := 1; i < occurrences; i++ {
		current = current.AddDate(0, 0, 7)
		date := current.Format("2006-01-02")

		if HasConflict(date, base.StartTime, base.EndTime, existing, "") {
			series.SkippedDates = append(series.SkippedDates, date)
			continue
		}

		next := base
		next.ID = uuid.NewString()
		next.Date = date
		next.Notes = ""
		next.Status = StatusScheduled
		next.IsPaid = false
		next.ClinicalRecord = nil
		next.AbsenceJustification = ""
		series.Appointments = append(series.Appointments, next)
	}
	return series, nil
}
