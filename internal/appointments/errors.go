package appointments

import "errors"

var (
	// ErrConflict is returned when a candidate interval overlaps an existing
	// non-cancelled appointment on the same date. The caller recovers by
	// picking another time; it is never retried automatically.
	ErrConflict = errors.New("appointments: time slot already taken")

	// ErrNotFound is returned when the appointment does not exist or belongs
	// to another practitioner.
	ErrNotFound = errors.New("appointments: not found")

	// ErrMissingPatient is returned when a booking has no patient selected.
	ErrMissingPatient = errors.New("appointments: patient is required")

	// ErrInvalidDuration is returned for durations outside 10-240 minutes.
	ErrInvalidDuration = errors.New("appointments: duration must be between 10 and 240 minutes")

	// ErrInvalidDate is returned for malformed dates or clock values.
	ErrInvalidDate = errors.New("appointments: invalid date or time")

	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("appointments: invalid status")

	// ErrMissingJustification is returned when marking an absence without a
	// justification.
	ErrMissingJustification = errors.New("appointments: absence justification is required")

	// ErrInvalidNotesField is returned when an enhancement request names a
	// field the clinical record does not have.
	ErrInvalidNotesField = errors.New("appointments: unknown clinical notes field")

	// ErrEnhancerUnavailable is returned when no AI enhancer is configured.
	ErrEnhancerUnavailable = errors.New("appointments: notes enhancement is not configured")
)
