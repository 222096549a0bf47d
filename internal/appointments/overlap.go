package appointments

// HasConflict reports whether the candidate interval [start, end) on date
// intersects any existing non-cancelled appointment. excludeID lets an
// edited appointment skip itself; pass "" when creating.
//
// Two same-day half-open intervals overlap iff s1 < e2 && e1 > s2, so
// touching endpoints (one ends exactly when the other starts) are not
// conflicts. The first hit wins; which one is irrelevant, any conflict is
// enough to reject.
func HasConflict(date, start, end string, existing []Appointment, excludeID string) bool {
	for _, a := range existing {
		if a.ID == excludeID {
			continue
		}
		if a.Date != date || a.Status == StatusCanceled {
			continue
		}
		if start < a.EndTime && end > a.StartTime {
			return true
		}
	}
	return false
}

// Covers reports whether the slot label t falls inside a, strictly between
// its endpoints. The agenda renders such slots as a continuation of the
// running session; t == a.StartTime is the session's own starting slot and
// is deliberately excluded.
func (a Appointment) Covers(t string) bool {
	return a.StartTime < t && t < a.EndTime
}

// startingAt finds the non-cancelled appointment beginning exactly at the
// given slot on date, if any.
func startingAt(date, t string, existing []Appointment) *Appointment {
	for i := range existing {
		a := &existing[i]
		if a.Date == date && a.Status != StatusCanceled && a.StartTime == t {
			return a
		}
	}
	return nil
}

// occupiedAt reports whether some non-cancelled appointment on date covers
// the slot label t without starting on it.
func occupiedAt(date, t string, existing []Appointment) bool {
	for _, a := range existing {
		if a.Date == date && a.Status != StatusCanceled && a.Covers(t) {
			return true
		}
	}
	return false
}
