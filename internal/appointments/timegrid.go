package appointments

import "fmt"

// GenerateSlots returns the ordered bookable start labels for a day, one
// every slotMinutes from startHour (inclusive) until endHour (exclusive).
// Labels are zero-padded HH:MM. The function is pure: same inputs, same
// output, no hidden state.
//
// When the window does not divide evenly by slotMinutes the last slot's
// nominal end runs past endHour; the grid is a set of start labels, not an
// exact-fit partition, so that is accepted.
func GenerateSlots(startHour, endHour, slotMinutes int) []string {
	if slotMinutes <= 0 || startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil
	}

	var slots []string
	end := endHour * 60
	for current := startHour * 60; current < end; current += slotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", current/60, current%60))
	}
	return slots
}
