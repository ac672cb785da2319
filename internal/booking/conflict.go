package booking

import "time"

// Interval is a half-open booking window [Start, End) attached to a
// reservation identifier.
type Interval struct {
	ReservationID string
	Start         time.Time
	End           time.Time
}

// Overlaps implements the standard half-open interval overlap test. Two
// intervals [s1,e1) and [s2,e2) conflict iff s1 < e2 and s2 < e1, so a
// reservation ending exactly when another starts does not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflicts returns every existing interval that overlaps the candidate.
// excludeID skips the reservation being edited so it never conflicts with
// itself; pass the empty string when checking a brand-new reservation.
func FindConflicts(existing []Interval, candidate Interval, excludeID string) []Interval {
	var conflicts []Interval
	for _, interval := range existing {
		if excludeID != "" && interval.ReservationID == excludeID {
			continue
		}
		if Overlaps(interval.Start, interval.End, candidate.Start, candidate.End) {
			conflicts = append(conflicts, interval)
		}
	}
	return conflicts
}

// HasConflict reports whether any existing interval overlaps the candidate.
func HasConflict(existing []Interval, candidate Interval, excludeID string) bool {
	return len(FindConflicts(existing, candidate, excludeID)) > 0
}
