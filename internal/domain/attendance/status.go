package attendance

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the human-facing attendance label of a record. The values are the
// labels used by the device backend, so precomputed statuses compare equal.
type Status string

const (
	StatusOnTime                  Status = "À l'heure"
	StatusPresent                 Status = "Présent"
	StatusInProgress              Status = "En cours"
	StatusArrivalMissing          Status = "Arrivée manquante"
	StatusLate                    Status = "En retard"
	StatusAbsent                  Status = "Absent"
	StatusPresentDepartureMissing Status = "Présent (départ manquant)"

	// StatusInvalidTime is returned when the arrival time cannot be parsed.
	StatusInvalidTime Status = "Heure invalide"
)

const (
	onTimeBefore  = 8 * 60 // 08:00, exclusive
	presentUntil  = 9 * 60 // 09:00, inclusive
	otherPriority = 7
)

var statusPriority = map[Status]int{
	StatusOnTime:                  0,
	StatusPresent:                 1,
	StatusInProgress:              2,
	StatusArrivalMissing:          3,
	StatusLate:                    4,
	StatusAbsent:                  5,
	StatusPresentDepartureMissing: 6,
}

// Priority returns the review ordering of a status, lower first.
// Unknown labels sort after every known one.
func Priority(s Status) int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return otherPriority
}

// ParseClock parses "HH:MM" (optionally "HH:MM:SS") into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) > 2 || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || len(parts[2]) != 2 || second < 0 || second > 59 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
		}
	}

	return hour*60 + minute, nil
}

// Classify derives the status of a record relative to today (YYYY-MM-DD).
// It never fails: an unparsable arrival time yields StatusInvalidTime.
func Classify(r Record, today string) Status {
	status, _ := ClassifyStrict(r, today)
	return status
}

// ClassifyStrict is Classify that also reports ErrMalformedTime.
func ClassifyStrict(r Record, today string) (Status, error) {
	if r.Status != "" && r.Status != StatusAbsent {
		return r.Status, nil
	}

	hasArrival, hasDeparture := r.HasArrival(), r.HasDeparture()
	switch {
	case !hasArrival && !hasDeparture:
		return StatusAbsent, nil
	case hasArrival && !hasDeparture:
		if r.Date == today {
			return StatusInProgress, nil
		}
		return StatusPresentDepartureMissing, nil
	case !hasArrival && hasDeparture:
		return StatusArrivalMissing, nil
	}

	arrival, err := ParseClock(r.ArrivalTime)
	if err != nil {
		return StatusInvalidTime, err
	}

	switch {
	case arrival < onTimeBefore:
		return StatusOnTime, nil
	case arrival <= presentUntil:
		return StatusPresent, nil
	default:
		return StatusLate, nil
	}
}

// StatusClass groups statuses into the badge classes of the dashboard.
func StatusClass(s Status) string {
	switch s {
	case StatusOnTime, StatusPresent:
		return "status-present"
	case StatusInProgress:
		return "status-inprogress"
	case StatusLate:
		return "status-late"
	case StatusArrivalMissing, StatusPresentDepartureMissing, StatusInvalidTime:
		return "status-warning"
	default:
		return "status-absent"
	}
}
