package attendance

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var dayNames = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// Today returns the calendar day of now in loc, as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(dateLayout)
}

// FormatDate renders YYYY-MM-DD as DD/MM/YYYY. Other inputs are returned as is.
func FormatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// DayName returns the French weekday of a YYYY-MM-DD date, or "" if invalid.
func DayName(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return dayNames[t.Weekday()]
}

// DisplayDayName prefers the backend's day name over the computed one.
func (r Record) DisplayDayName() string {
	if r.DayName != "" {
		return r.DayName
	}
	return DayName(r.Date)
}
