package entity

import (
	"fmt"
	"time"
)

// DateLayout is the wire and grouping format for calendar dates
const DateLayout = "2006-01-02"

// CalendarView is the granularity of a calendar query
type CalendarView string

const (
	CalendarViewDay   CalendarView = "day"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewMonth CalendarView = "month"
)

func (v CalendarView) IsValid() bool {
	switch v {
	case CalendarViewDay, CalendarViewWeek, CalendarViewMonth:
		return true
	}
	return false
}

// ParseDate parses YYYY-MM-DD into midnight UTC
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

// DateOf drops the clock part of t, keeping its calendar date, as midnight UTC
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders the calendar date of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Sunday that opens the week containing t
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DateRange returns the first and last date covered by view around anchor
func DateRange(anchor time.Time, view CalendarView) (time.Time, time.Time) {
	anchor = DateOf(anchor)

	switch view {
	case CalendarViewWeek:
		start := WeekStart(anchor)
		return start, start.AddDate(0, 0, 6)
	case CalendarViewMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	default:
		return anchor, anchor
	}
}

// DatesBetween lists every date from start to end inclusive
func DatesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := DateOf(start); !d.After(DateOf(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
