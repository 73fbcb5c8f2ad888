// Package datewindow classifies timestamps into named calendar windows
// (today, this week, this month) relative to a reference instant.
//
// All comparisons happen on UTC calendar days: inputs are converted to UTC
// and truncated to midnight before any boundary check, so time-of-day and
// local timezones can never shift a record across a day boundary. Weeks are
// ISO weeks, Monday through Sunday.
package datewindow

import (
	"strings"
	"time"
)

// Window names a contiguous time range used to filter time-bounded records.
type Window int

const (
	All Window = iota
	Today
	Week
	Month
)

// String returns the query-parameter spelling of the window.
func (w Window) String() string {
	switch w {
	case Today:
		return "today"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "all"
	}
}

// ParseWindow maps a query-parameter value to a Window. Unknown or empty
// values mean "no constraint", never "exclude everything".
func ParseWindow(s string) Window {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today
	case "week":
		return Week
	case "month":
		return Month
	default:
		return All
	}
}

// Classification reports which windows a timestamp falls into, relative to
// the reference instant it was classified against.
type Classification struct {
	IsToday     bool
	IsThisWeek  bool
	IsThisMonth bool
}

// Day truncates t to its UTC calendar day. Stores persist dates through
// this so window comparisons only ever see whole days.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the ISO week containing t, at UTC midnight.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// Classify reports whether t falls on the reference instant's calendar day,
// inside its ISO week, and inside its calendar month. Pure; safe to call on
// every refresh.
func Classify(t, ref time.Time) Classification {
	td := Day(t)
	rd := Day(ref)

	weekStart := WeekStart(ref)
	weekEnd := weekStart.AddDate(0, 0, 7) // exclusive

	return Classification{
		IsToday:     td.Equal(rd),
		IsThisWeek:  !td.Before(weekStart) && td.Before(weekEnd),
		IsThisMonth: td.Year() == rd.Year() && td.Month() == rd.Month(),
	}
}

// Contains reports whether t falls inside the window relative to ref.
// The All window contains everything.
func (w Window) Contains(t, ref time.Time) bool {
	switch w {
	case Today:
		return Classify(t, ref).IsToday
	case Week:
		return Classify(t, ref).IsThisWeek
	case Month:
		return Classify(t, ref).IsThisMonth
	default:
		return true
	}
}

// Predicate returns a reusable date predicate for the window, anchored at
// ref. Aggregations take predicates so the window logic stays in one place.
func (w Window) Predicate(ref time.Time) func(time.Time) bool {
	return func(t time.Time) bool {
		return w.Contains(t, ref)
	}
}
