package core

import (
	"fmt"
	"time"
)

const (
	daysPerWeek  = 7
	weeksPerYear = 52
	minYear      = 1
	maxYear      = 9999
	maxWeek      = 53
)

var monthNames = [13]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthNames returns the display names indexed 1-12; index 0 is blank.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	copy(names, monthNames[:])

	return names
}

// Date builds a calendar date. Dates are midnight UTC values so they compare without zone drift.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf is the calendar date of t as seen from loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	year, month, day := t.In(loc).Date()

	return Date(year, month, day)
}

// civilDate drops the clock part of t, keeping the date as written in t's own zone.
func civilDate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// mondayOffset counts days back to Monday (Monday=0 ... Sunday=6).
func mondayOffset(weekday time.Weekday) int {
	return (int(weekday) + 6) % daysPerWeek
}

// MonthBounds returns the first and last date of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := Date(year, month, 1)

	var next time.Time
	if month == time.December {
		next = Date(year+1, time.January, 1)
	} else {
		next = Date(year, month+1, 1)
	}

	return first, next.AddDate(0, 0, -1)
}

// WeekBounds counts weeks from the Monday on or before January 1st.
// This is not ISO-8601 week numbering.
func WeekBounds(year int, week int) (time.Time, time.Time) {
	jan1 := Date(year, time.January, 1)
	firstMonday := jan1.AddDate(0, 0, -mondayOffset(jan1.Weekday()))
	monday := firstMonday.AddDate(0, 0, (week-1)*daysPerWeek)

	return monday, monday.AddDate(0, 0, daysPerWeek-1)
}

// NextWeek and PrevWeek wrap on a fixed 52-week cycle, which drifts in 53-week years.
func NextWeek(year int, week int) (int, int) {
	if week < weeksPerYear {
		return year, week + 1
	}

	return year + 1, 1
}

func PrevWeek(year int, week int) (int, int) {
	if week > 1 {
		return year, week - 1
	}

	return year - 1, weeksPerYear
}

// MonthGrid lays the month out in Monday-first weeks, padded with days of the adjacent months.
func MonthGrid(year int, month time.Month) [][]time.Time {
	first, last := MonthBounds(year, month)
	start := first.AddDate(0, 0, -mondayOffset(first.Weekday()))
	end := last.AddDate(0, 0, daysPerWeek-1-mondayOffset(last.Weekday()))

	var weeks [][]time.Time

	for monday := start; !monday.After(end); monday = monday.AddDate(0, 0, daysPerWeek) {
		week := make([]time.Time, daysPerWeek)
		for i := range week {
			week[i] = monday.AddDate(0, 0, i)
		}

		weeks = append(weeks, week)
	}

	return weeks
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidDate, year)
	}

	return nil
}

func validateMonth(year int, month int) error {
	err := validateYear(year)
	if err != nil {
		return err
	}

	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}

	return nil
}

func validateDay(year int, month int, day int) error {
	err := validateMonth(year, month)
	if err != nil {
		return err
	}

	_, last := MonthBounds(year, time.Month(month))
	if day < 1 || day > last.Day() {
		return fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDate, day, year, month)
	}

	return nil
}

func validateWeek(year int, week int) error {
	err := validateYear(year)
	if err != nil {
		return err
	}

	if week < 1 || week > maxWeek {
		return fmt.Errorf("%w: week %d out of range", ErrInvalidDate, week)
	}

	return nil
}

type WindowKind string

const (
	KindDay   WindowKind = "day"
	KindWeek  WindowKind = "week"
	KindMonth WindowKind = "month"
	KindYear  WindowKind = "year"
)

// Window is a closed date interval scoping a calendar view.
type Window struct {
	Kind  WindowKind `json:"kind"`
	Year  int        `json:"year"`
	Month int        `json:"month,omitempty"`
	Day   int        `json:"day,omitempty"`
	Week  int        `json:"week,omitempty"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Label string     `json:"label"`
}

// ResolveWindow turns calendar coordinates into a concrete window. Zero coordinates
// are taken from today; an absent week is today's ISO week.
func ResolveWindow(kind WindowKind, year int, month int, day int, week int, today time.Time) (Window, error) {
	if year == 0 {
		year = today.Year()
	}

	window := Window{Kind: kind, Year: year}

	switch kind {
	case KindDay:
		if month == 0 {
			month = int(today.Month())
		}

		if day == 0 {
			day = today.Day()
		}

		err := validateDay(year, month, day)
		if err != nil {
			return Window{}, err
		}

		window.Month, window.Day = month, day
		window.Start = Date(year, time.Month(month), day)
		window.End = window.Start
		window.Label = fmt.Sprintf("%d de %s de %d", day, monthNames[month], year)

	case KindWeek:
		if week == 0 {
			_, week = today.ISOWeek()
		}

		err := validateWeek(year, week)
		if err != nil {
			return Window{}, err
		}

		window.Week = week
		window.Start, window.End = WeekBounds(year, week)
		window.Label = fmt.Sprintf("Semana %d de %d", week, year)

	case KindMonth:
		if month == 0 {
			month = int(today.Month())
		}

		err := validateMonth(year, month)
		if err != nil {
			return Window{}, err
		}

		window.Month = month
		window.Start, window.End = MonthBounds(year, time.Month(month))
		window.Label = fmt.Sprintf("%s %d", monthNames[month], year)

	case KindYear:
		err := validateYear(year)
		if err != nil {
			return Window{}, err
		}

		window.Start = Date(year, time.January, 1)
		window.End = Date(year, time.December, 31)
		window.Label = fmt.Sprintf("%d", year)

	default:
		return Window{}, fmt.Errorf("%w: unknown window kind %q", ErrInvalidDate, kind)
	}

	return window, nil
}
