package core

import (
	"sort"
	"time"
)

// Overlaps reports whether the event touches the closed date window [start, end].
func Overlaps(event Event, start time.Time, end time.Time, loc *time.Location) bool {
	return !DateOf(event.StartTime, loc).After(end) && !DateOf(event.EndTime, loc).Before(start)
}

// FilterOverlapping keeps the events touching [start, end], ascending by start time.
func FilterOverlapping(events []Event, start time.Time, end time.Time, loc *time.Location) []Event {
	matched := make([]Event, 0, len(events))

	for _, event := range events {
		if Overlaps(event, start, end, loc) {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartTime.Before(matched[j].StartTime)
	})

	return matched
}
