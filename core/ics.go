package core

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductId = "-//didacta//calendario//ES"

// ExportICS renders events as an iCalendar document.
func ExportICS(events []Event, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductId)

	for _, e := range events {
		vevent := cal.AddEvent(e.Id + "@didacta-calendar")
		vevent.SetDtStampTime(stamp.UTC())
		vevent.SetStartAt(e.StartTime.UTC())
		vevent.SetEndAt(e.EndTime.UTC())
		vevent.SetSummary(e.Title)

		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}

		if !e.CreatedAt.IsZero() {
			vevent.SetCreatedTime(e.CreatedAt.UTC())
		}
	}

	return cal.Serialize()
}
