package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"didacta-calendar/pkg/audit"
)

type Clock interface {
	Today() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() time.Time {
	return DateOf(time.Now(), c.Location)
}

// CalendarService serves the calendar views of the calling identity and the admin-only event mutations.
type CalendarService interface {
	Daily(ctx context.Context, identity Identity, year int, month int, day int) (*DailyCalendar, error)
	Weekly(ctx context.Context, identity Identity, year int, week int) (*WeeklyCalendar, error)
	Monthly(ctx context.Context, identity Identity, year int, month int) (*MonthlyCalendar, error)
	Yearly(ctx context.Context, identity Identity, year int) (*YearlyCalendar, error)
	ExportMonth(ctx context.Context, identity Identity, year int, month int) (string, error)
	CreateEvent(ctx context.Context, identity Identity, event *Event) (*Event, error)
	GetOwnedEvent(ctx context.Context, identity Identity, id string) (*Event, error)
	UpdateEvent(ctx context.Context, identity Identity, id string, changes *Event) (*Event, error)
	DeleteEvent(ctx context.Context, identity Identity, id string) error
}

type calendarService struct {
	repository EventRepository
	clock      Clock
	location   *time.Location
	recorder   *audit.Recorder
}

func NewCalendarService(repository EventRepository, clock Clock, loc *time.Location, recorder *audit.Recorder) CalendarService {
	if loc == nil {
		loc = time.UTC
	}

	return &calendarService{
		repository: repository,
		clock:      clock,
		location:   loc,
		recorder:   recorder,
	}
}

func (s *calendarService) window(ctx context.Context, identity Identity, kind WindowKind, year, month, day, week int) (Window, []Event, error) {
	window, err := ResolveWindow(kind, year, month, day, week, s.clock.Today())
	if err != nil {
		return Window{}, nil, err
	}

	events, err := s.repository.FindOverlapping(ctx, identity.UserId, window.Start, window.End)
	if err != nil {
		return Window{}, nil, storeError("find overlapping events", err)
	}

	log.Ctx(ctx).Debug().
		Str("component", "calendar").
		Str("window", window.Label).
		Int("events", len(events)).
		Msg("window resolved")

	return window, events, nil
}

func (s *calendarService) Daily(ctx context.Context, identity Identity, year int, month int, day int) (*DailyCalendar, error) {
	window, events, err := s.window(ctx, identity, KindDay, year, month, day, 0)
	if err != nil {
		return nil, err
	}

	daily := BuildDaily(window.Start, events, s.location)
	daily.Label = window.Label

	return daily, nil
}

func (s *calendarService) Weekly(ctx context.Context, identity Identity, year int, week int) (*WeeklyCalendar, error) {
	window, events, err := s.window(ctx, identity, KindWeek, year, 0, 0, week)
	if err != nil {
		return nil, err
	}

	return BuildWeekly(window.Year, window.Week, events, s.location)
}

func (s *calendarService) Monthly(ctx context.Context, identity Identity, year int, month int) (*MonthlyCalendar, error) {
	window, events, err := s.window(ctx, identity, KindMonth, year, month, 0, 0)
	if err != nil {
		return nil, err
	}

	return BuildMonthly(window.Year, window.Month, events, s.location)
}

func (s *calendarService) Yearly(ctx context.Context, identity Identity, year int) (*YearlyCalendar, error) {
	window, events, err := s.window(ctx, identity, KindYear, year, 0, 0, 0)
	if err != nil {
		return nil, err
	}

	return BuildYearly(window.Year, events, s.location)
}

func (s *calendarService) ExportMonth(ctx context.Context, identity Identity, year int, month int) (string, error) {
	window, events, err := s.window(ctx, identity, KindMonth, year, month, 0, 0)
	if err != nil {
		return "", err
	}

	return ExportICS(FilterOverlapping(events, window.Start, window.End, s.location), time.Now()), nil
}

func (s *calendarService) CreateEvent(ctx context.Context, identity Identity, event *Event) (*Event, error) {
	start := time.Now()

	err := CheckAdmin(identity)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(event.Title)
	event.OwnerId = identity.UserId

	err = ValidateEvent(*event)
	if err != nil {
		return nil, err
	}

	saved, err := s.repository.SaveEvent(ctx, event)
	if err != nil {
		return nil, storeError("save event", err)
	}

	s.record(ctx, identity, "create_event", "Evento creado exitosamente.", start, saved.Id)

	return saved, nil
}

// GetOwnedEvent looks the event up as an (id, owner) pair: events of other users are not found.
func (s *calendarService) GetOwnedEvent(ctx context.Context, identity Identity, id string) (*Event, error) {
	err := CheckAdmin(identity)
	if err != nil {
		return nil, err
	}

	event, err := s.repository.GetEventById(ctx, id)
	if err != nil {
		return nil, storeError("get event", err)
	}

	err = CheckOwnership(identity, event)
	if err != nil {
		return nil, err
	}

	return event, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, identity Identity, id string, changes *Event) (*Event, error) {
	start := time.Now()

	event, err := s.GetOwnedEvent(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(changes.Title)
	event.Description = changes.Description
	event.StartTime = changes.StartTime
	event.EndTime = changes.EndTime

	err = ValidateEvent(*event)
	if err != nil {
		return nil, err
	}

	updated, err := s.repository.UpdateEvent(ctx, event)
	if err != nil {
		return nil, storeError("update event", err)
	}

	s.record(ctx, identity, "update_event", "Evento actualizado exitosamente.", start, updated.Id)

	return updated, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, identity Identity, id string) error {
	start := time.Now()

	event, err := s.GetOwnedEvent(ctx, identity, id)
	if err != nil {
		return err
	}

	err = s.repository.DeleteEvent(ctx, event.Id)
	if err != nil {
		return storeError("delete event", err)
	}

	s.record(ctx, identity, "delete_event", "Evento eliminado exitosamente.", start, event.Id)

	return nil
}

func (s *calendarService) record(ctx context.Context, identity Identity, operation string, message string, start time.Time, eventId string) {
	s.recorder.Record(ctx, audit.Entry{
		Level:         audit.LevelInfo,
		Component:     "calendar",
		Operation:     operation,
		Message:       message,
		UserId:        identity.UserId,
		SessionId:     identity.SessionId,
		ExecutionTime: time.Since(start).Seconds(),
		Metadata:      map[string]any{"event_id": eventId},
	})
}
