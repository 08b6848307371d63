package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"didacta-calendar/pkg/resources"
)

const (
	eventColumns                 = "id, title, description, start_time, end_time, owner_id, created_at"
	invalidTextRepresentationSQL = "22P02"
)

type EventRepository interface {
	SaveEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventById(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	// FindOverlapping returns the owner's events touching the closed date window, ascending by start.
	FindOverlapping(ctx context.Context, ownerId string, start time.Time, end time.Time) ([]Event, error)
}

type repository struct {
	tracer   trace.Tracer
	metrics  *DBMetrics
	pool     resources.DBInstance
	location *time.Location
}

// NewRepository builds the event repository. Dates in overlap queries are taken in loc.
func NewRepository(pool resources.DBInstance, loc *time.Location) EventRepository {
	if loc == nil {
		loc = time.UTC
	}

	return &repository{
		tracer:   otel.GetTracerProvider().Tracer("didacta-calendar/core"),
		metrics:  NewDBMetrics(),
		pool:     pool,
		location: loc,
	}
}

func (r *repository) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "save_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.SaveEvent")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var savedEvent Event

	err = scanEvent(tx.QueryRow(ctx,
		"INSERT INTO events (title, description, start_time, end_time, owner_id) "+
			"VALUES ($1, $2, $3, $4, $5) "+
			"RETURNING "+eventColumns,
		event.Title, event.Description, event.StartTime, event.EndTime, event.OwnerId), &savedEvent)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &savedEvent, nil
}

func (r *repository) GetEventById(ctx context.Context, id string) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "get_event_by_id", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.GetEventById")
	defer span.End()

	var e Event

	err = scanEvent(r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE id = $1`,
		id,
	), &e)
	if errors.Is(err, pgx.ErrNoRows) || isMalformedId(err) {
		return nil, ErrEventNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	return &e, nil
}

func (r *repository) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "update_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.UpdateEvent")
	defer span.End()

	var e Event

	err = scanEvent(r.pool.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, description = $3, start_time = $4, end_time = $5
		 WHERE id = $1
		 RETURNING `+eventColumns,
		event.Id, event.Title, event.Description, event.StartTime, event.EndTime,
	), &e)
	if errors.Is(err, pgx.ErrNoRows) || isMalformedId(err) {
		return nil, ErrEventNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &e, nil
}

func (r *repository) DeleteEvent(ctx context.Context, id string) error {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "delete_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.DeleteEvent")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if isMalformedId(err) {
		return ErrEventNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *repository) FindOverlapping(ctx context.Context, ownerId string, start time.Time, end time.Time) ([]Event, error) {
	begin := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "find_overlapping", begin, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.FindOverlapping",
		trace.WithAttributes(
			attribute.String("calendar.window.start", start.Format(time.DateOnly)),
			attribute.String("calendar.window.end", end.Format(time.DateOnly)),
		))
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE owner_id = $1
		   AND (start_time AT TIME ZONE $4)::date <= $3::date
		   AND (end_time AT TIME ZONE $4)::date >= $2::date
		 ORDER BY start_time`,
		ownerId, start.Format(time.DateOnly), end.Format(time.DateOnly), r.location.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)

	for rows.Next() {
		var e Event

		err = scanEvent(rows, &e)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// isMalformedId reports whether postgres rejected an id that is not a uuid.
// Such an id cannot name any event.
func isMalformedId(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentationSQL
}

func scanEvent(row pgx.Row, e *Event) error {
	return row.Scan(&e.Id, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.OwnerId, &e.CreatedAt)
}

/*

 */

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("didacta-calendar/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op), // ej: "save_event", "find_overlapping"
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
