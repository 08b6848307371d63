package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

type Entry struct {
	Id            string         `json:"id"             bson:"id"`
	Timestamp     time.Time      `json:"timestamp"      bson:"timestamp"`
	Level         string         `json:"log_level"      bson:"log_level"`
	Component     string         `json:"component"      bson:"component"`
	Operation     string         `json:"operation"      bson:"operation"`
	Message       string         `json:"message"        bson:"message"`
	UserId        string         `json:"user_id"        bson:"user_id"`
	SessionId     string         `json:"session_id"     bson:"session_id"`
	ExecutionTime float64        `json:"execution_time" bson:"execution_time"`
	Metadata      map[string]any `json:"metadata"       bson:"metadata"`
	Environment   string         `json:"environment"    bson:"environment"`
}

type Sink interface {
	Log(ctx context.Context, entry Entry) error
	Close(ctx context.Context) error
}

// Recorder fills in entry defaults and forwards to a sink. Sink failures are logged and dropped.
type Recorder struct {
	sink        Sink
	environment string
	now         func() time.Time
}

func NewRecorder(sink Sink, environment string) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}

	return &Recorder{
		sink:        sink,
		environment: environment,
		now:         time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil {
		return
	}

	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}

	entry.Level = strings.ToUpper(entry.Level)
	if entry.Level == "" {
		entry.Level = LevelInfo
	}

	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}

	entry.Environment = r.environment

	err := r.sink.Log(ctx, entry)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("component", "audit").
			Str("operation", entry.Operation).
			Msg("audit sink failed, entry dropped")
	}
}

type NopSink struct{}

func (NopSink) Log(context.Context, Entry) error { return nil }

func (NopSink) Close(context.Context) error { return nil }
