package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"didacta-calendar/pkg/audit"
)

// CreateAuditSink builds the sink named by AUDIT_SINK (none, log, mongo or amqp).
func CreateAuditSink(ctx context.Context) (audit.Sink, StopFn, error) {
	var (
		sink audit.Sink
		err  error
	)

	kind := viper.GetString("AUDIT_SINK")

	switch kind {
	case "", "none":
		return audit.NopSink{}, noopStop, nil
	case "log":
		sink = audit.NewLogSink(log.Logger)
	case "mongo":
		sink, err = audit.NewMongoSink(ctx, viper.GetString("MONGO_URI"), viper.GetString("MONGO_DB"))
	case "amqp":
		sink, err = audit.NewAMQPSink(viper.GetString("AMQP_URL"), viper.GetString("AMQP_EXCHANGE"))
	default:
		return nil, noopStop, fmt.Errorf("unknown audit sink %q", kind)
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("sink", kind).Msg("Unable to create audit sink")
		return nil, noopStop, fmt.Errorf("failed to create %s audit sink: %w", kind, err)
	}

	stopFn := func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := sink.Close(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("sink", kind).Msg("failed to close audit sink")
		}
	}

	return sink, stopFn, nil
}
