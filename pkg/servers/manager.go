package servers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"didacta-calendar/pkg/resources"
)

// Start runs server in the background. Run failures go to errChan; the returned
// function stops the server within the given timeout.
func Start(ctx context.Context, name string, server Server, errChan chan<- error) resources.StopFn {
	go func() {
		err := server.Run(ctx)
		if err != nil {
			errChan <- err
		}
	}()

	return func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := server.Stop(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("stage", "shut down").Str("component", name).Msg("failed to stop server")
		}
	}
}
