package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"didacta-calendar/core"
	"didacta-calendar/pkg/audit"
	"didacta-calendar/pkg/config"
	"didacta-calendar/pkg/resources"
	"didacta-calendar/pkg/servers"
	"didacta-calendar/pkg/sessions"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// 1. Config (Logger base included)
	ctx, err := config.Default(ctx, name, version, configFile)
	if err != nil {
		return err
	}

	env := config.Environment()
	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	loc, err := config.Location()
	if err != nil {
		return err
	}

	hookFn := func(ctx context.Context) (context.Context, error) {
		log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
		return log.Logger.WithContext(ctx), nil
	}

	// 2. Telemetry, with zerolog bridged into OTel logs
	ctx, stopFn, err := resources.Observe(ctx, name, version, env, hookFn)
	if err != nil {
		return fmt.Errorf("unable to setup otel telemetry: %w", err)
	}
	defer stopFn(ctx, 15*time.Second)

	// 3. Resources
	pool, stopFn, err := resources.CreateDatabaseConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("unable to create database connection pool: %w", err)
	}
	defer stopFn(ctx, 15*time.Second)

	redisClient, stopFn, err := resources.CreateRedisClient(ctx)
	if err != nil {
		return fmt.Errorf("unable to create redis client: %w", err)
	}
	defer stopFn(ctx, 15*time.Second)

	sink, stopFn, err := resources.CreateAuditSink(ctx)
	if err != nil {
		return fmt.Errorf("unable to create audit sink: %w", err)
	}
	defer stopFn(ctx, 15*time.Second)

	// 4. Wiring
	recorder := audit.NewRecorder(sink, env)
	sessionTTL := config.SessionTTL()

	calendar := core.NewCalendarService(core.NewRepository(pool, loc), core.SystemClock{Location: loc}, loc, recorder)
	auth := core.NewAuthService(core.NewUserRepository(pool), sessions.NewRedisStore(redisClient, sessionTTL), recorder)

	cookieName := viper.GetString("SESSION_COOKIE")
	secure := viper.GetBool("SESSION_SECURE")

	handlers := core.NewHandlers(calendar, auth, core.CookieOptions{
		Name:   cookieName,
		MaxAge: sessionTTL,
		Secure: secure,
	})

	// 5. Servers setup
	if env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(name))
	router.Use(resources.NewHTTPMetrics(name, core.LoginPath).Middleware())
	router.Use(func(gctx *gin.Context) {
		gctx.Request = gctx.Request.WithContext(log.Ctx(ctx).WithContext(gctx.Request.Context()))
		gctx.Next()
	})

	var restHandler http.Handler = router

	if key := viper.GetString("CSRF_KEY"); key != "" {
		router.Use(func(gctx *gin.Context) {
			gctx.Header("X-CSRF-Token", csrf.Token(gctx.Request))
			gctx.Next()
		})

		restHandler = csrfProtect([]byte(key), secure, router)
	}

	core.RegisterRoutes(router, handlers, core.AuthGate(auth, cookieName))

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 6. Servers lifecycle
	errChan := make(chan error, 16)

	_, baseServer := servers.BuildBaseServer()
	stopFn = servers.Start(ctx, "base-server", baseServer, errChan)
	defer stopFn(ctx, 15*time.Second)

	_, debugServer := servers.BuildHttpServer("debug-server",
		servers.NewServer(viper.GetString("HTTP_HOST"), viper.GetString("DEBUG_PORT"), debugHandler))
	stopFn = servers.Start(ctx, "debug-server", debugServer, errChan)
	defer stopFn(ctx, 15*time.Second)

	_, restServer := servers.BuildHttpServer("rest-server",
		servers.NewServer(viper.GetString("HTTP_HOST"), viper.GetString("HTTP_PORT"), restHandler))
	stopFn = servers.Start(ctx, "rest-server", restServer, errChan)
	defer stopFn(ctx, 15*time.Second)

	startupLogger.Info().Str("timezone", loc.String()).Msg("application running")

	// 7. Wait for shutdown signal
	notifyCtx, cancelNotifyFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelNotifyFn()

	select {
	case <-notifyCtx.Done():
		startupLogger.Info().Msg("application shutdown requested")
	case runErr := <-errChan:
		shutdownLogger.Error().Err(runErr).Msg("runtime error")
		return runErr
	}

	return nil
}

// csrfProtect guards the form posts with a double-submit token. Plain HTTP deployments skip
// the TLS-only Referer check.
func csrfProtect(key []byte, secure bool, next http.Handler) http.Handler {
	protect := csrf.Protect(key, csrf.Secure(secure), csrf.Path("/"))
	if secure {
		return protect(next)
	}

	protected := protect(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
