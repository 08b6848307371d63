package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"didacta-calendar/core"
	"didacta-calendar/pkg/audit"
	"didacta-calendar/pkg/config"
	"didacta-calendar/pkg/resources"

	_ "time/tzdata"
)

const (
	name    = "didacta-calendar"
	version = "1.0"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           name,
		Short:         "Calendario de eventos con acceso por RUT",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "overrides LOG_LEVEL")
	rootCmd.PersistentFlags().String("timezone", "", "overrides CALENDAR_TIMEZONE")
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("CALENDAR_TIMEZONE", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.AddCommand(serveCmd(), migrateCmd(), createSuperuserCmd())

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := config.Default(cmd.Context(), name, version, configFile)
			if err != nil {
				return err
			}

			pool, stopFn, err := resources.CreateDatabaseConnectionPool(ctx)
			if err != nil {
				return fmt.Errorf("unable to create database connection pool: %w", err)
			}
			defer stopFn(ctx, 15*time.Second)

			return core.Migrate(ctx, pool)
		},
	}
}

func createSuperuserCmd() *cobra.Command {
	var rut, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := config.Default(cmd.Context(), name, version, configFile)
			if err != nil {
				return err
			}

			pool, stopFn, err := resources.CreateDatabaseConnectionPool(ctx)
			if err != nil {
				return fmt.Errorf("unable to create database connection pool: %w", err)
			}
			defer stopFn(ctx, 15*time.Second)

			sink, stopFn, err := resources.CreateAuditSink(ctx)
			if err != nil {
				return err
			}
			defer stopFn(context.WithoutCancel(ctx), 5*time.Second)

			// Only account creation is used here, so no session store is needed.
			auth := core.NewAuthService(core.NewUserRepository(pool), nil, audit.NewRecorder(sink, config.Environment()))

			user, err := auth.CreateSuperuser(ctx, rut, password)
			if err != nil {
				return fmt.Errorf("unable to create superuser: %w", err)
			}

			log.Ctx(ctx).Info().Str("user_id", user.Id).Str("rut", user.Rut).Msg("superuser created")

			return nil
		},
	}

	cmd.Flags().StringVar(&rut, "rut", "", "RUT of the administrator")
	cmd.Flags().StringVar(&password, "password", "", "password of the administrator")
	_ = cmd.MarkFlagRequired("rut")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
