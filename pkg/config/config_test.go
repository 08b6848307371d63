package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests mutate the global viper instance and environment, so they do not run in parallel.

func TestDefault(t *testing.T) {
	viper.Reset()
	t.Setenv("HTTP_PORT", "9090")

	ctx, err := Default(context.Background(), "didacta-calendar", "test", "")
	require.NoError(t, err)

	assert.Equal(t, "9090", viper.GetString("HTTP_PORT"))
	assert.Equal(t, "America/Santiago", viper.GetString("CALENDAR_TIMEZONE"))
	assert.Equal(t, "local", Environment())
	assert.Equal(t, 336*time.Hour, SessionTTL())
	assert.NotNil(t, log.Ctx(ctx))
}

func TestDefault_ConfigFile(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("AUDIT_SINK: mongo\nCALENDAR_TIMEZONE: UTC\n"), 0o600))

	_, err := Default(context.Background(), "didacta-calendar", "test", path)
	require.NoError(t, err)

	assert.Equal(t, "mongo", viper.GetString("AUDIT_SINK"))

	loc, err := Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestDefault_Errors(t *testing.T) {
	viper.Reset()

	_, err := Default(context.Background(), "didacta-calendar", "test", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	viper.Reset()
	t.Setenv("LOG_LEVEL", "loud")

	_, err = Default(context.Background(), "didacta-calendar", "test", "")
	require.Error(t, err)
}

func TestLocation_Invalid(t *testing.T) {
	viper.Reset()
	viper.Set("CALENDAR_TIMEZONE", "Mars/Olympus")

	_, err := Location()
	require.Error(t, err)
}
