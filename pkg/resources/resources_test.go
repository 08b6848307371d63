package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelog "go.opentelemetry.io/otel/log"

	"didacta-calendar/pkg/audit"
)

// These tests share the global viper instance and do not run in parallel.

func TestDatabaseURL(t *testing.T) {
	viper.Reset()
	viper.Set("DB_USER", "calendar")
	viper.Set("DB_PASSWORD", "secret")
	viper.Set("DB_HOST", "db")
	viper.Set("DB_PORT", "5432")
	viper.Set("DB_NAME", "didacta")
	viper.Set("DB_SSLMODE", "disable")

	assert.Equal(t, "postgres://calendar:secret@db:5432/didacta?sslmode=disable", DatabaseURL())
}

func TestCreateAuditSink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		kind    string
		wantErr bool
		check   func(t *testing.T, sink audit.Sink)
	}{
		{kind: "", check: func(t *testing.T, sink audit.Sink) { assert.IsType(t, audit.NopSink{}, sink) }},
		{kind: "none", check: func(t *testing.T, sink audit.Sink) { assert.IsType(t, audit.NopSink{}, sink) }},
		{kind: "log", check: func(t *testing.T, sink audit.Sink) { assert.IsType(t, &audit.LogSink{}, sink) }},
		{kind: "kafka", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("sink "+tt.kind, func(t *testing.T) {
			viper.Reset()
			viper.Set("AUDIT_SINK", tt.kind)

			sink, stopFn, err := CreateAuditSink(ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, sink)
			stopFn(ctx, time.Second)
		})
	}
}

func TestObserve_Disabled(t *testing.T) {
	viper.Reset()
	viper.Set("OTEL_ENABLED", false)

	called := false
	hookFn := func(ctx context.Context) (context.Context, error) {
		called = true
		return ctx, nil
	}

	ctx, stopFn, err := Observe(context.Background(), "didacta-calendar", "test", "local", hookFn)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.False(t, called)

	stopFn(ctx, time.Second)
}

func TestHookHelpers(t *testing.T) {
	t.Run("fields to attributes", func(t *testing.T) {
		attrs := fieldsToAttrs(map[string]any{
			"component": "calendar",
			"events":    float64(3),
			"ratio":     0.5,
			"admin":     true,
			"meta":      []any{"a"},
		})

		byKey := map[string]otelog.Value{}
		for _, kv := range attrs {
			byKey[kv.Key] = kv.Value
		}

		assert.Equal(t, "calendar", byKey["component"].AsString())
		assert.Equal(t, int64(3), byKey["events"].AsInt64())
		assert.InDelta(t, 0.5, byKey["ratio"].AsFloat64(), 0.0001)
		assert.True(t, byKey["admin"].AsBool())
		assert.Equal(t, "[a]", byKey["meta"].AsString())
	})

	t.Run("event timestamp", func(t *testing.T) {
		ts := eventTimestamp(map[string]any{zerolog.TimestampFieldName: "2025-10-02T13:00:00Z"})
		assert.Equal(t, time.Date(2025, time.October, 2, 13, 0, 0, 0, time.UTC), ts)

		assert.WithinDuration(t, time.Now(), eventTimestamp(map[string]any{}), time.Minute)
	})

	t.Run("nil event", func(t *testing.T) {
		_, ok := eventFields(nil)
		assert.False(t, ok)
	})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewHTTPMetrics("didacta-calendar-test", "/calendario/login/").Middleware())
	router.GET("/calendario/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/calendario/login/?next=%2Fcalendario%2F")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendario/", nil))
	assert.Equal(t, http.StatusFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
