package servers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closableStub struct {
	closed int
}

func (c *closableStub) Close() { c.closed++ }

type failingServer struct{}

func (failingServer) Run(context.Context) error  { return errors.New("boom") }
func (failingServer) Stop(context.Context) error { return nil }

func TestBaseServer(t *testing.T) {
	t.Parallel()

	closable := &closableStub{}
	name, server := BuildBaseServer(closable)
	assert.Equal(t, "base-server", name)

	done := make(chan error, 1)

	go func() { done <- server.Run(context.Background()) }()

	require.NoError(t, server.Stop(context.Background()))
	require.NoError(t, server.Stop(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("base server did not stop")
	}

	assert.Equal(t, 1, closable.closed)
}

func TestStart_ReportsRunErrors(t *testing.T) {
	t.Parallel()

	errChan := make(chan error, 1)
	stopFn := Start(context.Background(), "failing", failingServer{}, errChan)

	select {
	case err := <-errChan:
		require.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("expected run error")
	}

	stopFn(context.Background(), time.Second)
}

func TestBuildHttpServer(t *testing.T) {
	t.Parallel()

	internal := NewServer("localhost", "0", http.NewServeMux())
	assert.Equal(t, "localhost:0", internal.Addr)

	name, server := BuildHttpServer("rest-server", internal)
	assert.Equal(t, "rest-server", name)
	require.NoError(t, server.Stop(context.Background()))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("address in use")

	started := ErrServerFailedToStart("rest-server", cause)
	assert.ErrorIs(t, started, cause)
	assert.ErrorIs(t, started, ErrStart)

	stopped := ErrServerFailedToStop("rest-server", cause)
	assert.ErrorIs(t, stopped, ErrStop)
	assert.Contains(t, stopped.Error(), "server rest-server failed to stop")
}
