package servers

import (
	"net/http"

	"github.com/qmdx00/lifecycle"

	"didacta-calendar/pkg/resources"
)

// Server is anything Start can run in the background and stop on shutdown.
type Server interface {
	lifecycle.Server
}

type (
	BuildBaseServerFn func(closables ...resources.Closable) (string, Server)
	BuildHttpServerFn func(name string, server *http.Server) (string, Server)
)

var (
	_ Server = (*httpServer)(nil)
	_ Server = (*baseServer)(nil)

	_ BuildBaseServerFn = BuildBaseServer
	_ BuildHttpServerFn = BuildHttpServer
)
