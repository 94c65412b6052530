package util

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/pkg/errors"
)

// MonitorServer serves the HTTP trigger. Port 0 means listen_port from config.
type MonitorServer struct {
	Port int

	running *sync.Mutex
	mux     *http.ServeMux
	srv     *http.Server
	srvMu   sync.RWMutex // protects srv field
}

func NewMonitorServer() *MonitorServer {
	var s MonitorServer
	s.running = &sync.Mutex{}
	s.mux = http.NewServeMux()
	s.srv = &http.Server{}
	return &s
}

func (s *MonitorServer) addr() string {
	port := s.Port
	if port == 0 {
		port = Config.GetInt("listen_port")
	}
	return fmt.Sprintf(":%d", port)
}

// Start binds the listen address and serves in the background. A bind failure
// is returned to the caller and leaves the server stopped.
func (s *MonitorServer) Start() error {
	if !s.running.TryLock() {
		return fmt.Errorf("already running")
	}
	// running stays locked until the serving goroutine exits

	addr := s.addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.running.Unlock()
		return errors.Wrapf(err, "listening on %s", addr)
	}

	newSrv := &http.Server{Addr: addr, Handler: s.mux}
	s.srvMu.Lock()
	s.srv = newSrv
	s.srvMu.Unlock()

	go func() {
		Logger.Info().Msgf("listening on %s", addr)
		if err := newSrv.Serve(ln); err != http.ErrServerClosed {
			Logger.Warn().Msgf("Problem loading monitor server: %v", err)
		}
		Logger.Debug().Msg("monitor server shutdown")
		s.running.Unlock()
	}()
	return nil
}

func (s *MonitorServer) AddHandler(path string, handler func(http.ResponseWriter, *http.Request)) {
	s.mux.HandleFunc(path, handler)
}

func (s *MonitorServer) AddRawHandler(path string, handler http.Handler) {
	s.mux.Handle(path, handler)
}

func (s *MonitorServer) Handler() http.Handler {
	return s.mux
}

// Shutdown stops the server if it is running and waits for it to exit.
func (s *MonitorServer) Shutdown(ctx context.Context) {
	if s.running.TryLock() {
		s.running.Unlock()
		return
	}
	s.srvMu.RLock()
	currentSrv := s.srv
	s.srvMu.RUnlock()

	if err := currentSrv.Shutdown(ctx); err != nil {
		Logger.Error().Msgf("Error shutting down monitor server: %v", err)
	}
	s.running.Lock() // released by the serving goroutine on exit
	s.running.Unlock()
}

func (s *MonitorServer) Restart() {
	Logger.Debug().Msg("restarting monitor server")
	s.Shutdown(context.TODO())
	Logger.Debug().Msg("http not running - good for startup")
	if err := s.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
}
