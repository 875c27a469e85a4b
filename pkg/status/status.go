package status

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/jirwin/qbot/pkg/reconnect"
)

type Config struct {
	ListenAddress string
}

// NewConfig takes the address from the config file. QBOT_STATUS_LISTEN_ADDR
// overrides it. An empty address disables the server.
func NewConfig(listenAddress string) (Config, error) {
	c := Config{ListenAddress: listenAddress}

	if addr := os.Getenv("QBOT_STATUS_LISTEN_ADDR"); addr != "" {
		c.ListenAddress = addr
	}

	return c, nil
}

type Server struct {
	l       *zap.Logger
	c       Config
	tracker *reconnect.Tracker
	server  *http.Server

	router *mux.Router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.l.Error("listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	s.l.Info("Shutting down status server")
	// shut down gracefully, but wait no longer than 5 seconds before halting
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
	s.l.Info("Shut down status server")
}

func (s *Server) handleStatus(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(rw).Encode(s.tracker.Snapshot())
	if err != nil {
		s.l.Error("error encoding status", zap.Error(err))
	}
}

func (s *Server) handleHealth(rw http.ResponseWriter, r *http.Request) {
	if s.tracker.Snapshot().State == reconnect.Disconnected {
		rw.WriteHeader(http.StatusServiceUnavailable)
		_, _ = rw.Write([]byte("disconnected\n"))
		return
	}
	_, _ = rw.Write([]byte("ok\n"))
}

func (s *Server) registerRoute(path string, f http.HandlerFunc, methods ...string) {
	s.router.HandleFunc(path, f).Methods(methods...)
	s.l.Debug("registering route", zap.String("path", path), zap.Strings("methods", methods))
}

func New(c Config, l *zap.Logger, tracker *reconnect.Tracker) (*Server, error) {
	router := mux.NewRouter()
	s := &Server{
		l:       l.Named("status-server"),
		c:       c,
		tracker: tracker,
		router:  router,
		server: &http.Server{
			Addr:    c.ListenAddress,
			Handler: router,
		},
	}

	s.registerRoute("/status", s.handleStatus, http.MethodGet)
	s.registerRoute("/healthz", s.handleHealth, http.MethodGet)

	return s, nil
}
