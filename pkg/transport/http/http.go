package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/samueltorres/countd/pkg/counter"
)

type Server struct {
	counter *counter.CounterService
	router  *mux.Router
	logger  *logrus.Logger
	server  *http.Server
	listen  string
}

type Option func(*Server)

func WithListen(addr string) Option {
	return func(s *Server) {
		s.listen = addr
	}
}

func New(counterService *counter.CounterService, logger *logrus.Logger, registerer prometheus.Registerer, opts ...Option) *Server {
	server := &Server{
		router:  mux.NewRouter(),
		counter: counterService,
		logger:  logger,
		listen:  ":8080",
	}

	for _, opt := range opts {
		opt(server)
	}

	server.registerRoutes(registerer)
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) registerRoutes(registerer prometheus.Registerer) {
	mm := NewMetricsMiddleware(registerer)

	s.router.HandleFunc("/", mm.Handler("counter", s.handleGetCount)).Methods("GET")
	s.router.HandleFunc("/", mm.Handler("counter", s.handlePostCount)).Methods("POST")
	s.router.HandleFunc("/health", mm.Handler("health", s.handleHealth)).Methods("GET")
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.listen,
		Handler: s.router,
	}

	s.logger.Infof("http server listening on %s", s.listen)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(err error) {
	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Errorf("http server shutdown: %v", err)
	}
}
