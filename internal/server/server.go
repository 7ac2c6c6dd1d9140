package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/upgrader/pkg/cache"
	"github.com/matzehuels/upgrader/pkg/check"
	upgerr "github.com/matzehuels/upgrader/pkg/errors"
)

const (
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = time.Hour

	// maxManifestBytes bounds the body of a check request.
	maxManifestBytes = 4 << 20

	shutdownTimeout = 10 * time.Second
)

// SessionObserver is notified when sessions open and close.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

type session struct {
	id       string
	cache    *cache.Cache
	checker  *check.Checker
	lastUsed time.Time
}

// Server holds the open sessions and serves the HTTP API.
type Server struct {
	newCache    func() *cache.Cache
	logger      *log.Logger
	ttl         time.Duration
	concurrency int
	metrics     http.Handler
	observer    SessionObserver
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionTTL sets the idle time after which a session is dropped.
// Non-positive values select [DefaultSessionTTL].
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithConcurrency bounds parallel lookups per check request.
func WithConcurrency(n int) Option {
	return func(s *Server) { s.concurrency = n }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithSessionObserver reports session open and close events to o.
func WithSessionObserver(o SessionObserver) Option {
	return func(s *Server) { s.observer = o }
}

// New creates a Server. newCache is called once per session.
func New(newCache func() *cache.Cache, opts ...Option) *Server {
	s := &Server{
		newCache:    newCache,
		logger:      log.New(io.Discard),
		ttl:         DefaultSessionTTL,
		concurrency: check.DefaultConcurrency,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleClose)
			r.Post("/check", s.handleCheck)
			r.Get("/resolve", s.handleResolve)
			r.Delete("/cache", s.handleClear)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Idle sessions are swept every ttl/4 while running.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(max(s.ttl/4, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Expire(); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}

// Open creates a session with its own cache and returns its ID.
func (s *Server) Open() string {
	c := s.newCache()
	sess := &session{
		id:       uuid.NewString(),
		cache:    c,
		checker:  check.New(c, check.WithConcurrency(s.concurrency), check.WithLogger(s.logger)),
		lastUsed: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.SessionOpened()
	}
	return sess.id
}

// Close drops the session. It reports whether the session existed.
func (s *Server) Close(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok && s.observer != nil {
		s.observer.SessionClosed()
	}
	return ok
}

// Expire drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Server) Expire() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if s.observer != nil {
		for range expired {
			s.observer.SessionClosed()
		}
	}
	return len(expired)
}

// Len returns the number of open sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookupSession returns the session and marks it used.
func (s *Server) lookupSession(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, upgerr.New(upgerr.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.lastUsed = s.now()
	return sess, nil
}
