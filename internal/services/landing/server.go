package landing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/tutoring-landing/internal/platform/grpc"
	"github.com/louisbranch/tutoring-landing/internal/platform/timeouts"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/booking"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/httpx"
	"github.com/louisbranch/tutoring-landing/internal/services/landing/i18n"
)

// HealthServiceName is the grpc.health.v1 service name reported by the ops server.
const HealthServiceName = "landing"

// Config defines the landing server settings.
type Config struct {
	// HTTPAddr is the page listen address.
	HTTPAddr string
	// OpsAddr, when set, serves grpc.health.v1 on a separate listener.
	OpsAddr string
	// CalendarURL is the external booking page; empty uses booking.CalendarURL.
	CalendarURL string
	// DefaultLang is the locale used when a request expresses none.
	DefaultLang string
	// Logger receives access lines; nil uses the standard logger.
	Logger *log.Logger
}

// Server hosts the landing page and the optional ops health endpoint.
type Server struct {
	httpAddr   string
	opsAddr    string
	httpServer *http.Server
	health     opsHealth
}

// opsHealth is the ops endpoint lifecycle used by ListenAndServe.
type opsHealth interface {
	SetServing(serving bool)
	Serve(ctx context.Context, lis net.Listener, grace time.Duration) error
}

// NewHandler builds the landing HTTP handler with its middleware stack.
func NewHandler(config Config) (http.Handler, error) {
	calendarURL := strings.TrimSpace(config.CalendarURL)
	if calendarURL == "" {
		calendarURL = booking.CalendarURL
	}
	parsed, err := url.Parse(calendarURL)
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return nil, fmt.Errorf("calendar url must be an absolute http(s) url: %q", calendarURL)
	}

	resolver, err := i18n.NewResolver(config.DefaultLang)
	if err != nil {
		return nil, fmt.Errorf("default language: %w", err)
	}
	table, err := i18n.LoadTable()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, handlers{
		table:       table,
		resolver:    resolver,
		calendarURL: calendarURL,
	})

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(),
		httpx.RequestLogger(config.Logger),
		httpx.ReadOnly(),
	), nil
}

// NewServer creates a configured landing server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	server := &Server{
		httpAddr: httpAddr,
		opsAddr:  strings.TrimSpace(config.OpsAddr),
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}
	if server.opsAddr != "" {
		server.health = platformgrpc.NewHealthServer(HealthServiceName)
	}
	return server, nil
}

// ListenAndServe serves HTTP (and the ops health server when configured)
// until ctx ends, then shuts both down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("landing server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opsErr := make(chan error, 1)
	if s.health != nil {
		lis, err := net.Listen("tcp", s.opsAddr)
		if err != nil {
			return fmt.Errorf("listen ops: %w", err)
		}
		go func() {
			opsErr <- s.health.Serve(runCtx, lis, timeouts.Shutdown)
		}()
	} else {
		close(opsErr)
	}

	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		cancel()
		<-opsErr
		return fmt.Errorf("listen http: %w", err)
	}

	serveErr := make(chan error, 1)
	log.Printf("landing listening on %s", httpLis.Addr())
	go func() {
		serveErr <- s.httpServer.Serve(httpLis)
	}()
	if s.health != nil {
		s.health.SetServing(true)
	}

	var result error
	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.SetServing(false)
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		shutdownCancel()
		if err != nil {
			result = fmt.Errorf("shutdown http server: %w", err)
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = fmt.Errorf("serve http: %w", err)
		}
	}

	cancel()
	if err := <-opsErr; err != nil && result == nil {
		result = err
	}
	return result
}

// Close releases server resources immediately.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		log.Printf("close http server: %v", err)
	}
}
