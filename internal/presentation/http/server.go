package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/organization"
	"bannercms/app/internal/presentation/render"
	"bannercms/app/internal/presentation/templates"
)

// Options configures the HTTP server wiring.
type Options struct {
	Renderer        *render.ContentRenderer
	Templates       *templates.Set
	Banners         banner.Service
	Organizations   organization.Service
	Images          media.Repository
	Thumbnailer     media.Thumbnailer
	DB              *gorm.DB
	MediaRoot       string
	DefaultLanguage string
	Logger          *logrus.Logger
	SentryHub       *sentry.Hub
	RateLimiter     RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api             huma.API
	mux             *stdhttp.ServeMux
	renderer        *render.ContentRenderer
	templates       *templates.Set
	banners         banner.Service
	organizations   organization.Service
	images          media.Repository
	thumbnailer     media.Thumbnailer
	db              *gorm.DB
	mediaRoot       string
	defaultLanguage string
	logger          *logrus.Logger
	sentry          *sentry.Hub
	rateLimiter     *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	switch {
	case opts.Renderer == nil:
		return nil, eris.New("content renderer is required")
	case opts.Templates == nil:
		return nil, eris.New("template set is required")
	case opts.Banners == nil:
		return nil, eris.New("large banner service is required")
	case opts.Organizations == nil:
		return nil, eris.New("organization service is required")
	case opts.Images == nil:
		return nil, eris.New("image repository is required")
	case opts.Thumbnailer == nil:
		return nil, eris.New("thumbnailer is required")
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	language := strings.TrimSpace(opts.DefaultLanguage)
	if language == "" {
		language = "en"
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Banner CMS", "1.0.0")
	api := humago.New(mux, config)

	srv := &Server{
		api:             api,
		mux:             mux,
		renderer:        opts.Renderer,
		templates:       opts.Templates,
		banners:         opts.Banners,
		organizations:   opts.Organizations,
		images:          opts.Images,
		thumbnailer:     opts.Thumbnailer,
		db:              opts.DB,
		mediaRoot:       strings.TrimSpace(opts.MediaRoot),
		defaultLanguage: language,
		logger:          opts.Logger,
		sentry:          opts.SentryHub,
		rateLimiter:     NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL),
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Close()
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerStaticRoute()
	s.registerMediaRoute()

	s.registerPlaceholderRoute()
	s.registerPluginRoute()
	s.registerImageRoutes()
	s.registerBannerRoutes()
	s.registerOrganizationRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
