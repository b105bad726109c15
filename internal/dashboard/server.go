// Package dashboard serves the interactive impact dashboard, its JSON API
// and the chart, report and logo downloads.
package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sustrend/zeroe-viz/internal/branding"
	"github.com/sustrend/zeroe-viz/internal/chart"
	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed copy/*.md
var copyFS embed.FS

// Version is shown in the sidebar.
const Version = "1.0"

// Options configures a Server.
type Options struct {
	Calculator  *simulate.Calculator
	Renderer    *chart.Renderer
	Logos       *branding.Fetcher // nil disables the logo footer
	CORSOrigins []string
	ChartRate   float64 // chart renders per second; <= 0 disables limiting
	ChartBurst  int
	LogoTimeout time.Duration
	ReportTitle string
}

// Server holds the dashboard's dependencies and routes.
type Server struct {
	opts    Options
	calc    *simulate.Calculator
	render  *chart.Renderer
	logos   *branding.Fetcher
	limiter *rate.Limiter
	page    *template.Template
	intro   template.HTML
	info    template.HTML
	router  chi.Router
}

// New creates a Server. Calculator and Renderer are required.
func New(opts Options) (*Server, error) {
	if opts.Calculator == nil {
		return nil, eris.New("dashboard: calculator is required")
	}
	if opts.Renderer == nil {
		return nil, eris.New("dashboard: renderer is required")
	}
	if opts.LogoTimeout <= 0 {
		opts.LogoTimeout = 10 * time.Second
	}
	if opts.ReportTitle == "" {
		opts.ReportTitle = "Zero-E impact projection"
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: parse template")
	}
	intro, err := renderMarkdown("copy/intro.md")
	if err != nil {
		return nil, err
	}
	info, err := renderMarkdown("copy/info.md")
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   opts,
		calc:   opts.Calculator,
		render: opts.Renderer,
		logos:  opts.Logos,
		page:   page,
		intro:  intro,
		info:   info,
	}
	if opts.ChartRate > 0 {
		burst := opts.ChartBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.ChartRate), burst)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/parameters", s.handleParameters)
		r.Get("/simulate", s.handleSimulate)
		r.Post("/simulate", s.handleSimulate)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/charts/{name}.png", s.handleChart)
		r.Get("/report.xlsx", s.handleReport)
	})

	r.Get("/logos/{name}", s.handleLogo)
	return r
}

// rateLimit rejects requests beyond the chart token bucket with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			monitoring.RateLimitExceeded.WithLabelValues(routePattern(r)).Inc()
			respondError(w, http.StatusTooManyRequests, "too many chart requests, retry shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with zap and counts it by route.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		monitoring.HTTPRequestsTotal.WithLabelValues(route, http.StatusText(status)).Inc()

		zap.L().Debug("dashboard: request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func renderMarkdown(name string) (template.HTML, error) {
	src, err := copyFS.ReadFile(name)
	if err != nil {
		return "", eris.Wrapf(err, "dashboard: read %s", name)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", eris.Wrapf(err, "dashboard: render %s", name)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // embedded copy
}
