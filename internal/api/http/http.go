package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ubigger/sales-report/internal/entity"
	"github.com/ubigger/sales-report/internal/middleware"
	"github.com/ubigger/sales-report/internal/ratelimit"
	"github.com/ubigger/sales-report/internal/report"
	"github.com/ubigger/sales-report/log"
)

// Config is the configuration for the http server
type Config struct {
	Port           string        `mapstructure:"port"`
	Address        string        `mapstructure:"address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	Timezone       string        `mapstructure:"timezone"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Reporter is the report service exposed over HTTP.
type Reporter interface {
	ComputeKPI(ctx context.Context, u *entity.User, req entity.RequestFilter) (*entity.KPISummary, error)
	ComputeRanking(ctx context.Context, u *entity.User, req report.RankingRequest) ([]entity.RankingRow, error)
	ComputeProductBreakdown(ctx context.Context, u *entity.User, req report.BreakdownRequest) ([]entity.DetailRow, error)
	ListProductOrders(ctx context.Context, u *entity.User, req report.ProductOrdersRequest) ([]entity.SalesLine, error)
	ListShops(ctx context.Context, u *entity.User) ([]entity.Shop, error)
	ListSalespeople(ctx context.Context, u *entity.User, shop string) ([]string, error)
}

// RoleClassifier derives the role shown to the caller.
type RoleClassifier interface {
	Role(u *entity.User) entity.Role
}

// Server is the http server
type Server struct {
	hs       *http.Server
	c        *Config
	reports  Reporter
	roles    RoleClassifier
	jwtAuth  *jwtauth.JWTAuth
	limiter  *ratelimit.ReportLimiter
	loc      *time.Location
	done     chan struct{}
	shutdown chan struct{}
}

// New creates a new server
func New(c *Config, reports Reporter, roles RoleClassifier, jwtAuth *jwtauth.JWTAuth, limiter *ratelimit.ReportLimiter) *Server {
	loc := time.Local
	if c.Timezone != "" {
		l, err := time.LoadLocation(c.Timezone)
		if err != nil {
			slog.Default().Warn("unknown timezone, using local time",
				slog.String("timezone", c.Timezone),
				slog.String("err", err.Error()),
			)
		} else {
			loc = l
		}
	}
	return &Server{
		c:        c,
		reports:  reports,
		roles:    roles,
		jwtAuth:  jwtAuth,
		limiter:  limiter,
		loc:      loc,
		done:     make(chan struct{}),
		shutdown: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Identify)
	r.Use(log.RequestLogger(slog.Default()))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.c.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	if s.c.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.c.RequestTimeout))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.jwtAuth))
		r.Use(s.authenticate)
		r.Use(s.rateLimit)

		r.Get("/me", s.me)

		r.Route("/report", func(r chi.Router) {
			r.Get("/kpi", s.kpi)
			r.Get("/ranking-quantity", s.ranking(entity.MetricQuantity))
			r.Get("/ranking-sales", s.ranking(entity.MetricRevenue))
			r.Get("/product-detail", s.productDetail)
			r.Get("/product-order-details", s.productOrders)
		})
		r.Route("/filters", func(r chi.Router) {
			r.Get("/shops", s.shops)
			r.Get("/salespeople", s.salespeople)
		})
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		slog.Default().InfoContext(ctx, fmt.Sprintf("sales-report new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
			return
		}
		slog.Default().ErrorContext(ctx, "http server exited with an error",
			slog.String("err", err.Error()),
		)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.hs.Shutdown(ctx)
}
