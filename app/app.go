package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ubigger/sales-report/config"
	httpapi "github.com/ubigger/sales-report/internal/api/http"
	"github.com/ubigger/sales-report/internal/auth/jwt"
	"github.com/ubigger/sales-report/internal/cache"
	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/permission"
	"github.com/ubigger/sales-report/internal/ratelimit"
	"github.com/ubigger/sales-report/internal/report"
	"github.com/ubigger/sales-report/internal/store"
)

// App is the main application
type App struct {
	hs      *httpapi.Server
	db      dependency.Repository
	limiter *ratelimit.ReportLimiter
	c       *config.Config
	done    chan struct{}
	once    sync.Once
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting sales report")

	db, err := store.New(ctx, a.c.DB, store.Exclusions{
		ProductCodes: a.c.Policy.ExcludedProductCodes,
		ShopLabels:   a.c.Policy.ExcludedShopLabels,
	})
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql", slog.String("err", err.Error()))
		return err
	}
	a.db = db

	shops, err := a.db.Shops().ListShops(ctx)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't load shop dictionary", slog.String("err", err.Error()))
		return err
	}
	dict, err := cache.NewCache(shops)
	if err != nil {
		return fmt.Errorf("bad shop dictionary: %w", err)
	}

	ja, _, err := jwt.New(&a.c.Auth)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed to create token verifier", slog.String("err", err.Error()))
		return err
	}

	classifier := permission.NewClassifier(a.c.Policy)
	resolver := permission.NewResolver(classifier, a.db.Roster())
	reports := report.New(a.c.Report, resolver, a.db.Sales(), a.db.Roster(), dict, a.db.Fixtures())

	a.limiter = ratelimit.NewReportLimiter(a.c.RateLimit)

	a.hs = httpapi.New(&a.c.HTTP, reports, classifier, ja, a.limiter)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		return err
	}

	go func() {
		<-a.hs.Done()
		a.closeOnce()
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown", slog.String("err", err.Error()))
		}
		<-a.hs.Done()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.closeOnce()
}

func (a *App) closeOnce() {
	a.once.Do(func() { close(a.done) })
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
