package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
	gerr "github.com/ubigger/sales-report/internal/errors"
	"github.com/ubigger/sales-report/internal/permission"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Config is the report configuration.
type Config struct {
	DefaultCap         int `mapstructure:"default_cap"`
	UnrankedRank       int `mapstructure:"unranked_rank"`
	TierSize           int `mapstructure:"tier_size"`
	FixtureConcurrency int `mapstructure:"fixture_concurrency"`
}

const (
	DefaultCap                = 20
	DefaultFixtureConcurrency = 8
)

// RankingRequest is a product ranking query.
type RankingRequest struct {
	Filter entity.RequestFilter
	Metric entity.Metric
	// Cap limits the number of rows. Zero selects the configured default.
	Cap             int
	CompareGlobal   bool
	CompareLastYear bool
}

// BreakdownRequest is a per-product breakdown query.
type BreakdownRequest struct {
	ProductKey string
	GroupBy    entity.GroupBy
	Metric     entity.Metric
	Period     entity.TimeRange
	// Shop narrows the salesperson grouping to one shop. It is subject to the
	// same authorization as a shop filter.
	Shop string
}

// ProductOrdersRequest lists the order lines of one product.
type ProductOrdersRequest struct {
	ProductKey string
	Filter     entity.RequestFilter
}

// Service exposes the scoped reports to the transport layer.
type Service struct {
	c        Config
	resolver *permission.Resolver
	sales    dependency.SalesLines
	roster   dependency.Roster
	shops    dependency.ShopDictionary
	fixtures dependency.Fixtures
}

// New creates a new report service. fixtures may be nil.
func New(c Config, resolver *permission.Resolver, sales dependency.SalesLines, roster dependency.Roster, shops dependency.ShopDictionary, fixtures dependency.Fixtures) *Service {
	if c.DefaultCap <= 0 {
		c.DefaultCap = DefaultCap
	}
	if c.UnrankedRank <= 0 {
		c.UnrankedRank = DefaultUnrankedRank
	}
	if c.TierSize <= 0 {
		c.TierSize = DefaultTierSize
	}
	if c.FixtureConcurrency <= 0 {
		c.FixtureConcurrency = DefaultFixtureConcurrency
	}
	return &Service{
		c:        c,
		resolver: resolver,
		sales:    sales,
		roster:   roster,
		shops:    shops,
		fixtures: fixtures,
	}
}

func (s *Service) fetch(ctx context.Context, scope entity.ScopeFilter) ([]entity.SalesLine, error) {
	if scope.Denied {
		return nil, nil
	}
	lines, err := s.sales.FetchSalesLines(ctx, scope.SalesFilter())
	if err != nil {
		return nil, gerr.DataAccess("fetch sales lines", err)
	}
	return ApplyScope(lines, scope), nil
}

// ComputeKPI returns the summary of the data the user may see.
func (s *Service) ComputeKPI(ctx context.Context, u *entity.User, req entity.RequestFilter) (*entity.KPISummary, error) {
	scope, err := s.resolver.Resolve(ctx, u, req)
	if err != nil {
		return nil, err
	}
	lines, err := s.fetch(ctx, scope)
	if err != nil {
		return nil, err
	}
	kpi := ComputeKPI(lines)
	return &kpi, nil
}

// ComputeRanking ranks products within the user's scope. Comparison rankings
// are fetched concurrently with the main one.
func (s *Service) ComputeRanking(ctx context.Context, u *entity.User, req RankingRequest) ([]entity.RankingRow, error) {
	if !req.Metric.Valid() {
		return nil, gerr.InvalidArgument("unknown metric %q", req.Metric)
	}
	if req.Cap < 0 {
		return nil, gerr.InvalidArgument("cap must not be negative")
	}
	limit := req.Cap
	if limit == 0 {
		limit = s.c.DefaultCap
	}

	scope, err := s.resolver.Resolve(ctx, u, req.Filter)
	if err != nil {
		return nil, err
	}
	if scope.Denied {
		return []entity.RankingRow{}, nil
	}

	var restricted, global, lastYear []entity.RankingRow
	compareGlobal := req.CompareGlobal && scope.Restricted()
	compareLastYear := req.CompareLastYear && scope.Period.IsBounded()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.fetch(gctx, scope)
		if err != nil {
			return err
		}
		restricted = RankProducts(lines, req.Metric, limit)
		return nil
	})
	if compareGlobal {
		g.Go(func() error {
			lines, err := s.fetch(gctx, scope.Global())
			if err != nil {
				return err
			}
			global = RankProducts(lines, req.Metric, 0)
			return nil
		})
	}
	if compareLastYear {
		g.Go(func() error {
			prev := scope
			prev.Period = scope.Period.ShiftYears(-1)
			lines, err := s.fetch(gctx, prev)
			if err != nil {
				return err
			}
			lastYear = RankProducts(lines, req.Metric, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := restricted
	if compareGlobal {
		rows = MergeWithGlobal(rows, global)
	}
	if compareLastYear {
		rows = AttachLastYear(rows, lastYear)
	}
	return rows, nil
}

// ComputeProductBreakdown breaks one product down by shop or by salesperson
// over the whole company so that ranks stay comparable between scopes.
func (s *Service) ComputeProductBreakdown(ctx context.Context, u *entity.User, req BreakdownRequest) ([]entity.DetailRow, error) {
	if u == nil {
		return nil, gerr.ErrUnauthorized
	}
	if req.ProductKey == "" {
		return nil, gerr.InvalidArgument("product key is required")
	}
	if !req.GroupBy.Valid() {
		return nil, gerr.InvalidArgument("unknown grouping %q", req.GroupBy)
	}
	metric := req.Metric
	if metric == "" {
		metric = entity.MetricRevenue
	}
	if !metric.Valid() {
		return nil, gerr.InvalidArgument("unknown metric %q", req.Metric)
	}

	var narrowTo *string
	if req.GroupBy == entity.GroupBySalesperson {
		shop, ok := s.resolver.ResolveShop(u, req.Shop)
		if !ok {
			return []entity.DetailRow{}, nil
		}
		narrowTo = shop
	}

	window, err := s.sales.FetchSalesLines(ctx, entity.SalesFilter{
		Period:         req.Period,
		IncludeReturns: true,
	})
	if err != nil {
		return nil, gerr.DataAccess("fetch breakdown window", err)
	}
	window = ApplyScope(window, entity.ScopeFilter{Period: req.Period})

	opts := BreakdownOptions{
		Metric:       metric,
		UnrankedRank: s.c.UnrankedRank,
		TierSize:     s.c.TierSize,
	}
	if req.GroupBy == entity.GroupBySalesperson {
		return BreakdownBySalesperson(window, req.ProductKey, opts, narrowTo), nil
	}

	rows := BreakdownByShop(window, req.ProductKey, opts)
	s.flagOnDisplay(ctx, req.ProductKey, rows)
	return rows, nil
}

// ListProductOrders returns the order lines of one product within the
// user's scope, latest payment first.
func (s *Service) ListProductOrders(ctx context.Context, u *entity.User, req ProductOrdersRequest) ([]entity.SalesLine, error) {
	if u == nil {
		return nil, gerr.ErrUnauthorized
	}
	if req.ProductKey == "" {
		return nil, gerr.InvalidArgument("product key is required")
	}
	scope, err := s.resolver.Resolve(ctx, u, req.Filter)
	if err != nil {
		return nil, err
	}
	if scope.Denied {
		return []entity.SalesLine{}, nil
	}

	f := scope.SalesFilter()
	f.ProductKey = &req.ProductKey
	lines, err := s.sales.FetchSalesLines(ctx, f)
	if err != nil {
		return nil, gerr.DataAccess("fetch product orders", err)
	}

	out := make([]entity.SalesLine, 0, len(lines))
	for _, l := range ApplyScope(lines, scope) {
		if l.ProductKey == req.ProductKey {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaidAt.After(out[j].PaidAt)
	})
	return out, nil
}

// flagOnDisplay sets OnDisplay on shop rows. Lookup failures leave the flag
// unset and never fail the breakdown.
func (s *Service) flagOnDisplay(ctx context.Context, productKey string, rows []entity.DetailRow) {
	if s.fixtures == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.c.FixtureConcurrency)
	for i := range rows {
		if rows[i].ShopID == "" {
			continue
		}
		i := i
		g.Go(func() error {
			on, err := s.fixtures.IsOnDisplay(gctx, productKey, rows[i].ShopID)
			if err != nil {
				slog.Default().WarnContext(gctx, "display fixture lookup failed",
					slog.String("product_key", productKey),
					slog.String("shop_id", rows[i].ShopID),
					slog.String("err", err.Error()),
				)
				return nil
			}
			rows[i].OnDisplay = &on
			return nil
		})
	}
	_ = g.Wait()
}

// ListShops returns the shops the user may filter by.
func (s *Service) ListShops(ctx context.Context, u *entity.User) ([]entity.Shop, error) {
	if u == nil {
		return nil, gerr.ErrUnauthorized
	}
	all := s.shops.GetAllShops()
	ids, unrestricted := s.resolver.AllowedShopIDs(u)
	if unrestricted {
		return all, nil
	}
	out := make([]entity.Shop, 0, len(ids))
	for _, id := range ids {
		if shop, ok := s.shops.GetShopByID(id); ok {
			out = append(out, shop)
		}
	}
	return out, nil
}

// ListSalespeople returns the salespeople the user may filter by, optionally
// within one shop, in Chinese collation order.
func (s *Service) ListSalespeople(ctx context.Context, u *entity.User, shop string) ([]string, error) {
	if u == nil {
		return nil, gerr.ErrUnauthorized
	}
	if s.resolver.Role(u) == entity.RoleEmployee {
		self, ok, err := s.resolver.ResolveSalesperson(ctx, u, "")
		if err != nil {
			return nil, fmt.Errorf("resolve salesperson: %w", err)
		}
		if !ok {
			return []string{}, nil
		}
		return []string{*self}, nil
	}

	shopName, ok := s.resolver.ResolveShop(u, shop)
	if !ok {
		return []string{}, nil
	}
	names, err := s.roster.ListSalespeople(ctx, shopName)
	if err != nil {
		return nil, gerr.DataAccess("list salespeople", err)
	}
	sortNames(names)
	return names, nil
}

func sortNames(names []string) {
	cl := collate.New(language.Chinese)
	sort.SliceStable(names, func(i, j int) bool {
		return cl.CompareString(names[i], names[j]) < 0
	})
}
