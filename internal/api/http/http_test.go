package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubigger/sales-report/internal/auth/jwt"
	"github.com/ubigger/sales-report/internal/entity"
	gerr "github.com/ubigger/sales-report/internal/errors"
	"github.com/ubigger/sales-report/internal/ratelimit"
	"github.com/ubigger/sales-report/internal/report"
)

type fakeReporter struct {
	user      *entity.User
	filter    entity.RequestFilter
	ranking   report.RankingRequest
	breakdown report.BreakdownRequest
	orders    report.ProductOrdersRequest
	err       error
}

func (f *fakeReporter) ComputeKPI(_ context.Context, u *entity.User, req entity.RequestFilter) (*entity.KPISummary, error) {
	f.user, f.filter = u, req
	if f.err != nil {
		return nil, f.err
	}
	return &entity.KPISummary{TotalQuantity: 12, TotalRevenue: decimal.NewFromInt(1500), ProductCount: 3, OrderCount: 4}, nil
}

func (f *fakeReporter) ComputeRanking(_ context.Context, u *entity.User, req report.RankingRequest) ([]entity.RankingRow, error) {
	f.user, f.ranking = u, req
	if f.err != nil {
		return nil, f.err
	}
	gv := decimal.NewFromInt(40)
	gr := 2
	ratio := 25.0
	st := entity.StatusAhead
	return []entity.RankingRow{{
		Rank: 1, ProductKey: "P1", ProductVariant: "M", Value: decimal.NewFromInt(10), Percentage: 100,
		GlobalValue: &gv, GlobalRank: &gr, Ratio: &ratio, Status: &st,
	}}, nil
}

func (f *fakeReporter) ComputeProductBreakdown(_ context.Context, u *entity.User, req report.BreakdownRequest) ([]entity.DetailRow, error) {
	f.user, f.breakdown = u, req
	if f.err != nil {
		return nil, f.err
	}
	on := true
	return []entity.DetailRow{{Name: "S1", ShopName: "S1", Quantity: 3, Revenue: decimal.NewFromInt(300), Rank: 1, Percentage: 100, WeightedTier: 1, OnDisplay: &on}}, nil
}

func (f *fakeReporter) ListProductOrders(_ context.Context, u *entity.User, req report.ProductOrdersRequest) ([]entity.SalesLine, error) {
	f.user, f.orders = u, req
	if f.err != nil {
		return nil, f.err
	}
	return []entity.SalesLine{{
		OrderID:        "SO-1",
		PaidAt:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		ShopName:       "S1",
		SellerName:     "张三",
		ProductKey:     "P1",
		ProductVariant: "M",
		Quantity:       2,
		UnitPrice:      decimal.NewFromInt(150),
	}}, nil
}

func (f *fakeReporter) ListShops(_ context.Context, u *entity.User) ([]entity.Shop, error) {
	f.user = u
	return []entity.Shop{{ID: "3", Name: "S1"}}, f.err
}

func (f *fakeReporter) ListSalespeople(_ context.Context, u *entity.User, shop string) ([]string, error) {
	f.user = u
	f.filter.Shop = shop
	return nil, f.err
}

type fixedRole entity.Role

func (r fixedRole) Role(*entity.User) entity.Role { return entity.Role(r) }

func newTestServer(t *testing.T, rep Reporter, limiter *ratelimit.ReportLimiter) (http.Handler, *jwtauth.JWTAuth) {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	s := New(&Config{Timezone: "UTC", AllowedOrigins: []string{"*"}}, rep, fixedRole(entity.RoleManager), ja, limiter)
	return s.Handler(), ja
}

func tokenFor(t *testing.T, ja *jwtauth.JWTAuth) string {
	t.Helper()
	shopID := 3
	shop := "S1"
	tok, err := jwt.NewUserToken(ja, time.Hour, &entity.User{ID: 7, LoginID: "lisi", RoleCode: 41, ShopID: &shopID, ShopName: &shop})
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, h http.Handler, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, &fakeReporter{}, nil)
	rec := do(t, h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestUnauthenticated(t *testing.T) {
	rep := &fakeReporter{}
	h, _ := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/kpi", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, "/api/report/kpi", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, rep.user)
}

func TestKPI(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/kpi?shop=S2&startDate=2024-03-01&endDate=2024-03-31", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 12, body["totalQuantity"])
	assert.Equal(t, "1500", body["totalSales"])
	assert.EqualValues(t, 3, body["productCount"])
	assert.EqualValues(t, 4, body["orderCount"])

	require.NotNil(t, rep.user)
	assert.Equal(t, "lisi", rep.user.LoginID)
	assert.Equal(t, 41, rep.user.RoleCode)
	assert.Equal(t, "S2", rep.filter.Shop)
	loc := time.UTC
	assert.True(t, rep.filter.Period.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)))
	assert.True(t, rep.filter.Period.Contains(time.Date(2024, 3, 31, 23, 0, 0, 0, loc)))
}

func TestKPIInvalidDate(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/kpi?startDate=03/01/2024", tokenFor(t, ja))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "InvalidArgument", body.Code)
	assert.NotEmpty(t, body.Details)
	assert.Nil(t, rep.user)
}

func TestRanking(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/ranking-sales?limit=5&compare=true&yoy=1", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.MetricRevenue, rep.ranking.Metric)
	assert.Equal(t, 5, rep.ranking.Cap)
	assert.True(t, rep.ranking.CompareGlobal)
	assert.True(t, rep.ranking.CompareLastYear)

	var body struct {
		Rankings []map[string]any `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rankings, 1)
	row := body.Rankings[0]
	assert.Equal(t, "P1", row["goodsName"])
	assert.Equal(t, "10", row["salesAmount"])
	assert.Equal(t, "40", row["totalSales"])
	assert.Equal(t, "green", row["status"])
	assert.Equal(t, "ahead", row["rankStatus"])
	assert.NotContains(t, row, "quantity")

	rec = do(t, h, "/api/report/ranking-quantity", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.MetricQuantity, rep.ranking.Metric)
	assert.Zero(t, rep.ranking.Cap)
	assert.False(t, rep.ranking.CompareGlobal)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10", body.Rankings[0]["quantity"])
	assert.Equal(t, "40", body.Rankings[0]["totalQuantity"])
}

func TestRankingBadLimit(t *testing.T) {
	h, ja := newTestServer(t, &fakeReporter{}, nil)
	rec := do(t, h, "/api/report/ranking-sales?limit=-1", tokenFor(t, ja))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDetail(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/product-detail?goodsName=P1&type=quantity&groupBy=salesperson&shop=S1", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "P1", rep.breakdown.ProductKey)
	assert.Equal(t, entity.MetricQuantity, rep.breakdown.Metric)
	assert.Equal(t, entity.GroupBySalesperson, rep.breakdown.GroupBy)
	assert.Equal(t, "S1", rep.breakdown.Shop)

	var body struct {
		Details []map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "300", body.Details[0]["salesAmount"])
	assert.Equal(t, true, body.Details[0]["isDisplay"])
	assert.EqualValues(t, 1, body.Details[0]["rankTier"])

	rec = do(t, h, "/api/report/product-detail", tokenFor(t, ja))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductOrderDetails(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/product-order-details?goodsName=P1&shop=S1&startDate=2024-03-01", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "P1", rep.orders.ProductKey)
	assert.Equal(t, "S1", rep.orders.Filter.Shop)
	assert.JSONEq(t, `{"orderDetails":[{
		"orderSn":"SO-1","payTime":"2024-03-15 10:30:00","shopName":"S1","salesperson":"张三",
		"goodsName":"P1","goodsSpec":"M","quantity":2,"unitPrice":"150","salesAmount":"300"}]}`, rec.Body.String())

	rec = do(t, h, "/api/report/product-order-details?shop=S1", tokenFor(t, ja))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilters(t *testing.T) {
	rep := &fakeReporter{}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/filters/shops", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shops":[{"name":"S1","value":"3"}]}`, rec.Body.String())

	rec = do(t, h, "/api/filters/salespeople?shop=S1", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"salespeople":[]}`, rec.Body.String())
	assert.Equal(t, "S1", rep.filter.Shop)
}

func TestMe(t *testing.T) {
	h, ja := newTestServer(t, &fakeReporter{}, nil)
	rec := do(t, h, "/api/me", tokenFor(t, ja))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"lisi","role":"manager","roleName":"店长","shopName":"S1"}`, rec.Body.String())
}

func TestDataAccessFailureIsMasked(t *testing.T) {
	rep := &fakeReporter{err: gerr.DataAccess("list sales lines", errors.New("dial tcp: connection refused"))}
	h, ja := newTestServer(t, rep, nil)

	rec := do(t, h, "/api/report/kpi", tokenFor(t, ja))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewReportLimiter(ratelimit.Config{Window: time.Minute, LoginReports: 1})
	defer limiter.Stop()
	h, ja := newTestServer(t, &fakeReporter{}, limiter)
	tok := tokenFor(t, ja)

	assert.Equal(t, http.StatusOK, do(t, h, "/api/report/kpi", tok).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, "/api/report/kpi", tok).Code)
}
