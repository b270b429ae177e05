package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/shopspring/decimal"
	"github.com/ubigger/sales-report/internal/entity"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errors

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string   `json:"status"`
	Code       string   `json:"code,omitempty"`
	ErrorText  string   `json:"error,omitempty"`
	Details    []string `json:"details,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrStatus maps an error carrying a grpc status to its HTTP form.
// Internal failures never leak their cause.
func ErrStatus(err error) render.Renderer {
	st := status.Convert(err)
	code := runtime.HTTPStatusFromCode(st.Code())
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     http.StatusText(code),
		Code:           st.Code().String(),
		ErrorText:      st.Message(),
	}
	switch st.Code() {
	case codes.Unknown, codes.Internal, codes.Unavailable:
		resp.ErrorText = "report data is temporarily unavailable"
	}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, fv := range br.GetFieldViolations() {
				resp.Details = append(resp.Details, fv.GetDescription())
			}
		}
	}
	return resp
}

func ErrTooManyRequests(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     http.StatusText(http.StatusTooManyRequests),
		ErrorText:      err.Error(),
	}
}

// me

type MeResponse struct {
	LoginID  string  `json:"userId"`
	Role     string  `json:"role"`
	RoleName string  `json:"roleName"`
	ShopName *string `json:"shopName,omitempty"`
}

func (m *MeResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// kpi

type KPIResponse struct {
	TotalQuantity int64           `json:"totalQuantity"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	ProductCount  int             `json:"productCount"`
	OrderCount    int             `json:"orderCount"`
}

func NewKPIResponse(k *entity.KPISummary) *KPIResponse {
	return &KPIResponse{
		TotalQuantity: k.TotalQuantity,
		TotalSales:    k.TotalRevenue,
		ProductCount:  k.ProductCount,
		OrderCount:    k.OrderCount,
	}
}

func (k *KPIResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// ranking

// RankingItem is a ranking row keyed the way the dashboard reads it: value
// fields are named after the metric and status is a traffic light colour.
type RankingItem struct {
	Rank       int     `json:"rank"`
	GoodsName  string  `json:"goodsName"`
	GoodsSpec  string  `json:"goodsSpec"`
	Percentage float64 `json:"percentage"`

	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	SalesAmount *decimal.Decimal `json:"salesAmount,omitempty"`

	TotalQuantity *decimal.Decimal `json:"totalQuantity,omitempty"`
	TotalSales    *decimal.Decimal `json:"totalSales,omitempty"`
	GlobalRank    *int             `json:"globalRank,omitempty"`
	ShopRatio     *float64         `json:"shopRatio,omitempty"`
	Status        string           `json:"status,omitempty"`
	RankStatus    string           `json:"rankStatus,omitempty"`

	LastYearQuantity    *decimal.Decimal `json:"lastYearQuantity,omitempty"`
	LastYearSalesAmount *decimal.Decimal `json:"lastYearSalesAmount,omitempty"`
	YoYGrowthRate       *float64         `json:"yoyGrowthRate,omitempty"`
}

var statusColors = map[entity.RankStatus]string{
	entity.StatusAhead:  "green",
	entity.StatusEqual:  "yellow",
	entity.StatusBehind: "red",
}

func NewRankingItem(row entity.RankingRow, metric entity.Metric) *RankingItem {
	it := &RankingItem{
		Rank:          row.Rank,
		GoodsName:     row.ProductKey,
		GoodsSpec:     row.ProductVariant,
		Percentage:    row.Percentage,
		GlobalRank:    row.GlobalRank,
		ShopRatio:     row.Ratio,
		YoYGrowthRate: row.YoYGrowthRate,
	}
	value := row.Value
	if metric == entity.MetricQuantity {
		it.Quantity = &value
		it.TotalQuantity = row.GlobalValue
		it.LastYearQuantity = row.LastYearValue
	} else {
		it.SalesAmount = &value
		it.TotalSales = row.GlobalValue
		it.LastYearSalesAmount = row.LastYearValue
	}
	if row.Status != nil {
		it.Status = statusColors[*row.Status]
		it.RankStatus = string(*row.Status)
	}
	return it
}

type RankingResponse struct {
	Rankings []*RankingItem `json:"rankings"`
}

func NewRankingResponse(rows []entity.RankingRow, metric entity.Metric) *RankingResponse {
	resp := &RankingResponse{Rankings: make([]*RankingItem, 0, len(rows))}
	for _, row := range rows {
		resp.Rankings = append(resp.Rankings, NewRankingItem(row, metric))
	}
	return resp
}

func (rr *RankingResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// product detail

type DetailItem struct {
	Name            string          `json:"name"`
	ShopID          string          `json:"shopId,omitempty"`
	ShopName        string          `json:"shopName"`
	Quantity        int64           `json:"quantity"`
	SalesAmount     decimal.Decimal `json:"salesAmount"`
	Rank            int             `json:"rank"`
	Percentage      float64         `json:"percentage"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalPercentage float64         `json:"totalPercentage"`
	ShopTotalSales  decimal.Decimal `json:"shopTotalSales"`
	CompanyTotal    decimal.Decimal `json:"companyTotalSales"`
	WeightedAmount  decimal.Decimal `json:"weightedAmount"`
	WeightedRank    int             `json:"weightedRank"`
	RankTier        int             `json:"rankTier"`
	IsDisplay       *bool           `json:"isDisplay,omitempty"`
	Completed       bool            `json:"completed,omitempty"`
}

func NewDetailItem(row entity.DetailRow) *DetailItem {
	return &DetailItem{
		Name:            row.Name,
		ShopID:          row.ShopID,
		ShopName:        row.ShopName,
		Quantity:        row.Quantity,
		SalesAmount:     row.Revenue,
		Rank:            row.Rank,
		Percentage:      row.Percentage,
		TotalSales:      row.GroupTotalRevenue,
		TotalPercentage: row.GroupPercentage,
		ShopTotalSales:  row.HomeShopTotalRevenue,
		CompanyTotal:    row.CompanyTotalRevenue,
		WeightedAmount:  row.WeightedAmount,
		WeightedRank:    row.WeightedRank,
		RankTier:        row.WeightedTier,
		IsDisplay:       row.OnDisplay,
		Completed:       row.Completed,
	}
}

type DetailResponse struct {
	Details []*DetailItem `json:"details"`
}

func NewDetailResponse(rows []entity.DetailRow) *DetailResponse {
	resp := &DetailResponse{Details: make([]*DetailItem, 0, len(rows))}
	for _, row := range rows {
		resp.Details = append(resp.Details, NewDetailItem(row))
	}
	return resp
}

func (d *DetailResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// product orders

type OrderDetail struct {
	OrderSn     string          `json:"orderSn"`
	PayTime     string          `json:"payTime"`
	ShopName    string          `json:"shopName"`
	Salesperson string          `json:"salesperson"`
	GoodsName   string          `json:"goodsName"`
	GoodsSpec   string          `json:"goodsSpec"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SalesAmount decimal.Decimal `json:"salesAmount"`
}

type OrderDetailsResponse struct {
	OrderDetails []OrderDetail `json:"orderDetails"`
}

func NewOrderDetailsResponse(lines []entity.SalesLine, loc *time.Location) *OrderDetailsResponse {
	resp := &OrderDetailsResponse{OrderDetails: make([]OrderDetail, 0, len(lines))}
	for _, l := range lines {
		resp.OrderDetails = append(resp.OrderDetails, OrderDetail{
			OrderSn:     l.OrderID,
			PayTime:     l.PaidAt.In(loc).Format(time.DateTime),
			ShopName:    l.ShopName,
			Salesperson: l.SellerName,
			GoodsName:   l.ProductKey,
			GoodsSpec:   l.ProductVariant,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			SalesAmount: l.Revenue(),
		})
	}
	return resp
}

func (o *OrderDetailsResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// filters

type ShopOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ShopsResponse struct {
	Shops []ShopOption `json:"shops"`
}

func NewShopsResponse(shops []entity.Shop) *ShopsResponse {
	resp := &ShopsResponse{Shops: make([]ShopOption, 0, len(shops))}
	for _, s := range shops {
		resp.Shops = append(resp.Shops, ShopOption{Name: s.Name, Value: s.ID})
	}
	return resp
}

func (s *ShopsResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

type SalespeopleResponse struct {
	Salespeople []string `json:"salespeople"`
}

func (s *SalespeopleResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }
