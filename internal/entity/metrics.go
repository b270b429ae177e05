package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeRange is an inclusive payment time window. Zero bounds are open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.From.IsZero() && t.Before(tr.From) {
		return false
	}
	if !tr.To.IsZero() && t.After(tr.To) {
		return false
	}
	return true
}

// IsBounded reports whether both ends of the window are set.
func (tr TimeRange) IsBounded() bool {
	return !tr.From.IsZero() && !tr.To.IsZero()
}

// ShiftYears moves both bounds by n years.
func (tr TimeRange) ShiftYears(n int) TimeRange {
	out := tr
	if !out.From.IsZero() {
		out.From = out.From.AddDate(n, 0, 0)
	}
	if !out.To.IsZero() {
		out.To = out.To.AddDate(n, 0, 0)
	}
	return out
}

// Metric selects what a ranking is ordered by.
type Metric string

const (
	MetricQuantity Metric = "quantity"
	MetricRevenue  Metric = "revenue"
)

func (m Metric) Valid() bool {
	return m == MetricQuantity || m == MetricRevenue
}

// GroupBy selects the grouping of a product breakdown.
type GroupBy string

const (
	GroupByShop        GroupBy = "shop"
	GroupBySalesperson GroupBy = "salesperson"
)

func (g GroupBy) Valid() bool {
	return g == GroupByShop || g == GroupBySalesperson
}

// RankStatus compares a product's rank in a restricted ranking with its
// rank company-wide.
type RankStatus string

const (
	StatusAhead  RankStatus = "ahead"
	StatusEqual  RankStatus = "equal"
	StatusBehind RankStatus = "behind"
)

type KPISummary struct {
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	ProductCount  int
	OrderCount    int
}

// RankingRow is one product of a ranking.
//
// Rank, ProductKey, ProductVariant, Value and Percentage are always set by the
// aggregation engine. GlobalValue, GlobalRank, Ratio and Status are set by
// MergeWithGlobal. LastYearValue and YoYGrowthRate are set by the year over
// year comparison.
type RankingRow struct {
	Rank           int
	ProductKey     string
	ProductVariant string
	Value          decimal.Decimal
	Percentage     float64

	GlobalValue *decimal.Decimal
	GlobalRank  *int
	Ratio       *float64
	Status      *RankStatus

	LastYearValue *decimal.Decimal
	YoYGrowthRate *float64
}

// DetailRow is one shop or salesperson of a product breakdown.
type DetailRow struct {
	Name string
	// ShopID and ShopName are the shop itself for the shop grouping and the
	// salesperson's main shop for the salesperson grouping.
	ShopID   string
	ShopName string

	Quantity   int64
	Revenue    decimal.Decimal
	Rank       int
	Percentage float64

	GroupTotalRevenue    decimal.Decimal
	GroupPercentage      float64
	HomeShopTotalRevenue decimal.Decimal
	CompanyTotalRevenue  decimal.Decimal

	WeightedAmount decimal.Decimal
	WeightedRank   int
	WeightedTier   int

	OnDisplay *bool
	Completed bool
}
