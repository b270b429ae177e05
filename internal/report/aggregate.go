// Package report computes KPI summaries, product rankings, per-product
// breakdowns and restricted versus company-wide comparisons over sales lines.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ubigger/sales-report/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// ApplyScope keeps the lines matching the scope's shop, salesperson and
// inclusive payment window. A denied scope matches nothing.
func ApplyScope(lines []entity.SalesLine, scope entity.ScopeFilter) []entity.SalesLine {
	if scope.Denied {
		return nil
	}
	out := make([]entity.SalesLine, 0, len(lines))
	for _, l := range lines {
		if scope.Shop != nil && l.ShopName != *scope.Shop {
			continue
		}
		if scope.Salesperson != nil && l.SellerName != *scope.Salesperson {
			continue
		}
		if !scope.Period.Contains(l.PaidAt) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ComputeKPI sums quantity and revenue and counts distinct orders and products.
func ComputeKPI(lines []entity.SalesLine) entity.KPISummary {
	kpi := entity.KPISummary{TotalRevenue: decimal.Zero}
	orders := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, l := range lines {
		kpi.TotalQuantity += l.Quantity
		kpi.TotalRevenue = kpi.TotalRevenue.Add(l.Revenue())
		orders[l.OrderID] = struct{}{}
		if l.ProductKey != "" {
			products[l.ProductKey] = struct{}{}
		}
	}
	kpi.OrderCount = len(orders)
	kpi.ProductCount = len(products)
	return kpi
}

func metricOf(l entity.SalesLine, m entity.Metric) decimal.Decimal {
	if m == entity.MetricQuantity {
		return decimal.NewFromInt(l.Quantity)
	}
	return l.Revenue()
}

type productGroup struct {
	key     string
	variant string
	value   decimal.Decimal
}

// RankProducts groups lines by product key, ranks the groups by the summed
// metric and truncates to limit when limit > 0. Ties keep first-seen order.
// Percentages are computed over the rows that are returned.
func RankProducts(lines []entity.SalesLine, m entity.Metric, limit int) []entity.RankingRow {
	idx := make(map[string]int)
	groups := make([]productGroup, 0)
	for _, l := range lines {
		i, ok := idx[l.ProductKey]
		if !ok {
			i = len(groups)
			idx[l.ProductKey] = i
			groups = append(groups, productGroup{key: l.ProductKey, variant: l.ProductVariant, value: decimal.Zero})
		}
		groups[i].value = groups[i].value.Add(metricOf(l, m))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].value.GreaterThan(groups[j].value)
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.value)
	}

	rows := make([]entity.RankingRow, len(groups))
	for i, g := range groups {
		rows[i] = entity.RankingRow{
			Rank:           i + 1,
			ProductKey:     g.key,
			ProductVariant: g.variant,
			Value:          g.value,
			Percentage:     percentOf(g.value, total),
		}
	}
	return rows
}

// percentOf returns part / total × 100, or 0 unless total is positive.
func percentOf(part, total decimal.Decimal) float64 {
	if total.Sign() <= 0 {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}
