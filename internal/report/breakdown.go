package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ubigger/sales-report/internal/entity"
)

const (
	// DefaultUnrankedRank is the rank given to roster entries without sales
	// of the product, beyond any real rank.
	DefaultUnrankedRank = 65
	DefaultTierSize     = 10
)

// BreakdownOptions controls ranking of a product breakdown.
type BreakdownOptions struct {
	Metric       entity.Metric
	UnrankedRank int
	TierSize     int
}

func (o BreakdownOptions) withDefaults() BreakdownOptions {
	if !o.Metric.Valid() {
		o.Metric = entity.MetricRevenue
	}
	if o.UnrankedRank <= 0 {
		o.UnrankedRank = DefaultUnrankedRank
	}
	if o.TierSize <= 0 {
		o.TierSize = DefaultTierSize
	}
	return o
}

type shopRef struct {
	id   string
	name string
}

type contribution struct {
	shop    shopRef
	revenue decimal.Decimal
	lines   int
}

// windowTotals holds all-products figures of the unrestricted window.
type windowTotals struct {
	company     decimal.Decimal
	shops       map[string]decimal.Decimal
	shopOrder   []shopRef
	people      map[string]decimal.Decimal
	peopleOrder []string
	mainShop    map[string]shopRef
}

func newWindowTotals(window []entity.SalesLine) *windowTotals {
	t := &windowTotals{
		company:  decimal.Zero,
		shops:    make(map[string]decimal.Decimal),
		people:   make(map[string]decimal.Decimal),
		mainShop: make(map[string]shopRef),
	}
	perPerson := make(map[string][]*contribution)

	for _, l := range window {
		rev := l.Revenue()
		t.company = t.company.Add(rev)

		if _, ok := t.shops[l.ShopName]; !ok {
			t.shopOrder = append(t.shopOrder, shopRef{id: l.ShopID, name: l.ShopName})
		}
		t.shops[l.ShopName] = t.shops[l.ShopName].Add(rev)

		if l.SellerName == "" {
			continue
		}
		if _, ok := t.people[l.SellerName]; !ok {
			t.peopleOrder = append(t.peopleOrder, l.SellerName)
		}
		t.people[l.SellerName] = t.people[l.SellerName].Add(rev)

		var c *contribution
		for _, pc := range perPerson[l.SellerName] {
			if pc.shop.name == l.ShopName {
				c = pc
				break
			}
		}
		if c == nil {
			c = &contribution{shop: shopRef{id: l.ShopID, name: l.ShopName}, revenue: decimal.Zero}
			perPerson[l.SellerName] = append(perPerson[l.SellerName], c)
		}
		c.revenue = c.revenue.Add(rev)
		c.lines++
	}

	for person, cs := range perPerson {
		best := cs[0]
		for _, c := range cs[1:] {
			if c.revenue.GreaterThan(best.revenue) ||
				(c.revenue.Equal(best.revenue) && c.lines > best.lines) {
				best = c
			}
		}
		t.mainShop[person] = best.shop
	}
	return t
}

type detailGroup struct {
	name     string
	shop     shopRef
	quantity int64
	revenue  decimal.Decimal
}

func (g detailGroup) metric(m entity.Metric) decimal.Decimal {
	if m == entity.MetricQuantity {
		return decimal.NewFromInt(g.quantity)
	}
	return g.revenue
}

// groupProduct sums the product's lines by key, keeping first-seen order.
func groupProduct(window []entity.SalesLine, productKey string, key func(entity.SalesLine) (string, shopRef, bool)) []detailGroup {
	idx := make(map[string]int)
	var groups []detailGroup
	for _, l := range window {
		if l.ProductKey != productKey {
			continue
		}
		name, shop, ok := key(l)
		if !ok {
			continue
		}
		i, seen := idx[name]
		if !seen {
			i = len(groups)
			idx[name] = i
			groups = append(groups, detailGroup{name: name, shop: shop, revenue: decimal.Zero})
		}
		groups[i].quantity += l.Quantity
		groups[i].revenue = groups[i].revenue.Add(l.Revenue())
	}
	return groups
}

func rankGroups(groups []detailGroup, m entity.Metric) []entity.DetailRow {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].metric(m).GreaterThan(groups[j].metric(m))
	})
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.revenue)
	}
	rows := make([]entity.DetailRow, len(groups))
	for i, g := range groups {
		rows[i] = entity.DetailRow{
			Name:       g.name,
			ShopID:     g.shop.id,
			ShopName:   g.shop.name,
			Quantity:   g.quantity,
			Revenue:    g.revenue,
			Rank:       i + 1,
			Percentage: percentOf(g.revenue, total),
		}
	}
	return rows
}

// WeightedAmount normalizes a contribution by the share of company revenue
// flowing through the home shop:
//
//	revenue / (homeShopTotal / companyTotal) × quantity
//
// It is zero when either total is zero and when revenue or quantity is not
// positive, so net returns never earn a weighted rank.
func WeightedAmount(revenue decimal.Decimal, quantity int64, homeShopTotal, companyTotal decimal.Decimal) decimal.Decimal {
	if revenue.Sign() <= 0 || quantity <= 0 {
		return decimal.Zero
	}
	if homeShopTotal.IsZero() || companyTotal.IsZero() {
		return decimal.Zero
	}
	return revenue.Mul(companyTotal).Mul(decimal.NewFromInt(quantity)).Div(homeShopTotal)
}

// Tier returns the 1-based bucket of size tierSize a rank falls into, or 0
// for unranked entries.
func Tier(rank, tierSize int) int {
	if rank <= 0 || tierSize <= 0 {
		return 0
	}
	return (rank + tierSize - 1) / tierSize
}

// assignWeightedTiers ranks rows with a positive weighted amount and buckets
// them. Other rows keep weighted rank and tier 0.
func assignWeightedTiers(rows []entity.DetailRow, tierSize int) {
	order := make([]int, 0, len(rows))
	for i := range rows {
		rows[i].WeightedRank, rows[i].WeightedTier = 0, 0
		if rows[i].WeightedAmount.Sign() > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rows[order[a]].WeightedAmount.GreaterThan(rows[order[b]].WeightedAmount)
	})
	for pos, i := range order {
		rows[i].WeightedRank = pos + 1
		rows[i].WeightedTier = Tier(pos+1, tierSize)
	}
}

func zeroRow(name string, shop shopRef, rank int) entity.DetailRow {
	return entity.DetailRow{
		Name:           name,
		ShopID:         shop.id,
		ShopName:       shop.name,
		Revenue:        decimal.Zero,
		Rank:           rank,
		WeightedAmount: decimal.Zero,
		Completed:      true,
	}
}

// BreakdownByShop ranks the shops selling productKey in the window and
// completes the list with every other shop that sold anything.
func BreakdownByShop(window []entity.SalesLine, productKey string, opts BreakdownOptions) []entity.DetailRow {
	opts = opts.withDefaults()
	t := newWindowTotals(window)

	groups := groupProduct(window, productKey, func(l entity.SalesLine) (string, shopRef, bool) {
		return l.ShopName, shopRef{id: l.ShopID, name: l.ShopName}, true
	})
	rows := rankGroups(groups, opts.Metric)
	for i := range rows {
		shopTotal := t.shops[rows[i].Name]
		rows[i].GroupTotalRevenue = shopTotal
		rows[i].GroupPercentage = percentOf(rows[i].Revenue, shopTotal)
		rows[i].HomeShopTotalRevenue = shopTotal
		rows[i].CompanyTotalRevenue = t.company
		rows[i].WeightedAmount = WeightedAmount(rows[i].Revenue, rows[i].Quantity, shopTotal, t.company)
	}
	assignWeightedTiers(rows, opts.TierSize)

	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.Name] = struct{}{}
	}
	for _, s := range t.shopOrder {
		if _, ok := present[s.name]; ok || s.name == "" {
			continue
		}
		total := t.shops[s.name]
		if total.IsNegative() {
			continue
		}
		row := zeroRow(s.name, s, opts.UnrankedRank)
		row.GroupTotalRevenue = total
		row.HomeShopTotalRevenue = total
		row.CompanyTotalRevenue = t.company
		rows = append(rows, row)
		present[s.name] = struct{}{}
	}
	return rows
}

// BreakdownBySalesperson ranks the salespeople selling productKey in the
// window, attributes each to a main shop and completes the list with every
// other salesperson that sold anything. When narrowTo is set only members of
// that shop are returned; ranks are not recomputed.
func BreakdownBySalesperson(window []entity.SalesLine, productKey string, opts BreakdownOptions, narrowTo *string) []entity.DetailRow {
	opts = opts.withDefaults()
	t := newWindowTotals(window)

	groups := groupProduct(window, productKey, func(l entity.SalesLine) (string, shopRef, bool) {
		if l.SellerName == "" {
			return "", shopRef{}, false
		}
		return l.SellerName, t.mainShop[l.SellerName], true
	})
	rows := rankGroups(groups, opts.Metric)
	for i := range rows {
		personal := t.people[rows[i].Name]
		home := t.shops[rows[i].ShopName]
		rows[i].GroupTotalRevenue = personal
		rows[i].GroupPercentage = percentOf(rows[i].Revenue, personal)
		rows[i].HomeShopTotalRevenue = home
		rows[i].CompanyTotalRevenue = t.company
		rows[i].WeightedAmount = WeightedAmount(rows[i].Revenue, rows[i].Quantity, home, t.company)
	}
	assignWeightedTiers(rows, opts.TierSize)

	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.Name] = struct{}{}
	}
	for _, person := range t.peopleOrder {
		if _, ok := present[person]; ok {
			continue
		}
		personal := t.people[person]
		if personal.IsNegative() {
			continue
		}
		shop := t.mainShop[person]
		row := zeroRow(person, shop, opts.UnrankedRank)
		row.GroupTotalRevenue = personal
		row.HomeShopTotalRevenue = t.shops[shop.name]
		row.CompanyTotalRevenue = t.company
		rows = append(rows, row)
		present[person] = struct{}{}
	}

	if narrowTo == nil {
		return rows
	}
	narrowed := rows[:0]
	for _, r := range rows {
		if r.ShopName == *narrowTo {
			narrowed = append(narrowed, r)
		}
	}
	return narrowed
}
