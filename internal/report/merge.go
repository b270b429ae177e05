package report

import (
	"github.com/shopspring/decimal"
	"github.com/ubigger/sales-report/internal/entity"
)

// StatusFromRankDelta compares a product's rank in a restricted ranking with
// its company-wide rank. A smaller restricted rank means the scope
// over-indexes on the product.
func StatusFromRankDelta(restrictedRank, globalRank int) entity.RankStatus {
	switch {
	case restrictedRank < globalRank:
		return entity.StatusAhead
	case restrictedRank > globalRank:
		return entity.StatusBehind
	}
	return entity.StatusEqual
}

// MergeWithGlobal attaches the company-wide value, rank, ratio and status of
// each product to the restricted rows. The input slices are not modified.
func MergeWithGlobal(restricted, global []entity.RankingRow) []entity.RankingRow {
	byKey := make(map[string]entity.RankingRow, len(global))
	for _, g := range global {
		if _, ok := byKey[g.ProductKey]; !ok {
			byKey[g.ProductKey] = g
		}
	}

	out := make([]entity.RankingRow, len(restricted))
	for i, r := range restricted {
		row := r
		ratio := 0.0
		if g, ok := byKey[r.ProductKey]; ok {
			gv := g.Value
			gr := g.Rank
			st := StatusFromRankDelta(r.Rank, g.Rank)
			row.GlobalValue = &gv
			row.GlobalRank = &gr
			row.Status = &st
			if !gv.IsZero() {
				ratio = r.Value.Div(gv).Mul(hundred).InexactFloat64()
			}
		}
		row.Ratio = &ratio
		out[i] = row
	}
	return out
}

// AttachLastYear sets the same-period value of the previous year and the
// growth rate against it. Growth is left unset when last year's value is zero.
func AttachLastYear(rows, lastYear []entity.RankingRow) []entity.RankingRow {
	byKey := make(map[string]decimal.Decimal, len(lastYear))
	for _, ly := range lastYear {
		if _, ok := byKey[ly.ProductKey]; !ok {
			byKey[ly.ProductKey] = ly.Value
		}
	}

	out := make([]entity.RankingRow, len(rows))
	for i, r := range rows {
		row := r
		prev := byKey[r.ProductKey]
		row.LastYearValue = &prev
		row.YoYGrowthRate = changePct(r.Value, prev)
		out[i] = row
	}
	return out
}

func changePct(current, previous decimal.Decimal) *float64 {
	if previous.IsZero() {
		return nil
	}
	diff := current.Sub(previous).Div(previous.Abs()).Mul(hundred)
	f, _ := diff.Float64()
	return &f
}
