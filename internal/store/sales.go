package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
)

type salesStore struct {
	*MYSQLStore
}

// Sales returns an object implementing SalesLines interface
func (ms *MYSQLStore) Sales() dependency.SalesLines {
	return &salesStore{
		MYSQLStore: ms,
	}
}

const salesLinesSelect = `
	SELECT
		v.orderSn AS order_sn,
		v.payTime AS pay_time,
		v.shop AS shop_id,
		COALESCE(ue.name, v.shop) AS shop_name,
		COALESCE(v.doneSales1, '') AS seller_login_id,
		COALESCE(v.doneSales1Name, '') AS seller_name,
		COALESCE(v.goodsBom, '') AS product_code,
		v.goodsName AS product_key,
		COALESCE(v.goodsSpec, '') AS product_variant,
		v.goodsNum AS quantity,
		v.goodsPrice AS unit_price
	FROM fur_sell_order_goods v
	LEFT JOIN ubigger_enum ue ON ue.value = v.shop AND ue.enumName = 'shop'`

// exclusionConds returns the view conditions of the exclusion sets and adds
// their parameters. The view must be aliased v and joined to the enum as ue.
func exclusionConds(ex Exclusions, params map[string]any) []string {
	var conds []string
	if len(ex.ProductCodes) > 0 {
		conds = append(conds, "(v.goodsBom IS NULL OR v.goodsBom NOT IN (:excludedCodes))")
		params["excludedCodes"] = ex.ProductCodes
	}
	if len(ex.ShopLabels) > 0 {
		conds = append(conds, "COALESCE(ue.name, v.shop) NOT IN (:excludedShops)")
		params["excludedShops"] = ex.ShopLabels
	}
	return conds
}

// salesLinesQuery builds the sales line query for the filter. Exclusions are
// always applied; empty exclusion sets add no condition.
func salesLinesQuery(f entity.SalesFilter, ex Exclusions) (string, map[string]any) {
	conds := []string{"v.goodsName IS NOT NULL", "v.goodsName <> ''"}
	params := map[string]any{}
	conds = append(conds, exclusionConds(ex, params)...)
	if !f.IncludeReturns {
		conds = append(conds, "v.goodsNum > 0")
	}
	if f.ShopName != nil {
		conds = append(conds, "COALESCE(ue.name, v.shop) = :shopName")
		params["shopName"] = *f.ShopName
	}
	if f.Salesperson != nil {
		conds = append(conds, "v.doneSales1Name = :salesperson")
		params["salesperson"] = *f.Salesperson
	}
	if f.ProductKey != nil {
		conds = append(conds, "v.goodsName = :productKey")
		params["productKey"] = *f.ProductKey
	}
	if !f.Period.From.IsZero() {
		conds = append(conds, "v.payTime >= :from")
		params["from"] = f.Period.From
	}
	if !f.Period.To.IsZero() {
		conds = append(conds, "v.payTime <= :to")
		params["to"] = f.Period.To
	}

	var sb strings.Builder
	sb.WriteString(salesLinesSelect)
	sb.WriteString("\n\tWHERE ")
	sb.WriteString(strings.Join(conds, "\n\t\tAND "))
	sb.WriteString("\n\tORDER BY v.payTime, v.orderSn")
	return sb.String(), params
}

func (ms *MYSQLStore) FetchSalesLines(ctx context.Context, f entity.SalesFilter) ([]entity.SalesLine, error) {
	query, params := salesLinesQuery(f, ms.exclusions)
	lines, err := QueryListNamed[entity.SalesLine](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't fetch sales lines: %w", err)
	}
	return lines, nil
}
