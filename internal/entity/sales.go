package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesLine is one product line of a paid order, as exposed by the sales view.
type SalesLine struct {
	OrderID        string          `db:"order_sn"`
	PaidAt         time.Time       `db:"pay_time"`
	ShopID         string          `db:"shop_id"`
	ShopName       string          `db:"shop_name"`
	SellerLoginID  string          `db:"seller_login_id"`
	SellerName     string          `db:"seller_name"`
	ProductCode    string          `db:"product_code"`
	ProductKey     string          `db:"product_key"`
	ProductVariant string          `db:"product_variant"`
	Quantity       int64           `db:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
}

// Revenue returns quantity × unit price of the line.
func (l SalesLine) Revenue() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SalesFilter is the predicate pushed down to the sales data accessor.
// Nil fields are not applied.
type SalesFilter struct {
	ShopName    *string
	Salesperson *string
	ProductKey  *string
	Period      TimeRange
	// IncludeReturns keeps lines with a non-positive quantity.
	IncludeReturns bool
}

// Shop is an entry of the shop dictionary.
type Shop struct {
	ID   string `db:"value"`
	Name string `db:"name"`
}
