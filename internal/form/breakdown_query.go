package form

import (
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ubigger/sales-report/internal/entity"
)

type BreakdownQuery struct {
	ReportQuery
	GoodsName string
	Type      string
	GroupBy   string
}

func (q *BreakdownQuery) Validate() error {
	if err := q.ReportQuery.Validate(); err != nil {
		return err
	}
	return ValidateStruct(q,
		v.Field(&q.GoodsName, v.Required.Error("goods name is required")),
		v.Field(&q.Type, v.In("quantity", "sales")),
		v.Field(&q.GroupBy, v.In(string(entity.GroupByShop), string(entity.GroupBySalesperson))),
	)
}

// Metric maps the type parameter to a metric. Revenue is the default.
func (q *BreakdownQuery) Metric() entity.Metric {
	return MetricOf(q.Type)
}

// Grouping returns the requested grouping, shop by default.
func (q *BreakdownQuery) Grouping() entity.GroupBy {
	if q.GroupBy == "" {
		return entity.GroupByShop
	}
	return entity.GroupBy(q.GroupBy)
}

// MetricOf maps the dashboard's type names to metrics.
func MetricOf(typ string) entity.Metric {
	if typ == "quantity" {
		return entity.MetricQuantity
	}
	return entity.MetricRevenue
}
