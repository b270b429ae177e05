package form

import (
	v "github.com/go-ozzo/ozzo-validation/v4"
)

type ProductOrdersQuery struct {
	ReportQuery
	GoodsName string
}

func (q *ProductOrdersQuery) Validate() error {
	if err := q.ReportQuery.Validate(); err != nil {
		return err
	}
	return ValidateStruct(q,
		v.Field(&q.GoodsName, v.Required.Error("goods name is required")),
	)
}
