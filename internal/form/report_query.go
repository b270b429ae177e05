package form

import (
	"errors"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ubigger/sales-report/internal/entity"
)

// DateLayout is the layout of startDate and endDate parameters.
const DateLayout = "2006-01-02"

// ReportQuery is the filter part of every report request.
type ReportQuery struct {
	Shop        string
	Salesperson string
	StartDate   string
	EndDate     string
}

func (q *ReportQuery) Validate() error {
	return ValidateStruct(q,
		v.Field(&q.StartDate, v.Date(DateLayout).Error("start date must be YYYY-MM-DD")),
		v.Field(&q.EndDate,
			v.Date(DateLayout).Error("end date must be YYYY-MM-DD"),
			v.By(q.notBeforeStart),
		),
	)
}

func (q *ReportQuery) notBeforeStart(value interface{}) error {
	end, _ := value.(string)
	if end == "" || q.StartDate == "" {
		return nil
	}
	from, err := time.Parse(DateLayout, q.StartDate)
	if err != nil {
		return nil
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil
	}
	if to.Before(from) {
		return errors.New("end date must not be before start date")
	}
	return nil
}

// Period returns the inclusive window of the query in loc. The end date
// covers its whole day.
func (q *ReportQuery) Period(loc *time.Location) entity.TimeRange {
	var tr entity.TimeRange
	if t, err := time.ParseInLocation(DateLayout, q.StartDate, loc); err == nil {
		tr.From = t
	}
	if t, err := time.ParseInLocation(DateLayout, q.EndDate, loc); err == nil {
		tr.To = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return tr
}

// Filter converts the query to the requested filter, before authorization.
func (q *ReportQuery) Filter(loc *time.Location) entity.RequestFilter {
	return entity.RequestFilter{
		Shop:        q.Shop,
		Salesperson: q.Salesperson,
		Period:      q.Period(loc),
	}
}
