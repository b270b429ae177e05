package form

import (
	"strconv"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type RankingQuery struct {
	ReportQuery
	Limit   string
	Compare string
	YoY     string
}

func (q *RankingQuery) Validate() error {
	if err := q.ReportQuery.Validate(); err != nil {
		return err
	}
	return ValidateStruct(q,
		v.Field(&q.Limit, is.Int, v.By(positive)),
		v.Field(&q.Compare, v.In("true", "false", "1", "0")),
		v.Field(&q.YoY, v.In("true", "false", "1", "0")),
	)
}

// Cap returns the requested row cap, or 0 for the default.
func (q *RankingQuery) Cap() int {
	n, _ := strconv.Atoi(q.Limit)
	return n
}

func (q *RankingQuery) CompareGlobal() bool   { return flag(q.Compare) }
func (q *RankingQuery) CompareLastYear() bool { return flag(q.YoY) }

func flag(s string) bool {
	return s == "true" || s == "1"
}
