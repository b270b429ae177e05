package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubigger/sales-report/internal/entity"
)

func rankingRow(rank int, key string, value int64) entity.RankingRow {
	return entity.RankingRow{Rank: rank, ProductKey: key, Value: decimal.NewFromInt(value)}
}

func TestStatusFromRankDelta(t *testing.T) {
	assert.Equal(t, entity.StatusAhead, StatusFromRankDelta(1, 3))
	assert.Equal(t, entity.StatusEqual, StatusFromRankDelta(2, 2))
	assert.Equal(t, entity.StatusBehind, StatusFromRankDelta(4, 1))
}

func TestMergeWithGlobal(t *testing.T) {
	restricted := []entity.RankingRow{
		rankingRow(1, "sofa", 50),
		rankingRow(2, "lamp", 10),
		rankingRow(3, "rug", 5),
	}
	global := []entity.RankingRow{
		rankingRow(1, "lamp", 400),
		rankingRow(2, "sofa", 200),
		rankingRow(3, "rug", 0),
	}

	out := MergeWithGlobal(restricted, global)
	require.Len(t, out, 3)

	assert.True(t, out[0].GlobalValue.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 2, *out[0].GlobalRank)
	assert.InDelta(t, 25.0, *out[0].Ratio, 0.0001)
	assert.Equal(t, entity.StatusAhead, *out[0].Status)

	assert.Equal(t, entity.StatusBehind, *out[1].Status)
	assert.InDelta(t, 2.5, *out[1].Ratio, 0.0001)

	assert.Equal(t, entity.StatusEqual, *out[2].Status)
	assert.Zero(t, *out[2].Ratio)

	assert.Nil(t, restricted[0].Ratio, "input must not be modified")
}

func TestMergeWithGlobalAbsentProduct(t *testing.T) {
	out := MergeWithGlobal([]entity.RankingRow{rankingRow(1, "only-here", 7)}, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].GlobalValue)
	assert.Nil(t, out[0].GlobalRank)
	assert.Nil(t, out[0].Status)
	require.NotNil(t, out[0].Ratio)
	assert.Zero(t, *out[0].Ratio)
}

func TestMergeWithGlobalIdempotentOnSelf(t *testing.T) {
	rows := []entity.RankingRow{
		rankingRow(1, "a", 30),
		rankingRow(2, "b", 20),
		rankingRow(3, "c", 1),
	}
	once := MergeWithGlobal(rows, rows)
	twice := MergeWithGlobal(once, rows)
	for i := range rows {
		assert.InDelta(t, 100.0, *once[i].Ratio, 0.0001)
		assert.Equal(t, entity.StatusEqual, *once[i].Status)
		assert.Equal(t, *once[i].Ratio, *twice[i].Ratio)
		assert.Equal(t, *once[i].Status, *twice[i].Status)
	}
}

func TestAttachLastYear(t *testing.T) {
	rows := []entity.RankingRow{
		rankingRow(1, "sofa", 150),
		rankingRow(2, "lamp", 80),
		rankingRow(3, "new", 10),
	}
	lastYear := []entity.RankingRow{
		rankingRow(1, "sofa", 100),
		rankingRow(2, "lamp", 100),
	}

	out := AttachLastYear(rows, lastYear)
	require.Len(t, out, 3)
	assert.True(t, out[0].LastYearValue.Equal(decimal.NewFromInt(100)))
	assert.InDelta(t, 50.0, *out[0].YoYGrowthRate, 0.0001)
	assert.InDelta(t, -20.0, *out[1].YoYGrowthRate, 0.0001)
	assert.True(t, out[2].LastYearValue.IsZero())
	assert.Nil(t, out[2].YoYGrowthRate)
}
