package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubigger/sales-report/internal/entity"
)

func TestNewCache(t *testing.T) {
	shops := []entity.Shop{
		{ID: "3", Name: "杭州留和路店"},
		{ID: "30", Name: "苏州诚品店"},
	}
	c, err := NewCache(shops)
	require.NoError(t, err)

	s, ok := c.GetShopByID("30")
	assert.True(t, ok)
	assert.Equal(t, "苏州诚品店", s.Name)

	s, ok = c.GetShopByName("杭州留和路店")
	assert.True(t, ok)
	assert.Equal(t, "3", s.ID)

	_, ok = c.GetShopByID("99")
	assert.False(t, ok)

	all := c.GetAllShops()
	assert.Equal(t, shops, all)
	all[0].Name = "changed"
	assert.Equal(t, "杭州留和路店", c.GetAllShops()[0].Name)
}

func TestNewCacheRejectsBadEntries(t *testing.T) {
	_, err := NewCache([]entity.Shop{{ID: "1"}})
	assert.Error(t, err)

	_, err = NewCache([]entity.Shop{{ID: "1", Name: "a"}, {ID: "1", Name: "b"}})
	assert.Error(t, err)
}
