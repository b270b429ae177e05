package cache

import (
	"log/slog"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
)

type Cache struct {
	Shop *ShopCache
}

// NewCache builds the dictionary cache from the shop enumeration.
func NewCache(shops []entity.Shop) (dependency.ShopDictionary, error) {
	sc, err := newShopCache(shops)
	if err != nil {
		slog.Default().Error("cant build shop dictionary",
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	return &Cache{
		Shop: sc,
	}, nil
}

// shop
func (c *Cache) GetShopByID(id string) (entity.Shop, bool) {
	return c.Shop.GetShopByID(id)
}
func (c *Cache) GetShopByName(name string) (entity.Shop, bool) {
	return c.Shop.GetShopByName(name)
}
func (c *Cache) GetAllShops() []entity.Shop {
	return c.Shop.GetAllShops()
}
