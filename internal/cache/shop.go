package cache

import (
	"fmt"
	"sync"

	"github.com/ubigger/sales-report/internal/entity"
)

type ShopCache struct {
	NameCache map[string]entity.Shop // name to shop
	Cache     map[string]entity.Shop
	Order     []entity.Shop
	Mutex     sync.RWMutex
}

func newShopCache(shops []entity.Shop) (*ShopCache, error) {
	c := &ShopCache{
		Cache:     make(map[string]entity.Shop),
		NameCache: make(map[string]entity.Shop),
	}
	c.Mutex.Lock()
	defer c.Mutex.Unlock()

	for _, shop := range shops {
		if shop.ID == "" || shop.Name == "" {
			return nil, fmt.Errorf("shop without id or name: %+v", shop)
		}
		if _, ok := c.Cache[shop.ID]; ok {
			return nil, fmt.Errorf("duplicate shop id %s", shop.ID)
		}
		c.Cache[shop.ID] = shop
		c.NameCache[shop.Name] = shop
		c.Order = append(c.Order, shop)
	}

	return c, nil
}

func (c *ShopCache) GetShopByID(id string) (entity.Shop, bool) {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()

	shop, found := c.Cache[id]
	return shop, found
}

func (c *ShopCache) GetShopByName(name string) (entity.Shop, bool) {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()

	shop, found := c.NameCache[name]
	return shop, found
}

// GetAllShops returns the shops in enumeration order.
func (c *ShopCache) GetAllShops() []entity.Shop {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()
	out := make([]entity.Shop, len(c.Order))
	copy(out, c.Order)
	return out
}
