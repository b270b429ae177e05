package store

import (
	"context"
	"fmt"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
)

type shopsStore struct {
	*MYSQLStore
}

// Shops returns an object implementing Shops interface
func (ms *MYSQLStore) Shops() dependency.Shops {
	return &shopsStore{
		MYSQLStore: ms,
	}
}

// ListShops returns the shop enumeration without the excluded shop labels.
func (ms *MYSQLStore) ListShops(ctx context.Context) ([]entity.Shop, error) {
	query := `SELECT value, name FROM ubigger_enum WHERE enumName = 'shop'`
	params := map[string]any{}
	if len(ms.exclusions.ShopLabels) > 0 {
		query += ` AND name NOT IN (:excludedShops)`
		params["excludedShops"] = ms.exclusions.ShopLabels
	}
	query += ` ORDER BY value`

	shops, err := QueryListNamed[entity.Shop](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't list shops: %w", err)
	}
	return shops, nil
}
