package store

import (
	"context"
	"fmt"

	"github.com/ubigger/sales-report/internal/dependency"
)

type fixturesStore struct {
	*MYSQLStore
}

// Fixtures returns an object implementing Fixtures interface
func (ms *MYSQLStore) Fixtures() dependency.Fixtures {
	return &fixturesStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) IsOnDisplay(ctx context.Context, productKey string, shopID string) (bool, error) {
	query := `SELECT COUNT(*) FROM display_fixture WHERE shop = :shopId AND goodsName = :productKey AND enable = 1`
	n, err := QueryCountNamed(ctx, ms.DB(), query, map[string]any{
		"shopId":     shopID,
		"productKey": productKey,
	})
	if err != nil {
		return false, fmt.Errorf("can't check display fixture: %w", err)
	}
	return n > 0, nil
}
