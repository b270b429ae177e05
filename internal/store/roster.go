package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ubigger/sales-report/internal/dependency"
)

type rosterStore struct {
	*MYSQLStore
}

// Roster returns an object implementing Roster interface
func (ms *MYSQLStore) Roster() dependency.Roster {
	return &rosterStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) LookupDisplayNameByLoginID(ctx context.Context, loginID string) (string, bool, error) {
	var name string
	err := ms.DB().GetContext(ctx, &name,
		"SELECT userName FROM sales_person WHERE userId = ? AND enable = 1 LIMIT 1", loginID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("can't lookup salesperson %s: %w", loginID, err)
	}
	return name, true, nil
}

// ListSalespeople returns the distinct names of salespeople with reportable
// sales in the reporting view, optionally in one shop. Sales in excluded
// channels or of excluded products do not count.
func (ms *MYSQLStore) ListSalespeople(ctx context.Context, shopName *string) ([]string, error) {
	query := `
	SELECT DISTINCT v.doneSales1Name AS name
	FROM fur_sell_order_goods v
	LEFT JOIN ubigger_enum ue ON ue.value = v.shop AND ue.enumName = 'shop'
	WHERE v.doneSales1Name IS NOT NULL AND v.doneSales1Name <> ''`
	params := map[string]any{}
	for _, c := range exclusionConds(ms.exclusions, params) {
		query += "\n\tAND " + c
	}
	if shopName != nil {
		query += "\n\tAND COALESCE(ue.name, v.shop) = :shopName"
		params["shopName"] = *shopName
	}

	type row struct {
		Name string `db:"name"`
	}
	rows, err := QueryListNamed[row](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't list salespeople: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}
