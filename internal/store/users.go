package store

import (
	"context"
	"fmt"

	"github.com/ubigger/sales-report/internal/dependency"
	"github.com/ubigger/sales-report/internal/entity"
)

type usersStore struct {
	*MYSQLStore
}

// Users returns an object implementing Users interface
func (ms *MYSQLStore) Users() dependency.Users {
	return &usersStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) GetUserByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	query := `
	SELECT
		r.id,
		r.userId AS user_id,
		r.roleIdTotal AS role_id_total,
		r.shopId AS shop_id,
		ue.name AS shop_name
	FROM ubigger_adm_role_user r
	LEFT JOIN ubigger_enum ue ON ue.value = CAST(r.shopId AS CHAR) AND ue.enumName = 'shop'
	WHERE r.userId = :loginId
	ORDER BY r.id
	LIMIT 1`

	u, err := QueryNamedOne[entity.User](ctx, ms.DB(), query, map[string]any{
		"loginId": loginID,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get user %s: %w", loginID, err)
	}
	return &u, nil
}
