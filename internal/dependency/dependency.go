package dependency

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/ubigger/sales-report/internal/entity"
)

type (
	// SalesLines is the dataset accessor. Implementations apply the
	// policy exclusion sets before returning rows.
	SalesLines interface {
		FetchSalesLines(ctx context.Context, f entity.SalesFilter) ([]entity.SalesLine, error)
	}

	Roster interface {
		// LookupDisplayNameByLoginID returns the salesperson display name for
		// a normalized login id, or false when the roster has no match.
		LookupDisplayNameByLoginID(ctx context.Context, loginID string) (string, bool, error)
		// ListSalespeople returns the names of salespeople with sales, optionally in one shop.
		ListSalespeople(ctx context.Context, shopName *string) ([]string, error)
	}

	// Fixtures reports whether a product is on display at a shop.
	Fixtures interface {
		IsOnDisplay(ctx context.Context, productKey string, shopID string) (bool, error)
	}

	Shops interface {
		ListShops(ctx context.Context) ([]entity.Shop, error)
	}

	Users interface {
		GetUserByLoginID(ctx context.Context, loginID string) (*entity.User, error)
	}

	Repository interface {
		Sales() SalesLines
		Roster() Roster
		Fixtures() Fixtures
		Shops() Shops
		Users() Users
		Ping(ctx context.Context) error
		Close()
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// ShopDictionary is the read-only shop id/name cache.
	ShopDictionary interface {
		GetShopByID(id string) (entity.Shop, bool)
		GetShopByName(name string) (entity.Shop, bool)
		GetAllShops() []entity.Shop
	}
)
