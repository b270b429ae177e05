package jwt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ubigger/sales-report/internal/entity"
)

// Config is the token signing configuration.
type Config struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTTTL    string `mapstructure:"jwt_ttl"`
}

const (
	claimUserID   = "uid"
	claimRoleCode = "role_total"
	claimShopID   = "shop_id"
	claimShopName = "shop_name"
)

// New returns the HS256 signer and the token lifetime of the configuration.
func New(c *Config) (*jwtauth.JWTAuth, time.Duration, error) {
	if c.JWTSecret == "" {
		return nil, 0, fmt.Errorf("jwt secret is empty")
	}
	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, 0, fmt.Errorf("bad jwt ttl %q: %w", c.JWTTTL, err)
	}
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil), ttl, nil
}

// NewUserToken issues a token carrying the user record. The subject is the
// login id.
func NewUserToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, u *entity.User) (string, error) {
	claims := map[string]interface{}{
		"exp":         time.Now().Add(ttl).Unix(),
		"sub":         u.LoginID,
		claimUserID:   u.ID,
		claimRoleCode: u.RoleCode,
	}
	if u.ShopID != nil {
		claims[claimShopID] = *u.ShopID
	}
	if u.ShopName != nil {
		claims[claimShopName] = *u.ShopName
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return "", err
	}
	return ts, nil
}

// VerifyUserToken validates the token and returns the user it carries.
func VerifyUserToken(jwtAuth *jwtauth.JWTAuth, token string) (*entity.User, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return nil, err
	}
	claims, err := t.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	return UserFromClaims(claims)
}

// UserFromClaims rebuilds the user from verified token claims.
func UserFromClaims(claims map[string]interface{}) (*entity.User, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	u := &entity.User{LoginID: sub}

	if id, ok := intClaim(claims[claimUserID]); ok {
		u.ID = id
	}
	code, ok := intClaim(claims[claimRoleCode])
	if !ok {
		return nil, fmt.Errorf("token has no role code")
	}
	u.RoleCode = code
	if shopID, ok := intClaim(claims[claimShopID]); ok {
		u.ShopID = &shopID
	}
	if name, ok := claims[claimShopName].(string); ok {
		u.ShopName = &name
	}
	return u, nil
}

func intClaim(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
