package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ubigger/sales-report/internal/entity"
)

func TestUserToken(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)

	shopID := 3
	shopName := "杭州留和路店"
	u := &entity.User{ID: 7, LoginID: "chenweiwei", RoleCode: 41, ShopID: &shopID, ShopName: &shopName}

	tok, err := NewUserToken(jwtAuth, time.Hour, u)
	require.NoError(t, err)

	got, err := VerifyUserToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserTokenWithoutShop(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)

	tok, err := NewUserToken(jwtAuth, time.Hour, &entity.User{LoginID: "caoli", RoleCode: 1})
	require.NoError(t, err)

	got, err := VerifyUserToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Nil(t, got.ShopID)
	assert.Nil(t, got.ShopName)
}

func TestVerifyUserTokenRejects(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	other := jwtauth.New("HS256", []byte("other"), nil)

	tok, err := NewUserToken(other, time.Hour, &entity.User{LoginID: "caoli"})
	require.NoError(t, err)
	_, err = VerifyUserToken(jwtAuth, tok)
	assert.Error(t, err)

	expired, err := NewUserToken(jwtAuth, -time.Hour, &entity.User{LoginID: "caoli"})
	require.NoError(t, err)
	_, err = VerifyUserToken(jwtAuth, expired)
	assert.Error(t, err)
}

func TestUserFromClaims(t *testing.T) {
	_, err := UserFromClaims(map[string]interface{}{claimRoleCode: 41.0})
	assert.Error(t, err, "subject is required")

	_, err = UserFromClaims(map[string]interface{}{"sub": "x"})
	assert.Error(t, err, "role code is required")

	u, err := UserFromClaims(map[string]interface{}{"sub": "x", claimRoleCode: 41.0, claimShopID: 0.0})
	require.NoError(t, err)
	assert.True(t, u.HasShopID(0))
}

func TestNew(t *testing.T) {
	_, ttl, err := New(&Config{JWTSecret: "s", JWTTTL: "12h"})
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)

	_, _, err = New(&Config{JWTTTL: "12h"})
	assert.Error(t, err)

	_, _, err = New(&Config{JWTSecret: "s", JWTTTL: "soon"})
	assert.Error(t, err)
}
