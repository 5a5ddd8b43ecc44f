package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-for-hs256",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "retailcore-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	token, err := service.Generate(tenantID, userID, "clerk")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "clerk", claims.Username)

	gotTenant, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	service := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret-value-here",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "retailcore-test",
	})

	token, err := service.Generate(uuid.New(), uuid.New(), "clerk")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Validate_Expired(t *testing.T) {
	service := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-for-hs256",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "retailcore-test",
	})

	token, err := service.Generate(uuid.New(), uuid.New(), "clerk")
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	service := newTestJWTService()

	_, err := service.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
