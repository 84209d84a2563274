package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medresidency/logbook/internal/app/models"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "logbook-test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	principal := models.Principal{
		ID:    42,
		Kind:  models.AccountKindResident,
		Email: "resident@example.com",
	}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(principal)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, int((15 * time.Minute).Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "resident@example.com", claims.Email)
	assert.Equal(t, string(models.AccountKindResident), claims.Kind)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()

	accessToken, _, _, _, err := svc.GenerateTokenPair(models.Principal{
		ID:    1,
		Kind:  models.AccountKindPreceptor,
		Email: "preceptor@example.com",
	})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "a-different-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "logbook-test",
	})

	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:       "test-secret-key",
		AccessTokenExp:  -1 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "logbook-test",
	})

	accessToken, _, _, _, err := svc.GenerateTokenPair(models.Principal{
		ID:    7,
		Kind:  models.AccountKindResident,
		Email: "resident@example.com",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestLicenseToken_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiresIn, err := svc.GenerateLicenseToken("SP", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int(LicenseTokenExp.Seconds()), expiresIn)

	claims, err := svc.ValidateLicenseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "SP", claims.LicenseState)
	assert.Equal(t, "123456", claims.LicenseNumber)
}

func TestValidateLicenseToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()

	accessToken, _, _, _, err := svc.GenerateTokenPair(models.Principal{
		ID:    9,
		Kind:  models.AccountKindResident,
		Email: "resident@example.com",
	})
	require.NoError(t, err)

	// An access token carries no license claims, so it must not pass.
	_, err = svc.ValidateLicenseToken(accessToken)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
