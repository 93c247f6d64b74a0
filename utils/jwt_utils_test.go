package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sophia/api/models"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	user := &models.User{ID: 42, Email: "a@example.com"}

	tokenString, err := GenerateJWT(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "sophia-api", claims.Issuer)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestRefreshJWT(t *testing.T) {
	user := &models.User{ID: 7, Email: "b@example.com"}
	tokenString, err := GenerateJWT(user)
	assert.NoError(t, err)

	claims, err := ValidateJWT(tokenString)
	assert.NoError(t, err)

	refreshed, err := RefreshJWT(claims)
	assert.NoError(t, err)

	newClaims, err := ValidateJWT(refreshed)
	assert.NoError(t, err)
	assert.Equal(t, 7, newClaims.UserID)
}
