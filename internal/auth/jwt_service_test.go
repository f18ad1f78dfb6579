package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.Issue(42, "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)

	// Expiry is fixed at one hour from issuance.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, TokenExpiry)
}

func TestJWTService_VerifyFailsClosed(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.Issue(1, "viewer")
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "tampered token", token: token + "x"},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_VerifyWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Issue(1, "viewer")
	assert.NoError(t, err)

	claims, err := NewJWTService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_VerifyExpiredToken(t *testing.T) {
	secret := "test-secret"
	expired := &Claims{
		UserID: 7,
		Role:   "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(secret))
	assert.NoError(t, err)

	claims, err := NewJWTService(secret).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_VerifyRejectsUnexpectedAlg(t *testing.T) {
	// alg=none tokens must be rejected outright.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	claims, err := NewJWTService("test-secret").Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
