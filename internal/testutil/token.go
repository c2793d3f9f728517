package testutil

import (
	"testing"
	"time"

	appjwt "hospital-appointment-service/pkg/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignToken signs claims with secret the way the auth service does
func SignToken(t *testing.T, secret string, claims appjwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// AccessToken signs an access token for userID with role that expires after ttl
func AccessToken(t *testing.T, secret string, userID uuid.UUID, role string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	return SignToken(t, secret, appjwt.Claims{
		UserID:    userID,
		Email:     role + "@hospital.test",
		Role:      role,
		TokenType: appjwt.AccessToken,
		TokenID:   uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
}
