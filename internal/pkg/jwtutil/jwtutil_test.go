package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken(testSecret, time.Hour, 42, "red@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "red@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "red@example.com")
	}

	wantExpiry := time.Now().Add(time.Hour)
	if d := claims.ExpiresAt.Time.Sub(wantExpiry); d > time.Minute || d < -time.Minute {
		t.Errorf("ExpiresAt = %v, want about %v", claims.ExpiresAt.Time, wantExpiry)
	}
}

func TestParseTokenRejects(t *testing.T) {
	t.Parallel()

	valid, err := GenerateToken(testSecret, time.Hour, 1, "a@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	expired, err := GenerateToken(testSecret, -time.Minute, 1, "a@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512 token: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", valid},
		{"expired", testSecret, expired},
		{"garbage", testSecret, "not-a-token"},
		{"none algorithm", testSecret, noneAlg},
		{"other hmac algorithm", testSecret, hs512},
		{"empty", testSecret, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
