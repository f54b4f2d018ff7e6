package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := m.GenerateToken(Caller{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	caller, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if caller.UserID != 7 || caller.Username != "alice" {
		t.Errorf("caller = %+v", caller)
	}
}

func TestParseTokenRejects(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour)
	other, _ := NewTokenManager("other-secret", time.Hour)

	wrongKey, _ := other.GenerateToken(Caller{UserID: 7})

	expiredMgr, _ := NewTokenManager("test-secret", time.Minute)
	expiredMgr.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := expiredMgr.GenerateToken(Caller{UserID: 7})

	noUser, _ := m.GenerateToken(Caller{})

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"garbage":   "not-a-token",
		"wrong key": wrongKey,
		"expired":   expired,
		"no user":   noUser,
		"alg none":  none,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestCallerContext(t *testing.T) {
	if _, ok := CallerFromContext(context.Background()); ok {
		t.Fatal("empty context should not carry a caller")
	}
	ctx := WithCaller(context.Background(), Caller{UserID: 3})
	caller, ok := CallerFromContext(ctx)
	if !ok || caller.UserID != 3 {
		t.Errorf("CallerFromContext = %+v, %v", caller, ok)
	}
}
