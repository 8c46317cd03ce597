package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Spok95/pool-tracker/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("верный пароль отклонён: %v", err)
	}
	if err := CheckPassword(hash, "secret2"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("ожидали ErrInvalidCredentials, получили %v", err)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("12345"); !models.IsValidation(err) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
}

func TestIssuer_IssueParse(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	u := &models.User{ID: 7, Email: "ana@epitech.eu", Role: models.Student}

	tok, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.ID != 7 || c.Email != u.Email || c.Role != models.Student {
		t.Fatalf("неожиданные claims: %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != time.Hour {
		t.Fatalf("срок токена %v, ожидали 1h", got)
	}
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	u := &models.User{ID: 1, Email: "a@b.c", Role: models.Admin}

	expired := NewIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	oldTok, _ := expired.Issue(u)

	otherTok, _ := NewIssuer("other-secret", time.Hour).Issue(u)

	noneTok, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{
		"expired":      oldTok,
		"wrong secret": otherTok,
		"alg none":     noneTok,
		"garbage":      "not.a.token",
	} {
		_, err := iss.Parse(tok)
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("%s: ожидали ErrInvalidCredentials, получили %v", name, err)
		}
	}
}

func TestIssuer_DefaultTTL(t *testing.T) {
	iss := NewIssuer("s", 0)
	tok, err := iss.Issue(&models.User{ID: 3, Role: models.AER})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("не похоже на JWT: %q", tok)
	}
	c, err := iss.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != 24*time.Hour {
		t.Fatalf("TTL по умолчанию %v, ожидали 24h", got)
	}
}
