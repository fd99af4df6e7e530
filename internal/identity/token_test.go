package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	alice := Identity{UserID: 3, Username: "alice"}

	tok, err := tokens.Issue(alice)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/articles", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	got, err := tokens.Identify(r)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if got != alice {
		t.Fatalf("identity mismatch: %+v", got)
	}
}

func TestTokens_NoHeaderIsAnonymous(t *testing.T) {
	got, err := NewTokens(testSecret, time.Hour).Identify(httptest.NewRequest("GET", "/", nil))
	if err != nil || got.Authenticated() {
		t.Fatalf("expected anonymous, got %+v %v", got, err)
	}
}

func TestTokens_InvalidScheme(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Basic YWxpY2U6c2VjcmV0")

	if _, err := NewTokens(testSecret, time.Hour).Identify(r); err == nil {
		t.Fatalf("expected error for non-bearer scheme")
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	tok, _ := NewTokens("other", time.Hour).Issue(Identity{UserID: 1, Username: "bob"})

	if _, err := NewTokens(testSecret, time.Hour).Parse(tok); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens(testSecret, time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := tokens.Issue(Identity{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokens(testSecret, time.Minute).Parse(tok); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestTokens_ClaimsValidation(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": ""}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewTokens(testSecret, time.Hour).Parse(tok); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}

func TestTokens_AnonymousCannotGetToken(t *testing.T) {
	if _, err := NewTokens(testSecret, time.Hour).Issue(Anonymous); err == nil {
		t.Fatalf("expected error issuing a token for anonymous")
	}
}
