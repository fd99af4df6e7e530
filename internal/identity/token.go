package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret   = errors.New("jwt secret is empty")
	ErrInvalidHeader = errors.New("invalid authorization header")
	ErrInvalidToken  = errors.New("invalid token")
)

type claims struct {
	UserID uint   `json:"uid"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens for API clients.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id that expires after the configured TTL.
func (t *Tokens) Issue(id Identity) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrEmptySecret
	}
	if !id.Authenticated() {
		return "", errors.New("cannot issue a token for an anonymous identity")
	}
	now := t.now()
	c := claims{
		UserID: id.UserID,
		Name:   id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Identify reads a bearer token from the Authorization header. A request
// without the header is Anonymous.
func (t *Tokens) Identify(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Anonymous, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Anonymous, ErrInvalidHeader
	}

	return t.Parse(strings.TrimSpace(parts[1]))
}

// Parse validates a token and returns the identity it was issued for.
func (t *Tokens) Parse(tokenStr string) (Identity, error) {
	if len(t.secret) == 0 {
		return Anonymous, ErrEmptySecret
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}

		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		if err == nil {
			err = ErrInvalidToken
		}

		return Anonymous, err
	}
	c, _ := tok.Claims.(*claims)
	if c == nil || c.UserID == 0 || c.Name == "" {
		return Anonymous, ErrInvalidToken
	}

	return Identity{UserID: c.UserID, Username: c.Name}, nil
}
