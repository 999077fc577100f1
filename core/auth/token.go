// Package auth signs and verifies the session tokens carried by the
// `token` cookie and the Authorization header.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zeroonecreation/classify/core"
)

var (
	ErrMissingToken = errors.New("token is missing")
	ErrInvalidToken = errors.New("invalid token")

	nowFunc = time.Now // mockable
)

// Claims represents the identity claims transmitted via a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Codec mints and verifies session tokens. It is a pure function of the
// configured secret; it holds no other state.
type Codec struct {
	secret []byte
	issuer string
	delta  time.Duration
}

func NewCodec(conf *core.Config) (*Codec, error) {
	if len(conf.SecretKey) == 0 {
		return nil, errors.New("auth: secret key not configured")
	}
	return &Codec{
		secret: conf.SecretKey,
		issuer: conf.AppName,
		delta:  conf.Server.JWTExpirationDelta,
	}, nil
}

// Issue mints a signed token for the given identity, expiring after the
// configured delta.
func (c *Codec) Issue(id, email, fullName string) (string, error) {
	now := nowFunc()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.delta)),
		},
		Email:    email,
		FullName: fullName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the token's signature, structure and expiry. All failure
// modes collapse into ErrInvalidToken.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return nowFunc() }))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Delta reports the configured token lifetime; the session cookie's
// expiry matches it.
func (c *Codec) Delta() time.Duration {
	return c.delta
}
