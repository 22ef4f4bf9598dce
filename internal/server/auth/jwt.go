// Package auth signs and verifies the HS256 bearer tokens handed out by the
// auth service. The subject claim carries the username.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the registered claim set plus the token type, so a refresh
// token cannot be used where an access token is expected and vice versa.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// Codec issues and decodes tokens with a single shared secret.
type Codec struct {
	secretKey       []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
	now             func() time.Time
}

// NewCodec returns a Codec. A zero refreshValidity leaves refresh tokens
// without an exp claim; the stored copy on the user record is then the
// only thing limiting their use.
func NewCodec(secretKey []byte, accessValidity, refreshValidity time.Duration) *Codec {
	return &Codec{
		secretKey:       secretKey,
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
		now:             time.Now,
	}
}

// IssueAccess mints a short-lived access token for subject.
func (c *Codec) IssueAccess(subject string) (string, error) {
	return c.issue(subject, TokenTypeAccess, c.accessValidity)
}

// IssueRefresh mints a refresh token for subject. Every token carries a
// random jti, so two tokens minted within the same second still differ.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	return c.issue(subject, TokenTypeRefresh, c.refreshValidity)
}

func (c *Codec) issue(subject, tokenType string, validity time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		TokenType: tokenType,
	}
	if validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secretKey)
}

// Decode verifies the signature and expiry of tokenString and checks that
// it is of the wanted type and names a subject.
//
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// yields common.ErrInvalidToken.
func (c *Codec) Decode(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != tokenType || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
