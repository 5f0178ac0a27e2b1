// Package session resolves who the current user is: a fixed local id for
// database backends, or the subject of the stored API token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/habitstreak/internal/keyring"
	"github.com/julianstephens/habitstreak/internal/storage"
)

// Static always reports the same user id
type Static string

func (s Static) CurrentUserID(context.Context) (string, error) {
	if s == "" {
		return "", storage.ErrUnauthenticated
	}
	return string(s), nil
}

// Claims are the parts of an access token the client relies on
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token is past its expiry at now
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseToken decodes an access token without verifying its signature. The
// server remains the authority; the client only reads sub and exp.
func ParseToken(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return Claims{}, fmt.Errorf("malformed access token: %w", err)
	}

	sub, err := subject(claims["sub"])
	if err != nil {
		return Claims{}, err
	}

	out := Claims{Subject: sub}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("malformed access token: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func subject(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	}
	return "", errors.New("access token has no subject")
}

// TokenSession reads the access token from the OS keyring on each call so
// a login in another process is picked up.
type TokenSession struct {
	load func() (string, error)
	now  func() time.Time
}

func NewTokenSession() *TokenSession {
	return &TokenSession{load: keyring.GetToken, now: time.Now}
}

// NewTokenSessionFrom builds a session over a custom token source
func NewTokenSessionFrom(load func() (string, error), now func() time.Time) *TokenSession {
	if now == nil {
		now = time.Now
	}
	return &TokenSession{load: load, now: now}
}

// Token returns a usable access token. Missing, malformed and expired
// tokens all yield storage.ErrUnauthenticated.
func (s *TokenSession) Token(context.Context) (string, Claims, error) {
	token, err := s.load()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", Claims{}, fmt.Errorf("no stored session: %w", storage.ErrUnauthenticated)
	}
	if err != nil {
		return "", Claims{}, err
	}

	claims, err := ParseToken(token)
	if err != nil {
		return "", Claims{}, fmt.Errorf("%v: %w", err, storage.ErrUnauthenticated)
	}
	if claims.Expired(s.now()) {
		return "", Claims{}, fmt.Errorf("session expired at %s: %w", claims.ExpiresAt.Format(time.RFC3339), storage.ErrUnauthenticated)
	}
	return token, claims, nil
}

func (s *TokenSession) CurrentUserID(ctx context.Context) (string, error) {
	_, claims, err := s.Token(ctx)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
