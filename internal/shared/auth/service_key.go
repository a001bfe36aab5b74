package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingKey   = errors.New("missing store key")
	ErrMalformedKey = errors.New("malformed store key")
	ErrExpiredKey   = errors.New("store key expired")
)

const (
	publishableKeyPrefix = "sb_publishable_"
	secretKeyPrefix      = "sb_secret_"
)

// ServiceKeyClaims are the claims carried by a hosted store API key.
type ServiceKeyClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// KeyInspector decodes store API keys without verifying their signature; the
// store verifies them on every request, this only catches misconfiguration early.
type KeyInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewKeyInspector() *KeyInspector {
	return &KeyInspector{parser: jwt.NewParser(), now: time.Now}
}

// Inspect returns the claims embedded in key. Opaque sb_ keys yield a claim set
// carrying only the role implied by their prefix.
func (i *KeyInspector) Inspect(key string) (*ServiceKeyClaims, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrMissingKey
	}

	switch {
	case strings.HasPrefix(key, publishableKeyPrefix):
		return &ServiceKeyClaims{Role: "publishable"}, nil
	case strings.HasPrefix(key, secretKeyPrefix):
		return &ServiceKeyClaims{Role: "secret"}, nil
	}

	claims := &ServiceKeyClaims{}
	if _, _, err := i.parser.ParseUnverified(key, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role claim", ErrMalformedKey)
	}
	if exp := claims.ExpiresAt; exp != nil && !exp.Time.After(i.now()) {
		return nil, fmt.Errorf("%w at %s", ErrExpiredKey, exp.Time.UTC().Format(time.RFC3339))
	}
	return claims, nil
}
