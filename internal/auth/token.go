package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when neither the caller nor the configuration sets a lifetime.
const DefaultTokenTTL = 15 * time.Minute

// Claims is the identity carried by a token.
type Claims struct {
	Subject string
	Role    models.Role
}

type tokenClaims struct {
	Role string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenConfig configures a Codec. Secret and Algorithm are required.
type TokenConfig struct {
	Secret     string
	Algorithm  string
	DefaultTTL time.Duration
}

// Codec issues and verifies HMAC-signed JWTs.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// CodecOption customizes a Codec.
type CodecOption func(*Codec)

// WithClock replaces the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg TokenConfig, opts ...CodecOption) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token codec: signing secret is required")
	}
	if cfg.Algorithm == "" {
		return nil, errors.New("token codec: signing algorithm is required")
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token codec: unsupported signing algorithm %q", cfg.Algorithm)
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &Codec{secret: []byte(cfg.Secret), method: method, defaultTTL: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs claims. A non-positive ttl uses the codec default.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()
	tok := jwt.NewWithClaims(c.method, tokenClaims{
		Role: string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	s, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry. Every failure is apperr.ErrInvalidCredentials.
func (c *Codec) Verify(token string) (Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || tc.Subject == "" || tc.Role == "" {
		return Claims{}, apperr.ErrInvalidCredentials
	}
	return Claims{Subject: tc.Subject, Role: models.Role(tc.Role)}, nil
}
