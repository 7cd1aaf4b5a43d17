package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"ListableAPI/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsContextKey contextKey = "jwt_claims"

type JWTValidator struct {
	cfg       config.JWTConfig
	key       any
	expected  string
	clockFunc func() time.Time
}

func NewJWTValidator(cfg config.JWTConfig) (*JWTValidator, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("jwt issuer is required")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("jwt audience is required")
	}
	alg := strings.ToUpper(strings.TrimSpace(cfg.ValidationType))
	if alg == "" {
		return nil, errors.New("jwt validation type is required")
	}

	v := &JWTValidator{
		cfg:       cfg,
		expected:  alg,
		clockFunc: time.Now,
	}

	switch alg {
	case "HS256":
		if cfg.HMACSecret == "" {
			return nil, errors.New("jwt hmac secret is required for HS256")
		}
		v.key = []byte(cfg.HMACSecret)
	case "RS256":
		pem, err := loadPublicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		var rsaKey *rsa.PublicKey
		if rsaKey, err = jwt.ParseRSAPublicKeyFromPEM(pem); err != nil {
			return nil, fmt.Errorf("jwt public key is not RSA: %w", err)
		}
		v.key = rsaKey
	case "ES256":
		pem, err := loadPublicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		var ecKey *ecdsa.PublicKey
		if ecKey, err = jwt.ParseECPublicKeyFromPEM(pem); err != nil {
			return nil, fmt.Errorf("jwt public key is not ECDSA: %w", err)
		}
		v.key = ecKey
	default:
		return nil, fmt.Errorf("unsupported jwt validation type: %s", cfg.ValidationType)
	}

	return v, nil
}

// ValidateToken checks signature, issuer, audience and time claims and
// returns the claims map. exp is required.
func (v *JWTValidator) ValidateToken(token string) (map[string]any, error) {
	skew := v.cfg.ClockSkewSec
	if skew < 0 {
		skew = 0
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.expected}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithLeeway(time.Duration(skew)*time.Second),
		jwt.WithTimeFunc(v.clockFunc),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}); err != nil {
		return nil, fmt.Errorf("invalid jwt: %w", err)
	}
	return claims, nil
}

func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsContextKey).(map[string]any)
	return claims, ok
}

// Middleware rejects requests without a valid bearer token and stores the
// claims in the request context.
func (v *JWTValidator) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := v.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

func loadPublicKeyPEM(cfg config.JWTConfig) ([]byte, error) {
	keyPEM := strings.TrimSpace(cfg.PublicKeyPEM)
	if keyPEM == "" && strings.TrimSpace(cfg.PublicKeyPath) != "" {
		data, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		keyPEM = string(data)
	}
	if keyPEM == "" {
		return nil, errors.New("jwt public key is required")
	}
	return []byte(keyPEM), nil
}
