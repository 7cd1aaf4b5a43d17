package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ListableAPI/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var testNow = time.Unix(1730000000, 0)

func hsConfig() config.JWTConfig {
	return config.JWTConfig{
		ValidationType: "HS256",
		Issuer:         "auth-service",
		Audience:       "listable-api",
		HMACSecret:     "super-secret",
	}
}

func newValidator(t *testing.T, cfg config.JWTConfig) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(cfg)
	if err != nil {
		t.Fatalf("NewJWTValidator failed: %v", err)
	}
	v.clockFunc = func() time.Time { return testNow }
	return v
}

func claimsFor(cfg config.JWTConfig, exp int64) jwt.MapClaims {
	return jwt.MapClaims{
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"iat": testNow.Unix() - 10,
		"nbf": testNow.Unix() - 5,
		"exp": exp,
		"sub": "user-1",
	}
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return s
}

func publicPEM(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey failed: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestHS256ValidateToken(t *testing.T) {
	cfg := hsConfig()
	v := newValidator(t, cfg)

	token := sign(t, jwt.SigningMethodHS256, []byte(cfg.HMACSecret), claimsFor(cfg, testNow.Unix()+30))
	claims, err := v.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims["sub"] != "user-1" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
}

func TestValidateTokenRejects(t *testing.T) {
	cfg := hsConfig()
	v := newValidator(t, cfg)
	secret := []byte(cfg.HMACSecret)

	wrongAud := claimsFor(cfg, testNow.Unix()+30)
	wrongAud["aud"] = "someone-else"
	wrongIss := claimsFor(cfg, testNow.Unix()+30)
	wrongIss["iss"] = "evil"
	noExp := claimsFor(cfg, 0)
	delete(noExp, "exp")

	cases := map[string]string{
		"expired":      sign(t, jwt.SigningMethodHS256, secret, claimsFor(cfg, testNow.Unix()-1)),
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(cfg, testNow.Unix()+30)),
		"wrong alg":    sign(t, jwt.SigningMethodHS512, secret, claimsFor(cfg, testNow.Unix()+30)),
		"audience":     sign(t, jwt.SigningMethodHS256, secret, wrongAud),
		"issuer":       sign(t, jwt.SigningMethodHS256, secret, wrongIss),
		"no exp":       sign(t, jwt.SigningMethodHS256, secret, noExp),
		"garbage":      "not.a.jwt",
	}
	for name, token := range cases {
		if _, err := v.ValidateToken(token); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestClockSkewAllowsRecentExpiry(t *testing.T) {
	cfg := hsConfig()
	cfg.ClockSkewSec = 30
	v := newValidator(t, cfg)

	token := sign(t, jwt.SigningMethodHS256, []byte(cfg.HMACSecret), claimsFor(cfg, testNow.Unix()-5))
	if _, err := v.ValidateToken(token); err != nil {
		t.Fatalf("expected skew to accept token: %v", err)
	}
}

func TestRS256ValidateToken(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	cfg := hsConfig()
	cfg.ValidationType = "RS256"
	cfg.HMACSecret = ""
	cfg.PublicKeyPEM = publicPEM(t, &priv.PublicKey)
	v := newValidator(t, cfg)

	token := sign(t, jwt.SigningMethodRS256, priv, claimsFor(cfg, testNow.Unix()+60))
	if _, err := v.ValidateToken(token); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
}

func TestES256ValidateToken(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	cfg := hsConfig()
	cfg.ValidationType = "ES256"
	cfg.PublicKeyPEM = publicPEM(t, &priv.PublicKey)
	v := newValidator(t, cfg)

	token := sign(t, jwt.SigningMethodES256, priv, claimsFor(cfg, testNow.Unix()+60))
	if _, err := v.ValidateToken(token); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
}

func TestNewJWTValidatorRequiresSettings(t *testing.T) {
	for name, mutate := range map[string]func(*config.JWTConfig){
		"issuer":   func(c *config.JWTConfig) { c.Issuer = "" },
		"audience": func(c *config.JWTConfig) { c.Audience = " " },
		"type":     func(c *config.JWTConfig) { c.ValidationType = "" },
		"secret":   func(c *config.JWTConfig) { c.HMACSecret = "" },
		"alg":      func(c *config.JWTConfig) { c.ValidationType = "none" },
		"pem":      func(c *config.JWTConfig) { c.ValidationType = "RS256" },
	} {
		cfg := hsConfig()
		mutate(&cfg)
		if _, err := NewJWTValidator(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestMiddleware(t *testing.T) {
	cfg := hsConfig()
	v := newValidator(t, cfg)
	h := v.Middleware(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims["sub"] != "user-1" {
			t.Errorf("claims not propagated: %v", claims)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/list", nil)
	w := httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/list", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(cfg.HMACSecret), claimsFor(cfg, testNow.Unix()+30)))
	w = httptest.NewRecorder()
	h(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d", w.Code)
	}
}
