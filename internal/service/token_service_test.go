package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		Issuer:                 "learnchat",
		Audience:               "learnchat-client",
		AccessValiditySeconds:  3600,
		RefreshValiditySeconds: 604800,
	}
}

func newTestTokenService(t *testing.T, cfg config.TokenConfig) *TokenService {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key failed: %v", err)
	}
	return NewTokenServiceWithKeys(cfg, privateKey, &privateKey.PublicKey)
}

func assertAppErrorKind(t *testing.T, err error, kind response.Kind) *response.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %d, got %d (message %q)", kind, appErr.Kind, appErr.Message)
	}
	return appErr
}

func TestTokenServiceIssuePairRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, testTokenConfig())
	pair, err := svc.IssuePair(42, "primary-key", "secondary-key")
	if err != nil {
		t.Fatalf("issue pair failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair")
	}

	claims, err := svc.Validate(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access token failed: %v", err)
	}
	if claims.Param != "primary-key" {
		t.Fatalf("expected prm primary-key, got %q", claims.Param)
	}
	userID, err := svc.ValidatePayload(claims)
	if err != nil {
		t.Fatalf("validate payload failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}

	refreshClaims, err := svc.Validate(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh token failed: %v", err)
	}
	if refreshClaims.Param != "secondary-key" {
		t.Fatalf("expected prm secondary-key, got %q", refreshClaims.Param)
	}
}

func TestTokenServiceExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, testTokenConfig())
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue(7, "key", svc.AccessValidity())
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(svc.AccessValidity() + time.Minute) }
	_, err = svc.Validate(token)
	assertAppErrorKind(t, err, response.KindTokenExpired)

	// 过期令牌仍可解码，刷新流程依赖这一行为
	claims, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode expired token failed: %v", err)
	}
	if claims.Param != "key" {
		t.Fatalf("expected prm key, got %q", claims.Param)
	}
}

func TestTokenServiceRejectsForeignSignature(t *testing.T) {
	cfg := testTokenConfig()
	svc := newTestTokenService(t, cfg)
	other := newTestTokenService(t, cfg)

	token, err := other.Issue(7, "key", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	_, err = svc.Validate(token)
	assertAppErrorKind(t, err, response.KindBadToken)
	_, err = svc.Decode(token)
	assertAppErrorKind(t, err, response.KindBadToken)
}

func TestTokenServiceValidatePayloadMismatch(t *testing.T) {
	cfg := testTokenConfig()
	svc := newTestTokenService(t, cfg)

	foreignCfg := cfg
	foreignCfg.Issuer = "someone-else"
	foreign := NewTokenServiceWithKeys(foreignCfg, svc.privateKey, svc.publicKey)

	token, err := foreign.Issue(7, "key", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	_, err = svc.ValidatePayload(claims)
	appErr := assertAppErrorKind(t, err, response.KindBadToken)
	if appErr.Message != "Invalid Access Token" {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}

func TestTokenServiceValidatePayloadBadSubject(t *testing.T) {
	svc := newTestTokenService(t, testTokenConfig())
	token, err := svc.Issue(0, "key", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if _, err := svc.ValidatePayload(claims); err == nil {
		t.Fatalf("expected error for zero subject")
	}
}
