package oauth

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

var appleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://appleid.apple.com/auth/authorize",
	TokenURL:  "https://appleid.apple.com/auth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type AppleConfig struct {
	ClientID    string
	TeamID      string
	KeyID       string
	PrivateKey  string // PEM, PKCS8
	RedirectURL string
}

type AppleProvider struct {
	cfg    AppleConfig
	key    *ecdsa.PrivateKey
	config *oauth2.Config
	now    func() time.Time
}

func NewAppleProvider(cfg AppleConfig) (*AppleProvider, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("apple private key: %w", err)
	}
	return &AppleProvider{
		cfg: cfg,
		key: key,
		config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Endpoint:    appleEndpoint,
			Scopes:      []string{"name", "email"},
		},
		now: time.Now,
	}, nil
}

func (p *AppleProvider) Name() string { return ProviderApple }

// AuthCodeURL: при запросе name/email Apple требует response_mode=form_post
func (p *AppleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "form_post"))
}

// clientSecret: ES256 JWT, которым Apple заменяет статический client secret
func (p *AppleProvider) clientSecret() (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Issuer:    p.cfg.TeamID,
		Subject:   p.cfg.ClientID,
		Audience:  jwt.ClaimStrings{"https://appleid.apple.com"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = p.cfg.KeyID
	return token.SignedString(p.key)
}

type appleIDClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type appleUser struct {
	Name struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"name"`
}

func (p *AppleProvider) Exchange(ctx context.Context, code string, form url.Values) (*Identity, error) {
	secret, err := p.clientSecret()
	if err != nil {
		return nil, fmt.Errorf("apple client secret: %w", err)
	}

	token, err := p.config.Exchange(ctx, code, oauth2.SetAuthURLParam("client_secret", secret))
	if err != nil {
		return nil, fmt.Errorf("apple exchange: %w", err)
	}

	rawID, _ := token.Extra("id_token").(string)
	if rawID == "" {
		return nil, errors.New("apple exchange: no id_token in response")
	}

	// id_token пришёл напрямую от token endpoint по TLS, подпись не перепроверяем
	claims := &appleIDClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawID, claims); err != nil {
		return nil, fmt.Errorf("apple id_token: %w", err)
	}

	return &Identity{
		Provider:   ProviderApple,
		ProviderID: claims.Subject,
		Email:      claims.Email,
		Name:       appleDisplayName(form.Get("user")),
	}, nil
}

// appleDisplayName разбирает поле user, которое Apple присылает только при первом входе
func appleDisplayName(raw string) string {
	if raw == "" {
		return ""
	}
	var u appleUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return ""
	}
	return strings.TrimSpace(u.Name.FirstName + " " + u.Name.LastName)
}
