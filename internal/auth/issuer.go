// Package auth obtains and caches the machine-to-machine access token used
// for calls to the snippet service.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Issuer fetches a fresh access token.
type Issuer interface {
	IssueToken(ctx context.Context) (*oauth2.Token, error)
}

// IssuerConfig describes an OAuth2 client-credentials grant.
type IssuerConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Audience     string
}

// ClientCredentialsIssuer requests tokens with the client-credentials grant,
// passing the audience as an extra form parameter.
type ClientCredentialsIssuer struct {
	cfg        *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentialsIssuer creates an issuer. httpClient may be nil.
func NewClientCredentialsIssuer(cfg IssuerConfig, httpClient *http.Client) *ClientCredentialsIssuer {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if cfg.Audience != "" {
		cc.EndpointParams = map[string][]string{"audience": {cfg.Audience}}
	}
	return &ClientCredentialsIssuer{cfg: cc, httpClient: httpClient}
}

// IssueToken performs one token request. Each call hits the token endpoint.
func (i *ClientCredentialsIssuer) IssueToken(ctx context.Context) (*oauth2.Token, error) {
	if i.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, i.httpClient)
	}
	tok, err := i.cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token request to %s failed: %w", i.cfg.TokenURL, err)
	}
	return tok, nil
}
