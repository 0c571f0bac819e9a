package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/sona/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRequest holds the fields of an authorization code exchange.
type TokenRequest struct {
	Code         string
	CodeVerifier string
	ClientID     string
	ClientSecret string // omitted from the form when empty (public PKCE clients)
	RedirectURI  string
}

// RefreshRequest holds the fields of a refresh token grant.
type RefreshRequest struct {
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// TokenResponse is the accounts service token payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// OAuth2Token converts the response to an [oauth2.Token] with an absolute expiry.
func (t *TokenResponse) OAuth2Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return token
}

// ExchangeCodeForToken trades an authorization code for tokens.
//
// The exchange does not need (or send) a bearer token and does not change the client's token.
func (c *Client) ExchangeCodeForToken(ctx context.Context, tr TokenRequest) (*TokenResponse, error) {
	switch {
	case tr.Code == "":
		return nil, fmt.Errorf("%w: code", shared.ErrMissingArgument)
	case tr.ClientID == "":
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingArgument)
	case tr.RedirectURI == "":
		return nil, fmt.Errorf("%w: redirect_uri", shared.ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", tr.Code)
	form.Set("redirect_uri", tr.RedirectURI)
	form.Set("client_id", tr.ClientID)
	if tr.CodeVerifier != "" {
		form.Set("code_verifier", tr.CodeVerifier)
	}
	if tr.ClientSecret != "" {
		form.Set("client_secret", tr.ClientSecret)
	}

	return c.requestToken(ctx, form)
}

// RefreshToken obtains a new access token from a refresh token.
func (c *Client) RefreshToken(ctx context.Context, rr RefreshRequest) (*TokenResponse, error) {
	switch {
	case rr.RefreshToken == "":
		return nil, shared.ErrNoRefreshToken
	case rr.ClientID == "":
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingArgument)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", rr.RefreshToken)
	form.Set("client_id", rr.ClientID)
	if rr.ClientSecret != "" {
		form.Set("client_secret", rr.ClientSecret)
	}

	token, err := c.requestToken(ctx, form)
	if err != nil {
		return nil, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = rr.RefreshToken
	}
	return token, nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.send(req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, &ParseError{Err: fmt.Errorf("token response has no access_token")}
	}

	c.logger.Debug("token issued", "grant_type", form.Get("grant_type"), "expires_in", token.ExpiresIn, "scope", token.Scope)
	return &token, nil
}

// AuthConfig describes the application for building authorize URLs.
type AuthConfig struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	AuthURL     string
	TokenURL    string
}

func (a AuthConfig) oauth2Config() *oauth2.Config {
	authURL, tokenURL := a.AuthURL, a.TokenURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &oauth2.Config{
		ClientID:    a.ClientID,
		RedirectURL: a.RedirectURI,
		Scopes:      a.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// NewVerifier returns a random PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL builds the authorize URL with an S256 challenge derived from verifier.
func AuthCodeURL(a AuthConfig, state, verifier string) string {
	return a.oauth2Config().AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}
