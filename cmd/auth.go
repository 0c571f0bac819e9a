package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/sona/internal/shared"
	"github.com/desertthunder/sona/internal/spotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthURL prints the authorization URL for the configured application.
//
// A fresh PKCE verifier is stored in the config file so that "auth exchange" can complete the flow.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	creds := &r.config.Credentials.Spotify
	if creds.ClientID == "" || creds.RedirectURI == "" {
		return fmt.Errorf("%w: client_id and redirect_uri must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	verifier := spotify.NewVerifier()
	authURL := spotify.AuthCodeURL(spotify.AuthConfig{
		ClientID:    creds.ClientID,
		RedirectURI: creds.RedirectURI,
		Scopes:      creds.Scopes,
		AuthURL:     r.config.API.AuthURL,
		TokenURL:    r.config.API.TokenURL,
	}, shared.GenerateState(), verifier)

	creds.CodeVerifier = verifier
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.logger.Debug("stored code verifier", "path", r.configPath)

	r.writePlain("Open this URL to authorize:\n\n%s\n", authURL)
	r.writePlainln("Then run: sona auth exchange <code>")
	return nil
}

// AuthExchange trades the code from the redirect for tokens and saves them.
func (r *Runner) AuthExchange(ctx context.Context, cmd *cli.Command) error {
	code := cmd.StringArg("code")
	if code == "" {
		return fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}

	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	creds := r.config.Credentials.Spotify
	if creds.CodeVerifier == "" && creds.ClientSecret == "" {
		return fmt.Errorf("%w: run 'sona auth url' first", shared.ErrNoCodeVerifier)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	resp, err := r.client().ExchangeCodeForToken(ctx, spotify.TokenRequest{
		Code:         code,
		CodeVerifier: creds.CodeVerifier,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  creds.RedirectURI,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.saveTokens(resp.OAuth2Token()); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: sona me\n")
	return nil
}

// AuthRefresh refreshes the stored access token.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.refresh(ctx); err != nil {
		return err
	}

	expiry := r.config.Credentials.Spotify.Expiry
	if expiry.IsZero() {
		return r.writePlain("✓ Access token refreshed\n")
	}
	return r.writePlain("✓ Access token refreshed (expires %s)\n", expiry.Local().Format(time.RFC1123))
}

// AuthToken stores an access token obtained outside of sona. It has no known expiry.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	token := cmd.StringArg("token")
	if token == "" {
		return fmt.Errorf("%w: access token", shared.ErrMissingArgument)
	}

	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	if err := r.saveTokens(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}); err != nil {
		return err
	}
	return r.writePlain("✓ Access token saved to %s\n", r.configPath)
}

// AuthStatus reports the stored session without contacting the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	creds := r.config.Credentials.Spotify
	r.writePlainHeader("Spotify session")
	r.writePlain("Config: %s\n", r.configPath)

	if creds.ClientID == "" {
		r.writePlain("Client ID: ✗ not set\n")
	} else {
		r.writePlain("Client ID: %s\n", creds.ClientID)
	}

	switch {
	case creds.AccessToken == "":
		r.writePlain("Access token: ✗ Not authenticated\n")
	case creds.Expired():
		r.writePlain("Access token: ✗ Expired %s\n", creds.Expiry.Local().Format(time.RFC1123))
	case creds.Expiry.IsZero():
		r.writePlain("Access token: ✓ Present (no known expiry)\n")
	default:
		r.writePlain("Access token: ✓ Valid until %s\n", creds.Expiry.Local().Format(time.RFC1123))
	}

	if creds.RefreshToken != "" {
		r.writePlain("Refresh token: ✓ Stored\n")
	} else {
		r.writePlain("Refresh token: ✗ None\n")
	}
	return nil
}
