package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/setlist2spotify/internal/server"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// oauthFlow is the part of the Spotify service the authorization flow needs.
type oauthFlow interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
}

// Auth performs the OAuth2 authorization-code flow for Spotify and stores the token.
//
// Starts a local HTTP server on the redirect URI, opens the browser for user authorization,
// and exchanges the code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(ctx, r.spotify, "authorization", cmd.Bool("no-browser"))
	if err != nil {
		return err
	}
	if err := r.saveTokens(token); err != nil {
		return err
	}
	if err := r.spotify.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to authenticate with new tokens: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n", r.configPath)
	}
	if user, err := r.spotify.CurrentUser(ctx); err == nil {
		r.writePlain("Signed in as %s (%s)\n", user.DisplayName, user.ID)
	}
	r.writePlain("\nYou can now use: s2s build <artist>\n")
	return nil
}

// doOAuth serves the callback, sends the user to the consent page and waits for the token.
func (r *Runner) doOAuth(ctx context.Context, flow oauthFlow, prefix string, noBrowser bool) (*oauth2.Token, error) {
	addr, path, err := r.config.Credentials.Spotify.CallbackAddr()
	if err != nil {
		return nil, err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	handler := server.NewOAuthHandler(flow.GetOAuthConfig(), state, path)
	router := server.NewRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	srvCtx, stop := context.WithCancel(ctx)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, addr)
		serverErrors <- server.Serve(srvCtx, addr, router, r.logger)
	}()

	authURL := flow.GetAuthURL(state)
	if noBrowser {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
		if err := r.openBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", authTimeout)

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		if err == nil {
			err = errors.New("callback server stopped")
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, authTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, errors.New("no token received")
	}
	return result.Token, nil
}

// withReauth runs fn and, when it fails because the stored token is no longer accepted,
// reauthorizes once and retries.
func (r *Runner) withReauth(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || r.spotify == nil || !needsReauth(err) {
		return err
	}

	r.writePlainln("⚠ Spotify token rejected. Starting reauthorization...")
	token, authErr := r.doOAuth(ctx, r.spotify, "reauthorization", false)
	if authErr != nil {
		return fmt.Errorf("reauthorization failed: %w", authErr)
	}
	if err := r.saveTokens(token); err != nil {
		return err
	}
	if err := r.spotify.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("failed to authenticate with new tokens: %w", err)
	}
	r.writePlainln("✓ Reauthenticated. Retrying...")
	return fn()
}

func needsReauth(err error) bool {
	return errors.Is(err, shared.ErrTokenExpired) ||
		errors.Is(err, shared.ErrNotAuthenticated) ||
		errors.Is(err, shared.ErrAuthFailed)
}
