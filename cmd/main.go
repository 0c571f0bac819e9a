package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/sona/internal/formatter"
	"github.com/desertthunder/sona/internal/shared"
	"github.com/desertthunder/sona/internal/spotify"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		logger.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, formatter.Error("✗ "+failure(err)))
		stop()
		os.Exit(1)
	}
}

// failure returns the message shown for err, with a hint when the user can fix it.
func failure(err error) string {
	switch {
	case errors.Is(err, spotify.ErrNoAccessToken), errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrTokenExpired):
		return fmt.Sprintf("%v: run 'sona auth url' to authorize", err)
	case errors.Is(err, shared.ErrNoRefreshToken):
		return fmt.Sprintf("%v: run 'sona auth url' to authorize again", err)
	case errors.Is(err, shared.ErrRateLimited), errors.Is(err, shared.ErrServiceUnavailable):
		return fmt.Sprintf("%v: try again later", err)
	case errors.Is(err, shared.ErrMissingCredentials):
		return fmt.Sprintf("%v: run 'sona setup' and edit the config file", err)
	default:
		return fmt.Sprintf("application error: %v", err)
	}
}
