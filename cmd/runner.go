package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sona/internal/shared"
	"github.com/desertthunder/sona/internal/spotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    *spotify.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config path the first time a command needs it.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    *spotify.Client
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:      "sona",
		Usage:     "Spotify Web API client",
		Version:   "0.1.0",
		Writer:    r.output,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
				Sources: cli.EnvVars("SONA_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, endpointsCommand, callCommand, apiCommand,
		meCommand, playlistsCommand, searchCommand, playerCommand, libraryCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the configuration file once. An explicit --config always wins over ConfigPath.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.configPath == "" || cmd.IsSet("config") {
		r.configPath = cmd.String("config")
	}
	if r.configPath == "" {
		r.configPath = defaultConfigPath
	}

	if r.config != nil {
		return nil
	}

	config, err := shared.LoadOrDefault(r.configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.logger.Debug("configuration loaded", "path", r.configPath)
	return nil
}

// client returns the API client, building it from configuration on first use.
func (r *Runner) client() *spotify.Client {
	if r.spotify != nil {
		return r.spotify
	}

	api := r.config.API

	var limiter *rate.Limiter
	if api.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(api.RequestsPerSecond), max(api.Burst, 1))
	}

	r.spotify = spotify.NewClient(spotify.ClientOpts{
		BaseURL:     api.BaseURL,
		TokenURL:    api.TokenURL,
		AccessToken: r.config.Credentials.Spotify.AccessToken,
		HTTPClient:  r.httpClient,
		Logger:      shared.WithLogger(r.logger, "service", "spotify"),
		Limiter:     limiter,
	})
	return r.spotify
}

// session prepares an authenticated client for an API command.
//
// An expired access token is refreshed first when a refresh token is stored; without one the
// command fails with [shared.ErrTokenExpired]. The returned context is bounded by api.timeout_seconds.
func (r *Runner) session(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc, error) {
	if err := r.loadConfig(cmd); err != nil {
		return ctx, func() {}, err
	}

	c := r.client()
	creds := &r.config.Credentials.Spotify

	if creds.Expired() {
		if creds.RefreshToken == "" {
			expired := creds.Expiry.Local().Format(time.RFC1123)
			return ctx, func() {}, fmt.Errorf("%w: expired %s and no refresh token is stored", shared.ErrTokenExpired, expired)
		}

		r.logger.Info("access token expired, refreshing")
		if err := r.refresh(ctx); err != nil {
			return ctx, func() {}, err
		}
	}

	if !c.HasAccessToken() && creds.AccessToken != "" {
		c.SetAccessToken(creds.AccessToken)
	}

	ctx, cancel := r.withTimeout(ctx)
	return ctx, cancel, nil
}

// withTimeout bounds ctx by api.timeout_seconds when it is set.
func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config != nil {
		if timeout := r.config.API.Timeout(); timeout > 0 {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return ctx, func() {}
}

// refresh exchanges the stored refresh token for a new access token and saves it.
func (r *Runner) refresh(ctx context.Context) error {
	creds := r.config.Credentials.Spotify
	if creds.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	resp, err := r.client().RefreshToken(ctx, spotify.RefreshRequest{
		RefreshToken: creds.RefreshToken,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	return r.saveTokens(resp.OAuth2Token())
}

// saveTokens stores token in the configuration file and installs it on the client.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: configuration not loaded", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		r.logger.Debug("no config path, tokens kept in memory")
	} else if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if r.spotify != nil {
		r.spotify.SetAccessToken(token.AccessToken)
	}
	r.logger.Info("tokens saved", "path", r.configPath, "expiry", token.Expiry)
	return nil
}

// respond writes v as JSON when --json is set, otherwise through render.
func (r *Runner) respond(cmd *cli.Command, v any, render func(any) (string, error)) error {
	if cmd.Bool("json") || render == nil {
		return r.writeJSON(v, cmd.Bool("pretty"))
	}

	text, err := render(v)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
