package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sona/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the default configuration template to the --config path.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	if _, err := shared.LoadConfig(configPath); err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}

	r.logger.Infof("config file created: %v", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and redirect_uri in %s\n", configPath)
	r.writePlain("2. Run 'sona auth url' and open the printed link\n")
	r.writePlain("3. Run 'sona auth exchange <code>' with the code from the redirect\n")
	return nil
}
