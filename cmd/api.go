package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/sona/internal/formatter"
	"github.com/desertthunder/sona/internal/shared"
	"github.com/desertthunder/sona/internal/spotify"
	"github.com/urfave/cli/v3"
)

// Endpoints lists the catalog.
func (r *Runner) Endpoints(ctx context.Context, cmd *cli.Command) error {
	endpoints := spotify.Endpoints()
	if cmd.Bool("json") {
		return r.writeJSON(endpoints, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.Endpoints(endpoints))
}

// Call invokes a catalog operation with key=value arguments and prints the JSON response.
func (r *Runner) Call(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("%w: operation name (see 'sona endpoints')", shared.ErrMissingArgument)
	}

	params, err := shared.ParseParams(cmd.Args().Tail())
	if err != nil {
		return err
	}

	args := make(spotify.Args, len(params))
	for k, v := range params {
		args[k] = v
	}

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	r.logger.Debug("calling endpoint", "endpoint", name, "args", len(args))

	result, err := r.spotify.Call(ctx, name, args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if result == nil {
		return r.writePlain("✓ %s\n", name)
	}
	return r.writeJSON(result, cmd.Bool("pretty"))
}

// API sends a raw request. The HTTP method is taken from the subcommand name.
func (r *Runner) API(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req := spotify.Request{Method: strings.ToUpper(cmd.Name), Path: path}

	for _, pair := range cmd.StringSlice("query") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: expected key=value, got %q", shared.ErrInvalidArgument, pair)
		}
		req.Query = req.Query.Add(key, value)
	}

	if data := cmd.String("data"); data != "" {
		var body any
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
		req.Body = body
	}

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	r.logger.Info("raw request", "method", req.Method, "url", req.URL())

	result, err := r.spotify.Do(ctx, req)
	if err != nil {
		return err
	}

	if result == nil {
		return r.writePlain("✓ %s %s\n", req.Method, path)
	}
	return r.writeJSON(result, cmd.Bool("pretty"))
}

// apiCommand handles raw requests against the Web API base URL
func apiCommand(r *Runner) *cli.Command {
	method := func(name, usage string) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Arguments: []cli.Argument{
				&cli.StringArg{
					Name: "path",
				},
			},
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:    "query",
					Aliases: []string{"q"},
					Usage:   "Query parameter as key=value (repeatable)",
				},
				&cli.StringFlag{
					Name:    "data",
					Aliases: []string{"d"},
					Usage:   "JSON body to send",
				},
				&cli.BoolFlag{
					Name:  "pretty",
					Usage: "Pretty-print output",
					Value: true,
				},
			},
			Action: r.API,
		}
	}

	return &cli.Command{
		Name:  "api",
		Usage: "Raw requests to the Web API, prints JSON",
		Commands: []*cli.Command{
			method("get", "Direct GET request"),
			method("post", "Direct POST request with an optional JSON body"),
			method("put", "Direct PUT request with an optional JSON body"),
			method("delete", "Direct DELETE request"),
		},
	}
}
