// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func pageFlags(limit int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of items to return",
			Value:   limit,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Index of the first item to return",
		},
	}
}

func deviceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "Target device ID (defaults to the active device)",
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	flags := []cli.Flag{}
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a configuration file from the default template",
		Action: r.Setup,
	}
}

// authCommand handles the authorization code flow and stored tokens
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and manage stored tokens",
		Commands: []*cli.Command{
			{
				Name:   "url",
				Usage:  "Print the authorization URL and store a PKCE verifier",
				Action: r.AuthURL,
			},
			{
				Name:  "exchange",
				Usage: "Exchange an authorization code for tokens",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "code"},
				},
				Action: r.AuthExchange,
			},
			{
				Name:   "refresh",
				Usage:  "Refresh the stored access token",
				Action: r.AuthRefresh,
			},
			{
				Name:  "token",
				Usage: "Store an access token obtained elsewhere",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Action: r.AuthToken,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session",
				Action: r.AuthStatus,
			},
		},
	}
}

func endpointsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "endpoints",
		Usage:  "List the supported API operations and their parameters",
		Flags:  outputFlags(),
		Action: r.Endpoints,
	}
}

func callCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Invoke a catalog operation by name",
		ArgsUsage: "<operation> [key=value ...]",
		Description: "Arguments are passed as key=value pairs. " +
			"List parameters take comma separated values, e.g. ids=a,b,c.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Call,
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the current user's profile",
		Flags:  outputFlags(),
		Action: r.Me,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the current user's playlists",
				Flags:  withFlags(pageFlags(20), outputFlags()),
				Action: r.PlaylistsList,
			},
			{
				Name:  "tracks",
				Usage: "List the items of a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  withFlags(pageFlags(100), outputFlags()),
				Action: r.PlaylistsTracks,
			},
			{
				Name:  "export",
				Usage: "Export a playlist with all of its tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to {id}.{format})",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: withFlags([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Result types: album, artist, playlist, track, show, episode, audiobook",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum results per type",
				Value:   10,
			},
		}, outputFlags()),
		Action: r.Search,
	}
}

// playerCommand handles playback control
func playerCommand(r *Runner) *cli.Command {
	device := func(extra ...cli.Flag) []cli.Flag {
		return append([]cli.Flag{deviceFlag()}, extra...)
	}

	return &cli.Command{
		Name:  "player",
		Usage: "Playback control (most operations require Premium)",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the current playback state",
				Flags:  outputFlags(),
				Action: r.PlayerStatus,
			},
			{
				Name:   "devices",
				Usage:  "List available devices",
				Flags:  outputFlags(),
				Action: r.PlayerDevices,
			},
			{
				Name:      "play",
				Usage:     "Start or resume playback",
				ArgsUsage: "[uri ...]",
				Flags: device(
					&cli.StringFlag{
						Name:  "context",
						Usage: "Album, artist or playlist URI to play",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Start at this position in the context",
						Value: -1,
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Start position in milliseconds",
					},
				),
				Action: r.PlayerPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Flags:  device(),
				Action: r.PlayerPause,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Flags:  device(),
				Action: r.PlayerNext,
			},
			{
				Name:   "previous",
				Usage:  "Skip to the previous track",
				Flags:  device(),
				Action: r.PlayerPrevious,
			},
			{
				Name:  "volume",
				Usage: "Set the volume (0-100)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "percent"},
				},
				Flags:  device(),
				Action: r.PlayerVolume,
			},
			{
				Name:  "seek",
				Usage: "Seek to a position in milliseconds",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "position"},
				},
				Flags:  device(),
				Action: r.PlayerSeek,
			},
			{
				Name:  "shuffle",
				Usage: "Turn shuffle on or off",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "state"},
				},
				Flags:  device(),
				Action: r.PlayerShuffle,
			},
			{
				Name:  "repeat",
				Usage: "Set the repeat mode: track, context or off",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "state"},
				},
				Flags:  device(),
				Action: r.PlayerRepeat,
			},
			{
				Name:  "transfer",
				Usage: "Transfer playback to a device",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "device_id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "play",
						Usage: "Start playing on the new device",
					},
				},
				Action: r.PlayerTransfer,
			},
			{
				Name:  "queue",
				Usage: "Show the queue, or add an item when a URI is given",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uri"},
				},
				Flags:  device(outputFlags()...),
				Action: r.PlayerQueue,
			},
		},
	}
}

func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Saved tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved tracks",
				Flags:  withFlags(pageFlags(20), outputFlags()),
				Action: r.LibraryList,
			},
			{
				Name:      "save",
				Usage:     "Save tracks to the library",
				ArgsUsage: "<id> [id ...]",
				Action:    r.LibrarySave,
			},
			{
				Name:      "remove",
				Usage:     "Remove tracks from the library",
				ArgsUsage: "<id> [id ...]",
				Action:    r.LibraryRemove,
			},
		},
	}
}
