package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/sona/internal/formatter"
	"github.com/desertthunder/sona/internal/shared"
	"github.com/desertthunder/sona/internal/spotify"
	"github.com/urfave/cli/v3"
)

// exportPageSize is the largest page get-playlist-tracks accepts.
const exportPageSize = 100

// Me shows the current user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	profile, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return r.respond(cmd, profile, formatter.Profile)
}

// PlaylistsList lists the current user's playlists one page at a time.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	limit, offset := cmd.Int("limit"), cmd.Int("offset")

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	r.logger.Infof("listing playlists with limit %v offset %v", limit, offset)

	playlists, err := r.spotify.UserPlaylists(ctx, limit, offset)
	if err != nil {
		return err
	}
	return r.respond(cmd, playlists, formatter.Playlists)
}

// PlaylistsTracks lists one page of a playlist's items.
func (r *Runner) PlaylistsTracks(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	tracks, err := r.spotify.PlaylistTracks(ctx, id, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}
	return r.respond(cmd, tracks, formatter.Tracks)
}

// PlaylistsExport fetches a playlist and all of its items and writes them in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	format := cmd.String("format")
	if _, err := formatter.Export(&formatter.PlaylistExport{}, format); err != nil {
		return err
	}

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	playlist, err := r.spotify.Call(ctx, "get-playlist", spotify.Args{"playlist_id": id})
	if err != nil {
		return fmt.Errorf("failed to fetch playlist: %w", err)
	}

	pages := []any{}
	offset := 0
	for {
		page, err := r.spotify.PlaylistTracks(ctx, id, exportPageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to fetch playlist tracks at offset %d: %w", offset, err)
		}
		pages = append(pages, page)

		n, more := pageInfo(page)
		r.logger.Debug("fetched playlist page", "offset", offset, "items", n)
		if !more || n == 0 {
			break
		}
		offset += n
	}

	export, err := formatter.NewPlaylistExport(playlist, pages...)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(export, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "path", path, "tracks", len(export.Tracks))
	return r.writePlain("✓ Exported %d tracks from %q to %s\n", len(export.Tracks), export.Playlist.Name, path)
}

// pageInfo reports the number of items in a paging object and whether a next page exists.
func pageInfo(v any) (int, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	items, _ := m["items"].([]any)
	next, _ := m["next"].(string)
	return len(items), next != ""
}

// Search queries the catalog, restricted to the configured market when one is set.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	types := cmd.StringSlice("type")
	limit := cmd.Int("limit")

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	r.logger.Info("searching", "query", query, "types", types, "limit", limit)

	var results any
	if market := r.config.API.Market; market != "" {
		args := spotify.Args{"q": query, "limit": limit, "market": market}
		if len(types) > 0 {
			args["type"] = types
		}
		results, err = r.spotify.Call(ctx, "search", args)
	} else {
		results, err = r.spotify.Search(ctx, query, types, limit)
	}
	if err != nil {
		return err
	}
	return r.respond(cmd, results, formatter.Search)
}

// PlayerStatus shows the playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	state, err := r.spotify.PlaybackState(ctx)
	if err != nil {
		return err
	}
	return r.respond(cmd, state, formatter.Playback)
}

// PlayerDevices lists the user's available devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	devices, err := r.spotify.Devices(ctx)
	if err != nil {
		return err
	}
	return r.respond(cmd, devices, formatter.Devices)
}

// PlayerPlay starts playback of the given URIs or context, or resumes when neither is given.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	opts := spotify.PlayOptions{
		DeviceID:   cmd.String("device"),
		ContextURI: cmd.String("context"),
		URIs:       cmd.Args().Slice(),
		PositionMS: cmd.Int("position"),
	}
	if offset := cmd.Int("offset"); offset >= 0 {
		if opts.ContextURI == "" {
			return fmt.Errorf("%w: --offset requires --context", shared.ErrInvalidArgument)
		}
		opts.OffsetPosition = &offset
	}

	return r.control(ctx, cmd, "Playback started", func(ctx context.Context) (any, error) {
		return r.spotify.StartPlayback(ctx, opts)
	})
}

func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	return r.control(ctx, cmd, "Playback paused", func(ctx context.Context) (any, error) {
		return r.spotify.PausePlayback(ctx, cmd.String("device"))
	})
}

func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	return r.control(ctx, cmd, "Skipped to next", func(ctx context.Context) (any, error) {
		return r.spotify.SkipToNext(ctx, cmd.String("device"))
	})
}

func (r *Runner) PlayerPrevious(ctx context.Context, cmd *cli.Command) error {
	return r.control(ctx, cmd, "Skipped to previous", func(ctx context.Context) (any, error) {
		return r.spotify.SkipToPrevious(ctx, cmd.String("device"))
	})
}

// PlayerVolume sets the volume percent.
func (r *Runner) PlayerVolume(ctx context.Context, cmd *cli.Command) error {
	percent, err := intArg(cmd, "percent")
	if err != nil {
		return err
	}
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100, got %d", shared.ErrInvalidArgument, percent)
	}

	return r.control(ctx, cmd, fmt.Sprintf("Volume set to %d%%", percent), func(ctx context.Context) (any, error) {
		return r.spotify.SetVolume(ctx, percent, cmd.String("device"))
	})
}

// PlayerSeek seeks to a position in the current item.
func (r *Runner) PlayerSeek(ctx context.Context, cmd *cli.Command) error {
	position, err := intArg(cmd, "position")
	if err != nil {
		return err
	}

	return r.control(ctx, cmd, "Seeked to "+formatter.FormatDuration(position), func(ctx context.Context) (any, error) {
		return r.spotify.Seek(ctx, position, cmd.String("device"))
	})
}

// PlayerShuffle accepts on/off as well as anything [strconv.ParseBool] does.
func (r *Runner) PlayerShuffle(ctx context.Context, cmd *cli.Command) error {
	var state bool
	switch arg := cmd.StringArg("state"); arg {
	case "on":
		state = true
	case "off":
		state = false
	default:
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return fmt.Errorf("%w: shuffle state must be on or off, got %q", shared.ErrInvalidArgument, arg)
		}
		state = b
	}

	done := "Shuffle off"
	if state {
		done = "Shuffle on"
	}
	return r.control(ctx, cmd, done, func(ctx context.Context) (any, error) {
		return r.spotify.SetShuffle(ctx, state, cmd.String("device"))
	})
}

// PlayerRepeat sets the repeat mode. The catalog rejects states other than track, context and off.
func (r *Runner) PlayerRepeat(ctx context.Context, cmd *cli.Command) error {
	state := cmd.StringArg("state")
	if state == "" {
		return fmt.Errorf("%w: repeat state", shared.ErrMissingArgument)
	}

	return r.control(ctx, cmd, "Repeat "+state, func(ctx context.Context) (any, error) {
		return r.spotify.SetRepeat(ctx, state, cmd.String("device"))
	})
}

// PlayerTransfer moves playback to another device.
func (r *Runner) PlayerTransfer(ctx context.Context, cmd *cli.Command) error {
	deviceID := cmd.StringArg("device_id")
	if deviceID == "" {
		return fmt.Errorf("%w: device id (see 'sona player devices')", shared.ErrMissingArgument)
	}

	return r.control(ctx, cmd, "Playback transferred to "+deviceID, func(ctx context.Context) (any, error) {
		return r.spotify.TransferPlayback(ctx, deviceID, cmd.Bool("play"))
	})
}

// PlayerQueue shows the queue, or adds uri to it when given.
func (r *Runner) PlayerQueue(ctx context.Context, cmd *cli.Command) error {
	if uri := cmd.StringArg("uri"); uri != "" {
		return r.control(ctx, cmd, "Added "+uri+" to the queue", func(ctx context.Context) (any, error) {
			return r.spotify.AddToQueue(ctx, uri, cmd.String("device"))
		})
	}

	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	queue, err := r.spotify.Queue(ctx)
	if err != nil {
		return err
	}
	return r.respond(cmd, queue, formatter.Queue)
}

// LibraryList lists saved tracks.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	tracks, err := r.spotify.SavedTracks(ctx, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}
	return r.respond(cmd, tracks, formatter.Tracks)
}

func (r *Runner) LibrarySave(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id", shared.ErrMissingArgument)
	}

	return r.control(ctx, cmd, fmt.Sprintf("Saved %d track(s)", len(ids)), func(ctx context.Context) (any, error) {
		return r.spotify.SaveTracks(ctx, ids)
	})
}

func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id", shared.ErrMissingArgument)
	}

	return r.control(ctx, cmd, fmt.Sprintf("Removed %d track(s)", len(ids)), func(ctx context.Context) (any, error) {
		return r.spotify.RemoveSavedTracks(ctx, ids)
	})
}

// control runs a command that has no meaningful response body and prints done on success.
func (r *Runner) control(ctx context.Context, cmd *cli.Command, done string, fn func(context.Context) (any, error)) error {
	ctx, cancel, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := fn(ctx); err != nil {
		return err
	}
	return r.writePlain("%s\n", formatter.Success("✓ "+done))
}

func intArg(cmd *cli.Command, name string) (int, error) {
	arg := cmd.StringArg(name)
	if arg == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", shared.ErrInvalidArgument, name, arg)
	}
	return n, nil
}
