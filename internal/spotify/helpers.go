package spotify

import "context"

// PlayOptions are the optional parts of a start/resume playback request.
type PlayOptions struct {
	DeviceID   string
	ContextURI string
	URIs       []string
	// Offset into the context, either a zero based position or an item URI.
	OffsetPosition *int
	OffsetURI      string
	PositionMS     int
}

func (o PlayOptions) args() Args {
	args := withDevice(Args{}, o.DeviceID)
	if o.ContextURI != "" {
		args["context_uri"] = o.ContextURI
	}
	if len(o.URIs) > 0 {
		args["uris"] = o.URIs
	}
	switch {
	case o.OffsetPosition != nil:
		args["offset"] = *o.OffsetPosition
	case o.OffsetURI != "":
		args["offset"] = o.OffsetURI
	}
	if o.PositionMS > 0 {
		args["position_ms"] = o.PositionMS
	}
	return args
}

func withDevice(args Args, deviceID string) Args {
	if deviceID != "" {
		args["device_id"] = deviceID
	}
	return args
}

// page fills limit and offset only when set so the endpoint defaults apply otherwise.
func page(limit, offset int) Args {
	args := Args{}
	if limit > 0 {
		args["limit"] = limit
	}
	if offset > 0 {
		args["offset"] = offset
	}
	return args
}

// CurrentUser retrieves the current user's profile.
func (c *Client) CurrentUser(ctx context.Context) (any, error) {
	return c.Call(ctx, "get-current-user-profile", nil)
}

// UserPlaylists retrieves the current user's playlists. Non-positive limit and offset use the defaults (20, 0).
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (any, error) {
	return c.Call(ctx, "get-user-playlists", page(limit, offset))
}

// PlaylistTracks retrieves a page of a playlist's items.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (any, error) {
	args := page(limit, offset)
	args["playlist_id"] = playlistID
	return c.Call(ctx, "get-playlist-tracks", args)
}

// SavedTracks retrieves a page of the user's saved tracks.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (any, error) {
	return c.Call(ctx, "get-saved-tracks", page(limit, offset))
}

// Search queries the catalog. Empty types search tracks, artists, albums and playlists.
func (c *Client) Search(ctx context.Context, q string, types []string, limit int) (any, error) {
	args := page(limit, 0)
	args["q"] = q
	if len(types) > 0 {
		args["type"] = types
	}
	return c.Call(ctx, "search", args)
}

// PlaybackState retrieves the current playback state. The API answers 204 when nothing is active,
// in which case the value is nil.
func (c *Client) PlaybackState(ctx context.Context) (any, error) {
	return c.Call(ctx, "get-playback-state", nil)
}

// CurrentlyPlaying retrieves the item playing on the active device, or nil when nothing is.
func (c *Client) CurrentlyPlaying(ctx context.Context) (any, error) {
	return c.Call(ctx, "get-currently-playing", nil)
}

// Devices lists the user's available playback devices.
func (c *Client) Devices(ctx context.Context) (any, error) {
	return c.Call(ctx, "get-available-devices", nil)
}

// Queue retrieves the currently playing item and the user's queue.
func (c *Client) Queue(ctx context.Context) (any, error) {
	return c.Call(ctx, "get-queue", nil)
}

// StartPlayback starts or resumes playback.
func (c *Client) StartPlayback(ctx context.Context, opts PlayOptions) (any, error) {
	return c.Call(ctx, "start-playback", opts.args())
}

// PausePlayback pauses playback on deviceID, or the active device when empty.
func (c *Client) PausePlayback(ctx context.Context, deviceID string) (any, error) {
	return c.Call(ctx, "pause-playback", withDevice(Args{}, deviceID))
}

// SkipToNext skips to the next item in the queue.
func (c *Client) SkipToNext(ctx context.Context, deviceID string) (any, error) {
	return c.Call(ctx, "skip-to-next", withDevice(Args{}, deviceID))
}

// SkipToPrevious skips to the previous item.
func (c *Client) SkipToPrevious(ctx context.Context, deviceID string) (any, error) {
	return c.Call(ctx, "skip-to-previous", withDevice(Args{}, deviceID))
}

// SetVolume sets the volume (0-100).
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) (any, error) {
	return c.Call(ctx, "set-playback-volume", withDevice(Args{"volume_percent": percent}, deviceID))
}

// Seek moves playback to positionMS in the current item.
func (c *Client) Seek(ctx context.Context, positionMS int, deviceID string) (any, error) {
	return c.Call(ctx, "seek-to-position", withDevice(Args{"position_ms": positionMS}, deviceID))
}

// SetRepeat sets the repeat mode: track, context or off.
func (c *Client) SetRepeat(ctx context.Context, state, deviceID string) (any, error) {
	return c.Call(ctx, "set-repeat-mode", withDevice(Args{"state": state}, deviceID))
}

// SetShuffle turns shuffle on or off.
func (c *Client) SetShuffle(ctx context.Context, state bool, deviceID string) (any, error) {
	return c.Call(ctx, "toggle-shuffle", withDevice(Args{"state": state}, deviceID))
}

// TransferPlayback moves playback to deviceID, starting it when play is true.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) (any, error) {
	return c.Call(ctx, "transfer-playback", Args{"device_ids": []string{deviceID}, "play": play})
}

// AddToQueue appends a track or episode URI to the queue.
func (c *Client) AddToQueue(ctx context.Context, uri, deviceID string) (any, error) {
	return c.Call(ctx, "add-to-queue", withDevice(Args{"uri": uri}, deviceID))
}

// SaveTracks saves tracks to the user's library.
func (c *Client) SaveTracks(ctx context.Context, ids []string) (any, error) {
	return c.Call(ctx, "save-tracks", Args{"ids": ids})
}

// RemoveSavedTracks removes tracks from the user's library.
func (c *Client) RemoveSavedTracks(ctx context.Context, ids []string) (any, error) {
	return c.Call(ctx, "remove-saved-tracks", Args{"ids": ids})
}
