package spotify

import (
	"net/http"
	"slices"
)

var (
	timeRanges  = []string{"short_term", "medium_term", "long_term"}
	searchTypes = []string{"album", "artist", "playlist", "track", "show", "episode", "audiobook"}
	repeatModes = []string{"track", "context", "off"}
)

func inPath(name string) Param {
	return Param{Name: name, In: InPath, Kind: String, Required: true}
}

func inQuery(name string, kind Kind) Param {
	return Param{Name: name, In: InQuery, Kind: kind}
}

func inQueryDefault(name string, kind Kind, def any) Param {
	return Param{Name: name, In: InQuery, Kind: kind, Default: def}
}

func inQueryRequired(name string, kind Kind) Param {
	return Param{Name: name, In: InQuery, Kind: kind, Required: true}
}

func inBody(name string, kind Kind) Param {
	return Param{Name: name, In: InBody, Kind: kind}
}

func inBodyRequired(name string, kind Kind) Param {
	return Param{Name: name, In: InBody, Kind: kind, Required: true}
}

var (
	idParam        = inPath("id")
	idsParam       = inQueryRequired("ids", List)
	bodyIDsParam   = inBodyRequired("ids", List)
	limitParam     = inQueryDefault("limit", Int, 20)
	offsetParam    = inQueryDefault("offset", Int, 0)
	marketParam    = inQuery("market", String)
	marketUSParam  = inQueryDefault("market", String, "US")
	localeParam    = inQuery("locale", String)
	deviceParam    = inQuery("device_id", String)
	timeRangeParam = Param{Name: "time_range", In: InQuery, Kind: String, Default: "medium_term", Enum: timeRanges}
	fieldsParam    = inQuery("fields", String)
	typesParam     = inQuery("additional_types", List)
)

func followType(kind string) Param {
	return Param{Name: "type", In: InQuery, Kind: String, Default: kind, Enum: []string{kind}}
}

var catalog = []Endpoint{
	// Users
	{Name: "get-current-user-profile", Method: http.MethodGet, Path: "/me",
		Usage: "Get the current user's profile"},
	{Name: "get-user-profile", Method: http.MethodGet, Path: "/users/{user_id}",
		Usage:  "Get a user's public profile",
		Params: []Param{inPath("user_id")}},
	{Name: "get-top-artists", Method: http.MethodGet, Path: "/me/top/artists",
		Usage:  "Get the current user's top artists",
		Params: []Param{timeRangeParam, limitParam, offsetParam}},
	{Name: "get-top-tracks", Method: http.MethodGet, Path: "/me/top/tracks",
		Usage:  "Get the current user's top tracks",
		Params: []Param{timeRangeParam, limitParam, offsetParam}},
	{Name: "get-followed-artists", Method: http.MethodGet, Path: "/me/following",
		Usage:  "Get artists followed by the current user",
		Params: []Param{followType("artist"), inQuery("after", String), limitParam}},
	{Name: "follow-artists", Method: http.MethodPut, Path: "/me/following",
		Usage:  "Follow one or more artists",
		Params: []Param{followType("artist"), idsParam}},
	{Name: "unfollow-artists", Method: http.MethodDelete, Path: "/me/following",
		Usage:  "Unfollow one or more artists",
		Params: []Param{followType("artist"), idsParam}},
	{Name: "check-following-artists", Method: http.MethodGet, Path: "/me/following/contains",
		Usage:  "Check if the current user follows artists",
		Params: []Param{followType("artist"), idsParam}},
	{Name: "follow-users", Method: http.MethodPut, Path: "/me/following",
		Usage:  "Follow one or more users",
		Params: []Param{followType("user"), idsParam}},
	{Name: "unfollow-users", Method: http.MethodDelete, Path: "/me/following",
		Usage:  "Unfollow one or more users",
		Params: []Param{followType("user"), idsParam}},
	{Name: "check-following-users", Method: http.MethodGet, Path: "/me/following/contains",
		Usage:  "Check if the current user follows users",
		Params: []Param{followType("user"), idsParam}},
	{Name: "follow-playlist", Method: http.MethodPut, Path: "/playlists/{playlist_id}/followers",
		Usage:  "Follow a playlist",
		Params: []Param{inPath("playlist_id"), {Name: "public", In: InBody, Kind: Bool, Default: true}}},
	{Name: "unfollow-playlist", Method: http.MethodDelete, Path: "/playlists/{playlist_id}/followers",
		Usage:  "Unfollow a playlist",
		Params: []Param{inPath("playlist_id")}},
	{Name: "check-playlist-followers", Method: http.MethodGet, Path: "/playlists/{playlist_id}/followers/contains",
		Usage:  "Check if the current user follows a playlist",
		Params: []Param{inPath("playlist_id"), inQuery("ids", List)}},

	// Playlists
	{Name: "get-user-playlists", Method: http.MethodGet, Path: "/me/playlists",
		Usage:  "Get the current user's playlists",
		Params: []Param{limitParam, offsetParam}},
	{Name: "get-playlists-for-user", Method: http.MethodGet, Path: "/users/{user_id}/playlists",
		Usage:  "Get a user's public playlists",
		Params: []Param{inPath("user_id"), limitParam, offsetParam}},
	{Name: "get-playlist", Method: http.MethodGet, Path: "/playlists/{playlist_id}",
		Usage:  "Get a playlist",
		Params: []Param{inPath("playlist_id"), marketParam, fieldsParam, typesParam}},
	{Name: "get-playlist-tracks", Method: http.MethodGet, Path: "/playlists/{playlist_id}/tracks",
		Usage:  "Get a playlist's items",
		Params: []Param{inPath("playlist_id"), inQueryDefault("limit", Int, 100), offsetParam, marketParam, fieldsParam, typesParam}},
	{Name: "create-playlist", Method: http.MethodPost, Path: "/users/{user_id}/playlists",
		Usage: "Create a playlist for a user",
		Params: []Param{
			inPath("user_id"), inBodyRequired("name", String),
			inBody("public", Bool), inBody("collaborative", Bool), inBody("description", String),
		}},
	{Name: "change-playlist-details", Method: http.MethodPut, Path: "/playlists/{playlist_id}",
		Usage: "Change a playlist's name, visibility or description",
		Params: []Param{
			inPath("playlist_id"), inBody("name", String),
			inBody("public", Bool), inBody("collaborative", Bool), inBody("description", String),
		}},
	{Name: "add-tracks-to-playlist", Method: http.MethodPost, Path: "/playlists/{playlist_id}/tracks",
		Usage:  "Add items to a playlist",
		Params: []Param{inPath("playlist_id"), inBodyRequired("uris", List), inBody("position", Int)}},
	{Name: "remove-tracks-from-playlist", Method: http.MethodDelete, Path: "/playlists/{playlist_id}/tracks",
		Usage:  "Remove items from a playlist",
		Params: []Param{inPath("playlist_id"), inBodyRequired("tracks", URIRefs), inBody("snapshot_id", String)}},
	{Name: "reorder-playlist-tracks", Method: http.MethodPut, Path: "/playlists/{playlist_id}/tracks",
		Usage: "Move a range of items within a playlist",
		Params: []Param{
			inPath("playlist_id"), inBodyRequired("range_start", Int), inBodyRequired("insert_before", Int),
			inBody("range_length", Int), inBody("snapshot_id", String),
		}},
	{Name: "replace-playlist-tracks", Method: http.MethodPut, Path: "/playlists/{playlist_id}/tracks",
		Usage:  "Replace every item in a playlist",
		Params: []Param{inPath("playlist_id"), inBodyRequired("uris", List)}},
	{Name: "get-playlist-cover-image", Method: http.MethodGet, Path: "/playlists/{playlist_id}/images",
		Usage:  "Get a playlist's cover image",
		Params: []Param{inPath("playlist_id")}},
	{Name: "get-featured-playlists", Method: http.MethodGet, Path: "/browse/featured-playlists",
		Usage:  "Get featured playlists",
		Params: []Param{localeParam, limitParam, offsetParam}},
	{Name: "get-category-playlists", Method: http.MethodGet, Path: "/browse/categories/{category_id}/playlists",
		Usage:  "Get playlists tagged with a category",
		Params: []Param{inPath("category_id"), limitParam, offsetParam}},

	// Tracks
	{Name: "get-track", Method: http.MethodGet, Path: "/tracks/{id}",
		Usage:  "Get a track",
		Params: []Param{idParam, marketParam}},
	{Name: "get-several-tracks", Method: http.MethodGet, Path: "/tracks",
		Usage:  "Get several tracks",
		Params: []Param{idsParam, marketParam}},
	{Name: "get-saved-tracks", Method: http.MethodGet, Path: "/me/tracks",
		Usage:  "Get the current user's saved tracks",
		Params: []Param{limitParam, offsetParam, marketParam}},
	{Name: "save-tracks", Method: http.MethodPut, Path: "/me/tracks",
		Usage:  "Save tracks to the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "remove-saved-tracks", Method: http.MethodDelete, Path: "/me/tracks",
		Usage:  "Remove tracks from the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "check-saved-tracks", Method: http.MethodGet, Path: "/me/tracks/contains",
		Usage:  "Check if tracks are saved in the current user's library",
		Params: []Param{idsParam}},
	{Name: "get-audio-features", Method: http.MethodGet, Path: "/audio-features/{id}",
		Usage:  "Get audio features for a track",
		Params: []Param{idParam}},
	{Name: "get-several-audio-features", Method: http.MethodGet, Path: "/audio-features",
		Usage:  "Get audio features for several tracks",
		Params: []Param{idsParam}},
	{Name: "get-audio-analysis", Method: http.MethodGet, Path: "/audio-analysis/{id}",
		Usage:  "Get a track's audio analysis",
		Params: []Param{idParam}},
	{Name: "get-recommendations", Method: http.MethodGet, Path: "/recommendations",
		Usage: "Get recommendations from seed artists, genres and tracks",
		Params: []Param{
			inQuery("seed_artists", List), inQuery("seed_genres", List), inQuery("seed_tracks", List),
			limitParam, marketParam,
		}},
	{Name: "get-recommendation-genres", Method: http.MethodGet, Path: "/recommendations/available-genre-seeds",
		Usage: "Get available genre seeds for recommendations"},

	// Albums
	{Name: "get-album", Method: http.MethodGet, Path: "/albums/{id}",
		Usage:  "Get an album",
		Params: []Param{idParam, marketParam}},
	{Name: "get-several-albums", Method: http.MethodGet, Path: "/albums",
		Usage:  "Get several albums",
		Params: []Param{idsParam, marketParam}},
	{Name: "get-album-tracks", Method: http.MethodGet, Path: "/albums/{id}/tracks",
		Usage:  "Get an album's tracks",
		Params: []Param{idParam, limitParam, offsetParam, marketParam}},
	{Name: "get-saved-albums", Method: http.MethodGet, Path: "/me/albums",
		Usage:  "Get the current user's saved albums",
		Params: []Param{limitParam, offsetParam, marketParam}},
	{Name: "save-albums", Method: http.MethodPut, Path: "/me/albums",
		Usage:  "Save albums to the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "remove-saved-albums", Method: http.MethodDelete, Path: "/me/albums",
		Usage:  "Remove albums from the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "check-saved-albums", Method: http.MethodGet, Path: "/me/albums/contains",
		Usage:  "Check if albums are saved in the current user's library",
		Params: []Param{idsParam}},
	{Name: "get-new-releases", Method: http.MethodGet, Path: "/browse/new-releases",
		Usage:  "Get new album releases",
		Params: []Param{limitParam, offsetParam}},

	// Artists
	{Name: "get-artist", Method: http.MethodGet, Path: "/artists/{id}",
		Usage:  "Get an artist",
		Params: []Param{idParam}},
	{Name: "get-several-artists", Method: http.MethodGet, Path: "/artists",
		Usage:  "Get several artists",
		Params: []Param{idsParam}},
	{Name: "get-artist-albums", Method: http.MethodGet, Path: "/artists/{id}/albums",
		Usage:  "Get an artist's albums",
		Params: []Param{idParam, inQuery("include_groups", List), marketParam, limitParam, offsetParam}},
	{Name: "get-artist-top-tracks", Method: http.MethodGet, Path: "/artists/{id}/top-tracks",
		Usage:  "Get an artist's top tracks",
		Params: []Param{idParam, marketUSParam}},
	{Name: "get-related-artists", Method: http.MethodGet, Path: "/artists/{id}/related-artists",
		Usage:  "Get artists similar to an artist",
		Params: []Param{idParam}},

	// Shows
	{Name: "get-show", Method: http.MethodGet, Path: "/shows/{id}",
		Usage:  "Get a show",
		Params: []Param{idParam, marketUSParam}},
	{Name: "get-several-shows", Method: http.MethodGet, Path: "/shows",
		Usage:  "Get several shows",
		Params: []Param{idsParam, marketUSParam}},
	{Name: "get-show-episodes", Method: http.MethodGet, Path: "/shows/{id}/episodes",
		Usage:  "Get a show's episodes",
		Params: []Param{idParam, marketUSParam, limitParam, offsetParam}},
	{Name: "get-saved-shows", Method: http.MethodGet, Path: "/me/shows",
		Usage:  "Get the current user's saved shows",
		Params: []Param{limitParam, offsetParam}},
	{Name: "save-shows", Method: http.MethodPut, Path: "/me/shows",
		Usage:  "Save shows to the current user's library",
		Params: []Param{idsParam}},
	{Name: "remove-saved-shows", Method: http.MethodDelete, Path: "/me/shows",
		Usage:  "Remove shows from the current user's library",
		Params: []Param{idsParam, marketParam}},
	{Name: "check-saved-shows", Method: http.MethodGet, Path: "/me/shows/contains",
		Usage:  "Check if shows are saved in the current user's library",
		Params: []Param{idsParam}},

	// Episodes
	{Name: "get-episode", Method: http.MethodGet, Path: "/episodes/{id}",
		Usage:  "Get an episode",
		Params: []Param{idParam, marketUSParam}},
	{Name: "get-several-episodes", Method: http.MethodGet, Path: "/episodes",
		Usage:  "Get several episodes",
		Params: []Param{idsParam, marketUSParam}},
	{Name: "get-saved-episodes", Method: http.MethodGet, Path: "/me/episodes",
		Usage:  "Get the current user's saved episodes",
		Params: []Param{marketParam, limitParam, offsetParam}},
	{Name: "save-episodes", Method: http.MethodPut, Path: "/me/episodes",
		Usage:  "Save episodes to the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "remove-saved-episodes", Method: http.MethodDelete, Path: "/me/episodes",
		Usage:  "Remove episodes from the current user's library",
		Params: []Param{bodyIDsParam}},
	{Name: "check-saved-episodes", Method: http.MethodGet, Path: "/me/episodes/contains",
		Usage:  "Check if episodes are saved in the current user's library",
		Params: []Param{idsParam}},

	// Audiobooks and chapters
	{Name: "get-audiobook", Method: http.MethodGet, Path: "/audiobooks/{id}",
		Usage:  "Get an audiobook",
		Params: []Param{idParam, marketParam}},
	{Name: "get-several-audiobooks", Method: http.MethodGet, Path: "/audiobooks",
		Usage:  "Get several audiobooks",
		Params: []Param{idsParam, marketParam}},
	{Name: "get-audiobook-chapters", Method: http.MethodGet, Path: "/audiobooks/{id}/chapters",
		Usage:  "Get an audiobook's chapters",
		Params: []Param{idParam, marketParam, limitParam, offsetParam}},
	{Name: "get-saved-audiobooks", Method: http.MethodGet, Path: "/me/audiobooks",
		Usage:  "Get the current user's saved audiobooks",
		Params: []Param{limitParam, offsetParam}},
	{Name: "save-audiobooks", Method: http.MethodPut, Path: "/me/audiobooks",
		Usage:  "Save audiobooks to the current user's library",
		Params: []Param{idsParam}},
	{Name: "remove-saved-audiobooks", Method: http.MethodDelete, Path: "/me/audiobooks",
		Usage:  "Remove audiobooks from the current user's library",
		Params: []Param{idsParam}},
	{Name: "check-saved-audiobooks", Method: http.MethodGet, Path: "/me/audiobooks/contains",
		Usage:  "Check if audiobooks are saved in the current user's library",
		Params: []Param{idsParam}},
	{Name: "get-chapter", Method: http.MethodGet, Path: "/chapters/{id}",
		Usage:  "Get an audiobook chapter",
		Params: []Param{idParam, marketParam}},
	{Name: "get-several-chapters", Method: http.MethodGet, Path: "/chapters",
		Usage:  "Get several audiobook chapters",
		Params: []Param{idsParam, marketParam}},

	// Browse
	{Name: "get-categories", Method: http.MethodGet, Path: "/browse/categories",
		Usage:  "Get browse categories",
		Params: []Param{localeParam, limitParam, offsetParam}},
	{Name: "get-category", Method: http.MethodGet, Path: "/browse/categories/{category_id}",
		Usage:  "Get a browse category",
		Params: []Param{inPath("category_id"), localeParam}},
	{Name: "get-available-markets", Method: http.MethodGet, Path: "/markets",
		Usage: "Get the markets where Spotify is available"},

	// Search
	{Name: "search", Method: http.MethodGet, Path: "/search",
		Usage: "Search the catalog",
		Params: []Param{
			inQueryRequired("q", String),
			{Name: "type", In: InQuery, Kind: List, Default: "track,artist,album,playlist", Enum: searchTypes},
			limitParam,
			inQuery("offset", Int),
			marketParam,
			inQuery("include_external", String),
		}},

	// Player
	{Name: "get-playback-state", Method: http.MethodGet, Path: "/me/player",
		Usage:  "Get the current playback state",
		Params: []Param{marketParam, typesParam}},
	{Name: "transfer-playback", Method: http.MethodPut, Path: "/me/player",
		Usage:  "Transfer playback to a device",
		Params: []Param{inBodyRequired("device_ids", List), {Name: "play", In: InBody, Kind: Bool, Default: false}}},
	{Name: "get-available-devices", Method: http.MethodGet, Path: "/me/player/devices",
		Usage: "Get the user's available devices"},
	{Name: "get-currently-playing", Method: http.MethodGet, Path: "/me/player/currently-playing",
		Usage:  "Get the currently playing item",
		Params: []Param{marketParam, typesParam}},
	{Name: "start-playback", Method: http.MethodPut, Path: "/me/player/play",
		Usage: "Start or resume playback",
		Params: []Param{
			deviceParam, inBody("context_uri", String), inBody("uris", List),
			inBody("offset", Offset), inBody("position_ms", Int),
		}},
	{Name: "pause-playback", Method: http.MethodPut, Path: "/me/player/pause",
		Usage:  "Pause playback",
		Params: []Param{deviceParam}},
	{Name: "skip-to-next", Method: http.MethodPost, Path: "/me/player/next",
		Usage:  "Skip to the next item",
		Params: []Param{deviceParam}},
	{Name: "skip-to-previous", Method: http.MethodPost, Path: "/me/player/previous",
		Usage:  "Skip to the previous item",
		Params: []Param{deviceParam}},
	{Name: "seek-to-position", Method: http.MethodPut, Path: "/me/player/seek",
		Usage:  "Seek to a position in the current item",
		Params: []Param{inQueryRequired("position_ms", Int), deviceParam}},
	{Name: "set-repeat-mode", Method: http.MethodPut, Path: "/me/player/repeat",
		Usage:  "Set the repeat mode (track, context or off)",
		Params: []Param{{Name: "state", In: InQuery, Kind: String, Required: true, Enum: repeatModes}, deviceParam}},
	{Name: "set-playback-volume", Method: http.MethodPut, Path: "/me/player/volume",
		Usage:  "Set the playback volume",
		Params: []Param{inQueryRequired("volume_percent", Int), deviceParam}},
	{Name: "toggle-shuffle", Method: http.MethodPut, Path: "/me/player/shuffle",
		Usage:  "Turn shuffle on or off",
		Params: []Param{inQueryRequired("state", Bool), deviceParam}},
	{Name: "get-recently-played", Method: http.MethodGet, Path: "/me/player/recently-played",
		Usage:  "Get recently played tracks",
		Params: []Param{limitParam, inQuery("after", Int), inQuery("before", Int)}},
	{Name: "get-queue", Method: http.MethodGet, Path: "/me/player/queue",
		Usage: "Get the user's queue"},
	{Name: "add-to-queue", Method: http.MethodPost, Path: "/me/player/queue",
		Usage:  "Add an item to the playback queue",
		Params: []Param{inQueryRequired("uri", String), deviceParam}},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, e := range catalog {
		idx[e.Name] = i
	}
	return idx
}()

// Endpoints returns every catalog entry in declaration order.
func Endpoints() []Endpoint {
	return slices.Clone(catalog)
}

// Lookup finds a catalog entry by name.
func Lookup(name string) (Endpoint, bool) {
	i, ok := catalogIndex[name]
	if !ok {
		return Endpoint{}, false
	}
	return catalog[i], true
}
