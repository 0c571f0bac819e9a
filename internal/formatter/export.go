package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/sona/internal/shared"
)

// Track is a flattened playlist item.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration_ms"`
	ISRC     string `json:"isrc,omitempty"`
	URI      string `json:"uri"`
}

// PlaylistInfo is the playlist metadata kept in an export.
type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	Public      *bool  `json:"public,omitempty"`
	TrackCount  int    `json:"track_count"`
	ImageURL    string `json:"image_url,omitempty"`
}

// PlaylistExport is a playlist with its flattened items.
type PlaylistExport struct {
	Playlist PlaylistInfo `json:"playlist"`
	Tracks   []Track      `json:"tracks"`
}

// NewPlaylistExport builds an export from a get-playlist response and any number of
// get-playlist-tracks pages. Local files and removed items without a track are skipped.
func NewPlaylistExport(playlistValue any, pages ...any) (*PlaylistExport, error) {
	var pl playlist
	if err := decode(playlistValue, &pl); err != nil {
		return nil, err
	}

	export := &PlaylistExport{
		Playlist: PlaylistInfo{
			ID:          pl.ID,
			Name:        pl.Name,
			Description: pl.Description,
			Owner:       pl.Owner.DisplayName,
			Public:      pl.Public,
			TrackCount:  pl.Tracks.Total,
		},
		Tracks: []Track{},
	}
	if len(pl.Images) > 0 {
		export.Playlist.ImageURL = pl.Images[0].URL
	}

	for _, v := range pages {
		var p page[savedItem]
		if err := decode(v, &p); err != nil {
			return nil, err
		}
		for _, item := range p.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			t := item.Track
			export.Tracks = append(export.Tracks, Track{
				ID:       t.ID,
				Title:    t.Name,
				Artist:   t.artistNames(),
				Album:    t.source(),
				Duration: t.DurationMS,
				ISRC:     t.ExternalIDs.ISRC,
				URI:      t.URI,
			})
		}
	}

	return export, nil
}

// ExportToCSV converts a PlaylistExport to CSV format with columns: ID, Title, Artist, Album, Duration, ISRC, URI
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.ISRC,
			track.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to Markdown, linking the cover image when known
func ExportToMarkdown(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Playlist.Name)

	if export.Playlist.ImageURL != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", export.Playlist.ImageURL)
	}

	if export.Playlist.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", export.Playlist.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(export.Tracks))
	if export.Playlist.Owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", export.Playlist.Owner)
	}
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", VisibilityString(export.Playlist.Public))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, FormatDuration(track.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(export.Tracks))

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the whole export, metadata and tracks, as indented JSON
func ExportToJSON(export *PlaylistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// Export renders export in the named format: csv, md (markdown), txt (text) or json.
func Export(export *PlaylistExport, format string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(export)
	case "md", "markdown":
		return ExportToMarkdown(export)
	case "txt", "text":
		return ExportToText(export)
	case "json":
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidInput, format)
	}
}

// WriteExport renders export and writes it to path.
//
// Defaults to {playlist.ID}.{format} as the filename.
func WriteExport(export *PlaylistExport, format, path string) (string, error) {
	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", export.Playlist.ID, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
