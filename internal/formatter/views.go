package formatter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The client returns untyped JSON. These views pick out the fields the CLI prints.

type named struct {
	Name string `json:"name"`
}

type user struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
	URI         string `json:"uri"`
	Followers   struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type image struct {
	URL string `json:"url"`
}

type playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Public      *bool   `json:"public"`
	URI         string  `json:"uri"`
	Images      []image `json:"images"`
	Owner       struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URI         string  `json:"uri"`
	DurationMS  int     `json:"duration_ms"`
	Artists     []named `json:"artists"`
	Album       named   `json:"album"`
	Show        named   `json:"show"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
}

type device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent *int   `json:"volume_percent"`
}

type playback struct {
	Device       device `json:"device"`
	IsPlaying    bool   `json:"is_playing"`
	ShuffleState bool   `json:"shuffle_state"`
	RepeatState  string `json:"repeat_state"`
	ProgressMS   int    `json:"progress_ms"`
	Item         *track `json:"item"`
}

type page[T any] struct {
	Items []T     `json:"items"`
	Total int     `json:"total"`
	Next  *string `json:"next"`
}

// decode converts an untyped JSON value into dst.
func decode(v any, dst any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}

func (t track) artistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	if len(names) == 0 && t.Show.Name != "" {
		return t.Show.Name
	}
	return strings.Join(names, ", ")
}

func (t track) source() string {
	if t.Album.Name != "" {
		return t.Album.Name
	}
	return t.Show.Name
}

// FormatDuration renders milliseconds as m:ss, or h:mm:ss past an hour.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// VisibilityString describes a playlist's public flag.
func VisibilityString(public *bool) string {
	switch {
	case public == nil:
		return "unknown"
	case *public:
		return "public"
	default:
		return "private"
	}
}
