package formatter

import (
	"fmt"
	"strings"

	"github.com/desertthunder/sona/internal/spotify"
)

type savedItem struct {
	Track *track `json:"track"`
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", styles.label.Render(label+":"), value)
}

func trackLine(i int, t track) string {
	line := fmt.Sprintf("%3d. %s - %s", i, t.artistNames(), t.Name)
	if src := t.source(); src != "" {
		line += Muted(" (" + src + ")")
	}
	if t.DurationMS > 0 {
		line += " [" + FormatDuration(t.DurationMS) + "]"
	}
	return line
}

// Profile renders a user profile object.
func Profile(v any) (string, error) {
	var u user
	if err := decode(v, &u); err != nil {
		return "", err
	}

	name := u.DisplayName
	if name == "" {
		name = u.ID
	}

	var b strings.Builder
	b.WriteString(Title(name) + "\n")
	field(&b, "ID", u.ID)
	field(&b, "Email", u.Email)
	field(&b, "Country", u.Country)
	field(&b, "Plan", u.Product)
	field(&b, "Followers", fmt.Sprint(u.Followers.Total))
	field(&b, "URI", u.URI)
	return b.String(), nil
}

// Playlists renders a page of simplified playlist objects.
func Playlists(v any) (string, error) {
	var p page[playlist]
	if err := decode(v, &p); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("Playlists (%d of %d)", len(p.Items), p.Total)) + "\n")
	if len(p.Items) == 0 {
		b.WriteString(Muted("No playlists found") + "\n")
		return b.String(), nil
	}

	for _, pl := range p.Items {
		fmt.Fprintf(&b, "%s  %s %s\n", pl.ID, pl.Name,
			Muted(fmt.Sprintf("(%d tracks, %s, by %s)", pl.Tracks.Total, VisibilityString(pl.Public), pl.Owner.DisplayName)))
	}
	if p.Next != nil {
		b.WriteString(Muted("More results available; use --offset to page") + "\n")
	}
	return b.String(), nil
}

// Tracks renders a page of saved or playlist items ({"track": ...} wrappers).
func Tracks(v any) (string, error) {
	var p page[savedItem]
	if err := decode(v, &p); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("Tracks (%d of %d)", len(p.Items), p.Total)) + "\n")
	n := 0
	for _, item := range p.Items {
		if item.Track == nil {
			continue
		}
		n++
		b.WriteString(trackLine(n, *item.Track) + "\n")
	}
	if n == 0 {
		b.WriteString(Muted("No tracks found") + "\n")
	}
	return b.String(), nil
}

// Search renders a search response, one section per result type present.
func Search(v any) (string, error) {
	var res struct {
		Tracks    *page[track]     `json:"tracks"`
		Artists   *page[named]     `json:"artists"`
		Albums    *page[named]     `json:"albums"`
		Playlists *page[*playlist] `json:"playlists"`
		Shows     *page[named]     `json:"shows"`
		Episodes  *page[track]     `json:"episodes"`
	}
	if err := decode(v, &res); err != nil {
		return "", err
	}

	var b strings.Builder
	if res.Tracks != nil {
		b.WriteString(Title("Tracks") + "\n")
		for i, t := range res.Tracks.Items {
			b.WriteString(trackLine(i+1, t) + "\n")
		}
	}
	for _, section := range []struct {
		title string
		items *page[named]
	}{
		{"Artists", res.Artists},
		{"Albums", res.Albums},
		{"Shows", res.Shows},
	} {
		if section.items == nil {
			continue
		}
		b.WriteString(Title(section.title) + "\n")
		for i, item := range section.items.Items {
			fmt.Fprintf(&b, "%3d. %s\n", i+1, item.Name)
		}
	}
	if res.Playlists != nil {
		b.WriteString(Title("Playlists") + "\n")
		n := 0
		for _, pl := range res.Playlists.Items {
			// the API returns null entries for playlists that are no longer available
			if pl == nil {
				continue
			}
			n++
			fmt.Fprintf(&b, "%3d. %s %s\n", n, pl.Name, Muted("by "+pl.Owner.DisplayName))
		}
	}
	if res.Episodes != nil {
		b.WriteString(Title("Episodes") + "\n")
		for i, t := range res.Episodes.Items {
			b.WriteString(trackLine(i+1, t) + "\n")
		}
	}

	if b.Len() == 0 {
		return Muted("No results") + "\n", nil
	}
	return b.String(), nil
}

// Playback renders the playback state. A nil value means nothing is active.
func Playback(v any) (string, error) {
	if v == nil {
		return Muted("Nothing is playing") + "\n", nil
	}

	var p playback
	if err := decode(v, &p); err != nil {
		return "", err
	}

	var b strings.Builder
	state := Warning("Paused")
	if p.IsPlaying {
		state = Success("Playing")
	}
	b.WriteString(state + "\n")

	if p.Item != nil {
		field(&b, "Track", p.Item.Name)
		field(&b, "Artist", p.Item.artistNames())
		field(&b, "Album", p.Item.source())
		field(&b, "Progress", FormatDuration(p.ProgressMS)+" / "+FormatDuration(p.Item.DurationMS))
	}
	field(&b, "Device", deviceLabel(p.Device))
	field(&b, "Shuffle", onOff(p.ShuffleState))
	field(&b, "Repeat", p.RepeatState)
	return b.String(), nil
}

// Devices renders the available devices response.
func Devices(v any) (string, error) {
	var res struct {
		Devices []device `json:"devices"`
	}
	if err := decode(v, &res); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Title("Devices") + "\n")
	if len(res.Devices) == 0 {
		b.WriteString(Muted("No devices available") + "\n")
		return b.String(), nil
	}
	for _, d := range res.Devices {
		marker := " "
		if d.IsActive {
			marker = Success("*")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", marker, d.ID, deviceLabel(d))
	}
	return b.String(), nil
}

// Queue renders the user's queue.
func Queue(v any) (string, error) {
	var res struct {
		CurrentlyPlaying *track  `json:"currently_playing"`
		Queue            []track `json:"queue"`
	}
	if err := decode(v, &res); err != nil {
		return "", err
	}

	var b strings.Builder
	if res.CurrentlyPlaying != nil {
		field(&b, "Now", res.CurrentlyPlaying.artistNames()+" - "+res.CurrentlyPlaying.Name)
	}
	b.WriteString(Title("Up next") + "\n")
	if len(res.Queue) == 0 {
		b.WriteString(Muted("Queue is empty") + "\n")
	}
	for i, t := range res.Queue {
		b.WriteString(trackLine(i+1, t) + "\n")
	}
	return b.String(), nil
}

// Endpoints renders the catalog with each endpoint's parameters.
func Endpoints(endpoints []spotify.Endpoint) string {
	var b strings.Builder
	for _, e := range endpoints {
		fmt.Fprintf(&b, "%s %s %s\n", styles.label.Render(e.Name), Muted(e.Method+" "+e.Path), e.Usage)
		for _, p := range e.Params {
			b.WriteString("    " + paramLine(p) + "\n")
		}
	}
	return b.String()
}

func paramLine(p spotify.Param) string {
	line := fmt.Sprintf("%s (%s, %s)", p.Name, p.In, p.Kind)
	switch {
	case p.Required:
		line += " required"
	case p.Default != nil:
		line += fmt.Sprintf(" default %v", p.Default)
	}
	if len(p.Enum) > 0 {
		line += " one of " + strings.Join(p.Enum, "|")
	}
	return line
}

func deviceLabel(d device) string {
	if d.Name == "" {
		return ""
	}
	label := d.Name + " (" + d.Type + ")"
	if d.VolumePercent != nil {
		label += fmt.Sprintf(" %d%%", *d.VolumePercent)
	}
	return label
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
