package soundcloud

import (
	"log/slog"

	"github.com/contre95/soundbridge/src/music"
)

// parseTrack maps a wire track onto the domain model. Unstreamable entries
// and non-track kinds come back nil and are filtered out by callers.
func parseTrack(t *Track) *music.Track {
	if t == nil {
		return nil
	}
	if !t.Streamable {
		slog.Info("Track can't be streamed from SoundCloud", "title", t.Title)
		return nil
	}
	if t.Kind != "track" {
		slog.Debug("Skipping non-track item", "title", t.Title, "kind", t.Kind)
		return nil
	}

	artistName := t.LabelName
	if artistName == "" {
		artistName = t.User.Username
	}

	parsed := &music.Track{
		ID:           t.ID,
		URI:          music.TrackURI(t.Title, t.ID),
		Title:        t.Title,
		Artist:       &music.Artist{ID: t.User.ID, Name: artistName},
		Album:        music.NewAlbum(t.Snipped()),
		Genre:        t.Genre,
		Duration:     t.Duration,
		PermalinkURL: t.PermalinkURL,
		Description:  t.Description,
		ArtworkURL:   t.ArtworkURL,
		AvatarURL:    t.User.AvatarURL,
		Preview:      t.Snipped(),
	}
	if created, ok := music.ParseDate(t.CreatedAt); ok {
		parsed.Date = created.Format("2006-01-02")
	}
	if modified, ok := music.ParseDate(t.LastModified); ok {
		parsed.LastModified = modified.UnixMilli()
	}
	return parsed
}

// parseTracks maps a list of wire tracks, dropping unstreamable entries.
func parseTracks(tracks []Track) []*music.Track {
	out := make([]*music.Track, 0, len(tracks))
	for i := range tracks {
		if parsed := parseTrack(&tracks[i]); parsed != nil {
			out = append(out, parsed)
		}
	}
	return out
}

// parseResults flattens mixed track/playlist results into a track list.
func parseResults(items []resolvedItem) []*music.Track {
	var out []*music.Track
	for i := range items {
		item := &items[i]
		switch item.Kind {
		case "track":
			if parsed := parseTrack(&item.Track); parsed != nil {
				out = append(out, parsed)
			}
		case "playlist":
			slog.Debug("Parsing playlist tracks", "count", len(item.Tracks))
			out = append(out, parseTracks(item.Tracks)...)
		default:
			slog.Warn("Unknown item type", "kind", item.Kind)
		}
	}
	return out
}

func parseUser(u *User) *music.User {
	return &music.User{
		ID:           u.ID,
		Username:     u.Username,
		AvatarURL:    u.AvatarURL,
		PermalinkURL: u.PermalinkURL,
	}
}

func parsePlaylist(p *Playlist) *music.Playlist {
	out := &music.Playlist{
		ID:         p.ID,
		URN:        p.URN,
		Title:      p.Title,
		ArtworkURL: artworkFor(p),
		User:       parseUser(&p.User),
		Tracks:     parseTracks(p.Tracks),
	}
	for i := range p.Tracks {
		out.TrackIDs = append(out.TrackIDs, p.Tracks[i].ID)
	}
	return out
}

// artworkFor prefers playlist artwork over the owner's avatar.
func artworkFor(p *Playlist) string {
	if p.ArtworkURL != "" {
		return p.ArtworkURL
	}
	if p.CalculatedArtworkURL != "" {
		return p.CalculatedArtworkURL
	}
	return p.User.AvatarURL
}
