package music

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a single streamable SoundCloud track.
type Track struct {
	ID           int64
	URI          string
	Title        string
	Artist       *Artist
	Album        *Album
	Genre        string
	Duration     int // milliseconds
	Date         string
	LastModified int64 // unix milliseconds
	PermalinkURL string
	Description  string
	ArtworkURL   string
	AvatarURL    string
	Preview      bool
	StreamURL    string // resolved remote URL, only set when requested
	AddedDate    time.Time
}

// Comment returns the permalink plus description, the way clients display it.
func (t *Track) Comment() string {
	if t.Description == "" {
		return t.PermalinkURL
	}
	return t.PermalinkURL + " - " + t.Description
}

// ArtistName returns the main artist name or a fallback.
func (t *Track) ArtistName() string {
	if t.Artist == nil || t.Artist.Name == "" {
		return "Unknown label"
	}
	return t.Artist.Name
}

// Validate validates the track fields.
func (t *Track) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("track id must be positive, got %d", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("track title cannot be empty")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title cannot exceed 500 characters, got %d: title -> %s", len(t.Title), t.Title)
	}
	if strings.TrimSpace(t.URI) == "" {
		return fmt.Errorf("track uri cannot be empty")
	}
	if !strings.HasPrefix(t.URI, "soundcloud:song/") && !strings.HasPrefix(t.URI, "http") {
		return fmt.Errorf("unexpected track uri scheme: uri -> %s", t.URI)
	}
	if t.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %d", t.Duration)
	}
	return nil
}

// SanitizeTracks drops nil entries from a parsed track list.
func SanitizeTracks(tracks []*Track) []*Track {
	out := make([]*Track, 0, len(tracks))
	for _, t := range tracks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
