package music

// Artist represents the uploader or label credited for a track.
type Artist struct {
	ID   int64
	Name string
}

// Album groups tracks for display. SoundCloud has no real albums, so every
// track belongs to a synthetic "SoundCloud" album; previews get a suffix.
type Album struct {
	Name string
}

const (
	// AlbumName is the synthetic album every full track belongs to.
	AlbumName = "SoundCloud"
	// PreviewSuffix marks snipped (SoundCloud Go) streams.
	PreviewSuffix = " - Preview (Get SoundCloud GO for full stream)"
)

// NewAlbum returns the synthetic album, marked as preview when snipped.
func NewAlbum(preview bool) *Album {
	name := AlbumName
	if preview {
		name += PreviewSuffix
	}
	return &Album{Name: name}
}

// User represents a SoundCloud user (followed account or track uploader).
type User struct {
	ID           int64
	Username     string
	AvatarURL    string
	PermalinkURL string
}

// Playlist represents a SoundCloud set or a curated system playlist.
type Playlist struct {
	ID         int64
	URN        string // system playlists carry a string urn instead of an id
	Title      string
	ArtworkURL string
	User       *User
	TrackIDs   []int64
	Tracks     []*Track
}

// Key returns the playlist identifier usable in browse URIs.
func (p *Playlist) Key() string {
	if p.URN != "" {
		return p.URN
	}
	return formatInt(p.ID)
}

// Selection is one Explore row: a curated group of playlists.
type Selection struct {
	ID        string // e.g. soundcloud:selections:charts-top
	Title     string
	Playlists []*Playlist
}
