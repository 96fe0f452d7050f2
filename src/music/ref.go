package music

import "strconv"

// RefType classifies a browse reference.
type RefType string

const (
	RefDirectory RefType = "directory"
	RefTrack     RefType = "track"
	RefAlbum     RefType = "album"
	RefPlaylist  RefType = "playlist"
)

// Ref is a lightweight pointer into the browse tree.
type Ref struct {
	URI  string  `json:"uri"`
	Name string  `json:"name"`
	Type RefType `json:"type"`
}

func NewDirectoryRef(uri, name string) Ref {
	return Ref{URI: uri, Name: name, Type: RefDirectory}
}

func NewTrackRef(uri, name string) Ref {
	return Ref{URI: uri, Name: name, Type: RefTrack}
}

func NewAlbumRef(uri, name string) Ref {
	return Ref{URI: uri, Name: name, Type: RefAlbum}
}

// SearchResult bundles tracks found for a query or resolved URL.
type SearchResult struct {
	URI    string   `json:"uri"`
	Tracks []*Track `json:"tracks"`
}

// Image is a sized artwork reference.
type Image struct {
	URI    string `json:"uri"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
