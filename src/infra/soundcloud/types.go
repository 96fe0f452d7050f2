package soundcloud

import "encoding/json"

// Wire types for the two SoundCloud API generations. api-v2 tracks carry a
// "media" block with transcodings; api-v1 tracks carry a bare stream_url.

type Track struct {
	ID                 int64  `json:"id"`
	Kind               string `json:"kind"`
	Title              string `json:"title"`
	Genre              string `json:"genre"`
	Duration           int    `json:"duration"`
	Streamable         bool   `json:"streamable"`
	Policy             string `json:"policy"`
	Description        string `json:"description"`
	PermalinkURL       string `json:"permalink_url"`
	ArtworkURL         string `json:"artwork_url"`
	CreatedAt          string `json:"created_at"`
	LastModified       string `json:"last_modified"`
	LabelName          string `json:"label_name"`
	StreamURL          string `json:"stream_url"`
	TrackAuthorization string `json:"track_authorization"`
	User               User   `json:"user"`
	Media              Media  `json:"media"`
}

// Snipped reports whether only a preview stream is available.
func (t *Track) Snipped() bool {
	return t.Policy == "SNIP"
}

type User struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Username     string `json:"username"`
	AvatarURL    string `json:"avatar_url"`
	PermalinkURL string `json:"permalink_url"`
}

type Media struct {
	Transcodings []Transcoding `json:"transcodings"`
}

type Transcoding struct {
	URL     string `json:"url"`
	Preset  string `json:"preset"`
	Snipped bool   `json:"snipped"`
	Format  Format `json:"format"`
}

type Format struct {
	Protocol string `json:"protocol"`
	MimeType string `json:"mime_type"`
}

type Playlist struct {
	ID                   int64   `json:"-"`
	URN                  string  `json:"-"`
	Title                string  `json:"title"`
	Kind                 string  `json:"kind"`
	ArtworkURL           string  `json:"artwork_url"`
	CalculatedArtworkURL string  `json:"calculated_artwork_url"`
	User                 User    `json:"user"`
	Tracks               []Track `json:"tracks"`
}

// UnmarshalJSON handles the two id shapes playlists come with: user sets
// have numeric ids, system playlists carry a string urn.
func (p *Playlist) UnmarshalJSON(data []byte) error {
	type alias Playlist
	aux := struct {
		*alias
		RawID json.RawMessage `json:"id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.RawID) > 0 {
		if aux.RawID[0] == '"' {
			if err := json.Unmarshal(aux.RawID, &p.URN); err != nil {
				return err
			}
		} else if err := json.Unmarshal(aux.RawID, &p.ID); err != nil {
			return err
		}
	}
	return nil
}

type streamResponse struct {
	URL string `json:"url"`
}

// collection is the paged envelope api-v2 wraps list results in.
type collection[T any] struct {
	Collection []T    `json:"collection"`
	NextHref   string `json:"next_href"`
}

// activity is one entry of the me/activities feed. The origin is a track or
// a playlist; both shapes share the track fields.
type activity struct {
	Origin *resolvedItem `json:"origin"`
}

// resolvedItem is a track or a playlist, distinguished by kind.
type resolvedItem struct {
	Track
	Tracks []Track `json:"tracks"`
}

// selection is one Explore row of the mixed-selections endpoint.
type selection struct {
	ID    string                `json:"id"`
	Title string                `json:"title"`
	Items *collection[Playlist] `json:"items"`
}
