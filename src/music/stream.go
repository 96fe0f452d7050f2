package music

// Stream is a resolved, playable stream location for a track.
type Stream struct {
	URL      string `json:"url"`
	Protocol string `json:"protocol"`
	MimeType string `json:"mime_type"`
	Preview  bool   `json:"preview"`
}
