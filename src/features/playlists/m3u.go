package playlists

import (
	"fmt"
	"strings"

	"github.com/contre95/soundbridge/src/music"
)

// GenerateM3U generates extended M3U content from tracks. Each entry
// points at the local stream endpoint so any player can consume it.
func GenerateM3U(tracks []*music.Track, streamBase string) (string, error) {
	var builder strings.Builder

	builder.WriteString("#EXTM3U\n\n")

	for _, track := range tracks {
		if track == nil {
			continue
		}

		// EXTINF wants whole seconds, -1 when unknown
		seconds := track.Duration / 1000
		if seconds <= 0 {
			seconds = -1
		}

		builder.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", seconds, track.ArtistName(), track.Title))
		builder.WriteString(fmt.Sprintf("%s/stream/%d\n", strings.TrimSuffix(streamBase, "/"), track.ID))
	}

	return builder.String(), nil
}
