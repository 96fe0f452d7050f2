package music

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/unidecode"
)

const uriPrefix = "soundcloud:song/"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	validChars   = "-_.() abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ReadableTitle ASCII-fies a track title so it can live inside a track URI.
func ReadableTitle(title string) string {
	ascii := unidecode.Unidecode(title)
	var b strings.Builder
	for _, c := range ascii {
		if strings.ContainsRune(validChars, c) {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))
}

// TrackURI builds the canonical soundcloud:song/<readable>.<id> URI.
func TrackURI(title string, id int64) string {
	return fmt.Sprintf("%s%s.%d", uriPrefix, ReadableTitle(title), id)
}

// ParseTrackID extracts the trailing numeric id from a track URI.
func ParseTrackID(uri string) string {
	parts := strings.Split(uri, ".")
	return parts[len(parts)-1]
}

// ParseDate parses the two timestamp formats the SoundCloud API emits.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05Z", "2006/01/02 15:04:05 -0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
