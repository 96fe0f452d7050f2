package images

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/contre95/soundbridge/src/music"
)

// maxIDsPerRequest caps how many track ids go into one batch lookup.
const maxIDsPerRequest = 50

// DefaultSize is the artwork rendition served when none is requested.
const DefaultSize = "t500x500"

// artworkSizes maps SoundCloud artwork rendition names to their pixel edge.
// "original" has no fixed dimensions.
var artworkSizes = map[string]int{
	"mini":     16,
	"tiny":     20,
	"small":    32,
	"badge":    47,
	"t67x67":   67,
	"large":    100,
	"t300x300": 300,
	"crop":     400,
	"t500x500": 500,
	"original": 0,
}

// Catalogue is the remote lookup the image provider needs.
type Catalogue interface {
	TracksBatch(ctx context.Context, trackIDs []int64) ([]*music.Track, error)
	SetTracks(ctx context.Context, setID string) ([]*music.Track, error)
}

// Service is the domain service for the images feature.
type Service struct {
	catalogue Catalogue
	fetcher   PageFetcher
}

// PageFetcher fetches raw documents such as artwork files.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawurl string) ([]byte, error)
}

// NewService creates a new images service.
func NewService(catalogue Catalogue, fetcher PageFetcher) *Service {
	return &Service{catalogue: catalogue, fetcher: fetcher}
}

// SizedURL rewrites an artwork URL to the requested rendition. API payloads
// always point at the "large" (100px) rendition.
func SizedURL(artworkURL, size string) string {
	if _, ok := artworkSizes[size]; !ok {
		size = DefaultSize
	}
	return strings.Replace(artworkURL, "large", size, 1)
}

// SizedImage builds an image reference for the requested rendition.
func SizedImage(artworkURL, size string) music.Image {
	if _, ok := artworkSizes[size]; !ok {
		size = DefaultSize
	}
	edge := artworkSizes[size]
	return music.Image{
		URI:    SizedURL(artworkURL, size),
		Width:  edge,
		Height: edge,
	}
}

// ImagesFor maps each given URI to its artwork. Track URIs are looked up in
// batches; set URIs expand to the artwork of every track in the set.
func (s *Service) ImagesFor(ctx context.Context, uris []string, size string) (map[string][]music.Image, error) {
	result := make(map[string][]music.Image, len(uris))
	trackIDs := make([]int64, 0, len(uris))
	uriByID := make(map[int64]string, len(uris))

	for _, uri := range uris {
		switch {
		case strings.Contains(uri, ":song/"):
			id, err := strconv.ParseInt(music.ParseTrackID(uri), 10, 64)
			if err != nil {
				slog.Debug("No track id in image uri", "uri", uri, "error", err)
				continue
			}
			trackIDs = append(trackIDs, id)
			uriByID[id] = uri
		case strings.Contains(uri, ":sets/"):
			setID := uri[strings.LastIndex(uri, "/")+1:]
			tracks, err := s.catalogue.SetTracks(ctx, setID)
			if err != nil {
				slog.Debug("No set behind image uri", "uri", uri, "error", err)
				continue
			}
			var imgs []music.Image
			for _, track := range tracks {
				imgs = append(imgs, trackImages(track, size)...)
			}
			result[uri] = imgs
		default:
			slog.Debug("Unsupported image uri", "uri", uri)
		}
	}

	for start := 0; start < len(trackIDs); start += maxIDsPerRequest {
		end := min(start+maxIDsPerRequest, len(trackIDs))
		tracks, err := s.catalogue.TracksBatch(ctx, trackIDs[start:end])
		if err != nil {
			return nil, err
		}
		for _, track := range tracks {
			uri, ok := uriByID[track.ID]
			if !ok {
				continue
			}
			result[uri] = trackImages(track, size)
		}
	}
	return result, nil
}

// trackImages prefers track artwork over the uploader's avatar.
func trackImages(track *music.Track, size string) []music.Image {
	artworkURL := track.ArtworkURL
	if artworkURL == "" {
		artworkURL = track.AvatarURL
	}
	if artworkURL == "" {
		return nil
	}
	return []music.Image{SizedImage(artworkURL, size)}
}

// Fetch downloads raw artwork bytes.
func (s *Service) Fetch(ctx context.Context, rawurl string) ([]byte, error) {
	if !strings.Contains(rawurl, "sndcdn.com") {
		return nil, fmt.Errorf("images: refusing to proxy non-SoundCloud url %q", rawurl)
	}
	return s.fetcher.FetchPage(ctx, rawurl)
}
