package streaming

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contre95/soundbridge/src/features/metrics"
	"github.com/contre95/soundbridge/src/music"
	"github.com/grafov/m3u8"
)

// Resolver turns a track id into a playable stream.
type Resolver interface {
	StreamForTrack(ctx context.Context, trackID string) (*music.Stream, error)
}

// PageFetcher fetches raw documents such as HLS playlists.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawurl string) ([]byte, error)
}

// Service is the domain service for the streaming feature.
type Service struct {
	resolver Resolver
	fetcher  PageFetcher
}

// NewService creates a new streaming service.
func NewService(resolver Resolver, fetcher PageFetcher) *Service {
	return &Service{resolver: resolver, fetcher: fetcher}
}

// Resolve returns a playable stream for a track id.
func (s *Service) Resolve(ctx context.Context, trackID string) (*music.Stream, error) {
	stream, err := s.resolver.StreamForTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	metrics.StreamResolutions.WithLabelValues(stream.Protocol).Inc()
	if stream.Preview {
		slog.Warn("Track is a preview stream, a SoundCloud GO subscription unlocks the full track", "track", trackID)
	}
	slog.Debug("Resolved stream", "track", trackID, "protocol", stream.Protocol, "mime", stream.MimeType)
	return stream, nil
}

// PlaylistInfo summarizes an HLS playlist.
type PlaylistInfo struct {
	Kind     string    `json:"kind"`
	Segments int       `json:"segments,omitempty"`
	Duration float64   `json:"duration_seconds,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
}

// Variant is one rendition of a master playlist.
type Variant struct {
	URI       string `json:"uri"`
	Bandwidth uint32 `json:"bandwidth"`
	Codecs    string `json:"codecs,omitempty"`
}

// DescribePlaylist fetches and summarizes the HLS playlist behind a stream.
func (s *Service) DescribePlaylist(ctx context.Context, stream *music.Stream) (*PlaylistInfo, error) {
	if !strings.Contains(stream.Protocol, "hls") {
		return nil, fmt.Errorf("streaming: %s stream has no playlist", stream.Protocol)
	}
	body, err := s.fetcher.FetchPage(ctx, stream.URL)
	if err != nil {
		return nil, err
	}
	return describePlaylist(body)
}

func describePlaylist(body []byte) (*PlaylistInfo, error) {
	playlist, kind, err := m3u8.Decode(*bytes.NewBuffer(body), true)
	if err != nil {
		return nil, fmt.Errorf("streaming: decode playlist: %w", err)
	}

	switch kind {
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		info := &PlaylistInfo{Kind: "media"}
		for _, segment := range media.Segments {
			if segment == nil {
				continue
			}
			info.Segments++
			info.Duration += segment.Duration
		}
		return info, nil
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		info := &PlaylistInfo{Kind: "master"}
		for _, variant := range master.Variants {
			if variant == nil {
				continue
			}
			info.Variants = append(info.Variants, Variant{
				URI:       variant.URI,
				Bandwidth: variant.Bandwidth,
				Codecs:    variant.Codecs,
			})
		}
		return info, nil
	default:
		return nil, fmt.Errorf("streaming: unknown playlist type")
	}
}
