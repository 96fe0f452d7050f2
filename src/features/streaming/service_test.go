package streaming

import (
	"context"
	"strings"
	"testing"

	"github.com/contre95/soundbridge/src/music"
)

// MockResolver is a mock implementation of the Resolver interface.
type MockResolver struct {
	StreamForTrackFunc func(ctx context.Context, trackID string) (*music.Stream, error)
}

func (m *MockResolver) StreamForTrack(ctx context.Context, trackID string) (*music.Stream, error) {
	return m.StreamForTrackFunc(ctx, trackID)
}

// MockFetcher is a mock implementation of the PageFetcher interface.
type MockFetcher struct {
	Body []byte
}

func (m *MockFetcher) FetchPage(ctx context.Context, rawurl string) ([]byte, error) {
	return m.Body, nil
}

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:9.984,
https://cdn.example/seg0.mp3
#EXTINF:9.984,
https://cdn.example/seg1.mp3
#EXTINF:4.233,
https://cdn.example/seg2.mp3
#EXT-X-ENDLIST
`

func TestResolve(t *testing.T) {
	resolver := &MockResolver{
		StreamForTrackFunc: func(ctx context.Context, trackID string) (*music.Stream, error) {
			if trackID != "13158665" {
				t.Errorf("trackID = %q", trackID)
			}
			return &music.Stream{URL: "https://cdn.example/signed.mp3", Protocol: "progressive"}, nil
		},
	}
	service := NewService(resolver, &MockFetcher{})

	stream, err := service.Resolve(context.Background(), "13158665")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if stream.URL != "https://cdn.example/signed.mp3" {
		t.Errorf("url = %q", stream.URL)
	}
}

func TestDescribePlaylistMedia(t *testing.T) {
	service := NewService(&MockResolver{}, &MockFetcher{Body: []byte(mediaPlaylist)})

	info, err := service.DescribePlaylist(context.Background(), &music.Stream{
		URL:      "https://cdn.example/playlist.m3u8",
		Protocol: "hls",
	})
	if err != nil {
		t.Fatalf("DescribePlaylist: %v", err)
	}
	if info.Kind != "media" {
		t.Errorf("kind = %q", info.Kind)
	}
	if info.Segments != 3 {
		t.Errorf("segments = %d, want 3", info.Segments)
	}
	if info.Duration < 24 || info.Duration > 25 {
		t.Errorf("duration = %f, want about 24.2", info.Duration)
	}
}

func TestDescribePlaylistRejectsProgressive(t *testing.T) {
	service := NewService(&MockResolver{}, &MockFetcher{})

	_, err := service.DescribePlaylist(context.Background(), &music.Stream{
		URL:      "https://cdn.example/signed.mp3",
		Protocol: "progressive",
	})
	if err == nil || !strings.Contains(err.Error(), "no playlist") {
		t.Fatalf("expected no playlist error, got %v", err)
	}
}
