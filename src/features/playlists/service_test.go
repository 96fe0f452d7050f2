package playlists

import (
	"context"
	"strings"
	"testing"

	"github.com/contre95/soundbridge/src/music"
)

type MockCatalogue struct {
	UserSetsFunc  func(ctx context.Context, userID string) ([]*music.Playlist, error)
	SetFunc       func(ctx context.Context, setID string) (*music.Playlist, error)
	SetTracksFunc func(ctx context.Context, setID string) ([]*music.Track, error)
	FavoritesFunc func(ctx context.Context, userID string) ([]*music.Track, error)
}

func (m *MockCatalogue) UserSets(ctx context.Context, userID string) ([]*music.Playlist, error) {
	return m.UserSetsFunc(ctx, userID)
}

func (m *MockCatalogue) Set(ctx context.Context, setID string) (*music.Playlist, error) {
	return m.SetFunc(ctx, setID)
}

func (m *MockCatalogue) SetTracks(ctx context.Context, setID string) ([]*music.Track, error) {
	return m.SetTracksFunc(ctx, setID)
}

func (m *MockCatalogue) Favorites(ctx context.Context, userID string) ([]*music.Track, error) {
	return m.FavoritesFunc(ctx, userID)
}

func exportTrack(id int64, artist, title string, durationMs int) *music.Track {
	return &music.Track{
		ID:       id,
		URI:      music.TrackURI(title, id),
		Title:    title,
		Artist:   &music.Artist{Name: artist},
		Duration: durationMs,
	}
}

func TestGenerateM3U(t *testing.T) {
	tracks := []*music.Track{
		exportTrack(13158665, "Blackalicious", "The Craft", 195000),
		nil,
		exportTrack(42, "Unknown", "No Duration", 0),
	}

	content, err := GenerateM3U(tracks, "http://localhost:3000/")
	if err != nil {
		t.Fatalf("GenerateM3U returned error: %v", err)
	}

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Errorf("expected EXTM3U header, got %q", content)
	}
	if !strings.Contains(content, "#EXTINF:195,Blackalicious - The Craft\n") {
		t.Errorf("expected EXTINF line with seconds, got %q", content)
	}
	if !strings.Contains(content, "http://localhost:3000/stream/13158665\n") {
		t.Errorf("expected stream URL without double slash, got %q", content)
	}
	if !strings.Contains(content, "#EXTINF:-1,Unknown - No Duration\n") {
		t.Errorf("expected -1 duration for unknown length, got %q", content)
	}
}

func TestGetSetFetchesTracksWhenMissing(t *testing.T) {
	remote := &MockCatalogue{
		SetFunc: func(ctx context.Context, setID string) (*music.Playlist, error) {
			return &music.Playlist{ID: 1050, Title: "Field Recordings"}, nil
		},
		SetTracksFunc: func(ctx context.Context, setID string) ([]*music.Track, error) {
			if setID != "1050" {
				t.Errorf("expected set id 1050, got %s", setID)
			}
			return []*music.Track{exportTrack(1, "A", "One", 1000)}, nil
		},
	}

	set, err := NewService(remote).GetSet(context.Background(), "1050")
	if err != nil {
		t.Fatalf("GetSet returned error: %v", err)
	}
	if len(set.Tracks) != 1 || set.Tracks[0].Title != "One" {
		t.Fatalf("expected populated tracks, got %+v", set.Tracks)
	}
}

func TestExportSetM3U(t *testing.T) {
	remote := &MockCatalogue{
		SetFunc: func(ctx context.Context, setID string) (*music.Playlist, error) {
			return &music.Playlist{
				ID:     1050,
				Title:  "Field Recordings",
				Tracks: []*music.Track{exportTrack(7, "B", "Two", 2000)},
			}, nil
		},
	}

	content, title, err := NewService(remote).ExportSetM3U(context.Background(), "1050", "http://localhost:3000")
	if err != nil {
		t.Fatalf("ExportSetM3U returned error: %v", err)
	}
	if title != "Field Recordings" {
		t.Errorf("expected set title, got %q", title)
	}
	if !strings.Contains(content, "http://localhost:3000/stream/7") {
		t.Errorf("expected stream entry, got %q", content)
	}
}

func TestExportLikedM3U(t *testing.T) {
	remote := &MockCatalogue{
		FavoritesFunc: func(ctx context.Context, userID string) ([]*music.Track, error) {
			if userID != "" {
				t.Errorf("expected own favorites, got user %q", userID)
			}
			return []*music.Track{exportTrack(9, "C", "Three", 3000)}, nil
		},
	}

	content, err := NewService(remote).ExportLikedM3U(context.Background(), "http://localhost:3000")
	if err != nil {
		t.Fatalf("ExportLikedM3U returned error: %v", err)
	}
	if !strings.Contains(content, "#EXTINF:3,C - Three") {
		t.Errorf("expected liked track entry, got %q", content)
	}
}
