package database

import (
	"context"
	"testing"

	"github.com/contre95/soundbridge/src/music"
)

func testStore(t *testing.T) *SqliteStore {
	t.Helper()
	store, err := NewSqliteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSqliteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testTrack(id int64, title string) *music.Track {
	return &music.Track{
		ID:       id,
		URI:      music.TrackURI(title, id),
		Title:    title,
		Artist:   &music.Artist{ID: 82, Name: "Blackalicious"},
		Album:    music.NewAlbum(false),
		Genre:    "Hip Hop",
		Duration: 455581,
	}
}

func TestSaveAndGetTrack(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.SaveTrack(ctx, testTrack(13158665, "The Craft")); err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}

	got, err := store.GetTrack(ctx, 13158665)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got == nil {
		t.Fatal("expected track")
	}
	if got.Title != "The Craft" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Artist == nil || got.Artist.Name != "Blackalicious" {
		t.Errorf("artist = %+v", got.Artist)
	}
	if got.Album == nil || got.Album.Name != music.AlbumName {
		t.Errorf("album = %+v", got.Album)
	}
	if got.AddedDate.IsZero() {
		t.Error("expected added_date to be set")
	}
}

func TestGetTrackUnknown(t *testing.T) {
	store := testStore(t)
	got, err := store.GetTrack(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSaveTrackUpsert(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.SaveTrack(ctx, testTrack(7, "First Title")); err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}
	if err := store.SaveTrack(ctx, testTrack(7, "Renamed Title")); err != nil {
		t.Fatalf("SaveTrack update: %v", err)
	}

	got, err := store.GetTrack(ctx, 7)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got.Title != "Renamed Title" {
		t.Errorf("title = %q, want updated title", got.Title)
	}
	count, err := store.TrackCount(ctx)
	if err != nil {
		t.Fatalf("TrackCount: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSaveTracksBatchAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	batch := []*music.Track{
		testTrack(1, "One"),
		testTrack(2, "Two"),
		testTrack(3, "Three"),
	}
	if err := store.SaveTracks(ctx, batch); err != nil {
		t.Fatalf("SaveTracks: %v", err)
	}

	recent, err := store.RecentTracks(ctx, 2)
	if err != nil {
		t.Fatalf("RecentTracks: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("got %d tracks, want 2", len(recent))
	}
	count, err := store.TrackCount(ctx)
	if err != nil {
		t.Fatalf("TrackCount: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
