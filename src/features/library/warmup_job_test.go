package library

import (
	"context"
	"testing"

	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/contre95/soundbridge/src/music"
)

func TestWarmupJobExecute(t *testing.T) {
	selections := []*music.Selection{{
		ID:    "soundcloud:selections:charts-top",
		Title: "Charts: Top 50",
		Playlists: []*music.Playlist{{
			URN:      "soundcloud:system-playlists:charts-top:all-music:us",
			Title:    "Top 50: All music genres",
			TrackIDs: []int64{1, 2},
		}},
	}}
	store := &MockStore{}
	remote := &MockBrowser{
		SelectionsFunc: func(ctx context.Context) ([]*music.Selection, error) {
			return selections, nil
		},
		TracksBatchFunc: func(ctx context.Context, trackIDs []int64) ([]*music.Track, error) {
			return []*music.Track{sampleTrack(1, "One"), sampleTrack(2, "Two")}, nil
		},
	}
	task := NewWarmupJobTask(NewService(remote, store))

	var lastMessage string
	stats, err := task.Execute(context.Background(), &jobs.Job{ID: "j1"}, func(_ int, msg string) {
		lastMessage = msg
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if stats["selections"] != 1 || stats["playlists"] != 1 || stats["tracks"] != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if lastMessage == "" {
		t.Error("expected progress messages")
	}
	if len(store.Saved) == 0 {
		t.Error("expected warmed tracks to be persisted")
	}
}
