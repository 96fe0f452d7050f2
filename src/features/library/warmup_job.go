package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contre95/soundbridge/src/features/jobs"
)

// WarmupJobType is the job type for Explore cache warm-up.
const WarmupJobType = "explore_warmup"

// WarmupJobTask walks the whole Explore tree so every selection, playlist
// and track ends up cached and persisted before a client asks for them.
type WarmupJobTask struct {
	service *Service
}

// NewWarmupJobTask creates a new warm-up job Task.
func NewWarmupJobTask(service *Service) *WarmupJobTask {
	return &WarmupJobTask{service: service}
}

// MetadataKeys returns the metadata keys required by this task.
func (t *WarmupJobTask) MetadataKeys() []string {
	return nil
}

// Execute walks Explore selections, their playlists and playlist tracks.
func (t *WarmupJobTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	progressUpdater(0, "Fetching Explore selections")

	selections, err := t.service.Browse(ctx, exploreURI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selections: %w", err)
	}

	playlists := 0
	tracks := 0
	for i, sel := range selections {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sets, err := t.service.Browse(ctx, sel.URI)
		if err != nil {
			slog.Warn("Explore warm-up: skipping selection", "uri", sel.URI, "error", err)
			continue
		}
		for _, set := range sets {
			refs, err := t.service.Browse(ctx, set.URI)
			if err != nil {
				slog.Warn("Explore warm-up: skipping playlist", "uri", set.URI, "error", err)
				continue
			}
			playlists++
			tracks += len(refs)
		}

		progress := (i + 1) * 100 / len(selections)
		progressUpdater(progress, fmt.Sprintf("Warmed %q (%d/%d selections)", sel.Name, i+1, len(selections)))
	}

	return map[string]any{
		"selections": len(selections),
		"playlists":  playlists,
		"tracks":     tracks,
	}, nil
}

// Cleanup is a no-op, the warm-up leaves nothing behind.
func (t *WarmupJobTask) Cleanup(job *jobs.Job) error {
	return nil
}
