package downloading

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/features/jobs"
	"github.com/contre95/soundbridge/src/music"
)

// Fetcher resolves track metadata and stream locations.
type Fetcher interface {
	ParsedTrack(ctx context.Context, trackID string) (*music.Track, error)
	StreamForTrack(ctx context.Context, trackID string) (*music.Stream, error)
}

// TagWriter defines the interface for writing metadata tags to music files.
type TagWriter interface {
	WriteFileTags(ctx context.Context, filePath string, track *music.Track) error
}

// Service handles downloading operations.
type Service struct {
	configManager *config.Manager
	jobService    jobs.JobService
	fetcher       Fetcher
	tagWriter     TagWriter
}

// NewService creates a new downloading service.
func NewService(cfgManager *config.Manager, jobService jobs.JobService, fetcher Fetcher, tagWriter TagWriter) *Service {
	return &Service{
		configManager: cfgManager,
		jobService:    jobService,
		fetcher:       fetcher,
		tagWriter:     tagWriter,
	}
}

// DownloadTrack starts a download job for a track.
func (s *Service) DownloadTrack(trackID string) (string, error) {
	jobID, err := s.jobService.StartJob("download_track", "Download Track", map[string]any{
		"trackID": trackID,
	})
	if err != nil {
		slog.Error("Failed to start download job", "error", err)
		return "", fmt.Errorf("failed to start download job: %w", err)
	}
	slog.Info("Download job started", "trackID", trackID, "jobID", jobID)
	return jobID, nil
}

// GetDownloadsFileTree returns a tree structure of the downloads path.
func (s *Service) GetDownloadsFileTree() (string, error) {
	path := s.configManager.Get().Downloads.Path
	cmd := exec.Command("tree", path)
	output, err := cmd.Output()
	if err != nil {
		slog.Error("Failed to execute tree command", "error", err)
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("failed to run tree command: %s. Is 'tree' installed on your system?", exitErr.Stderr)
		}
		return "", err
	}
	return string(output), nil
}
