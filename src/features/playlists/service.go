package playlists

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contre95/soundbridge/src/music"
)

// Catalogue is the remote catalogue the playlists feature reads from.
type Catalogue interface {
	UserSets(ctx context.Context, userID string) ([]*music.Playlist, error)
	Set(ctx context.Context, setID string) (*music.Playlist, error)
	SetTracks(ctx context.Context, setID string) ([]*music.Track, error)
	Favorites(ctx context.Context, userID string) ([]*music.Track, error)
}

// Service is the domain service for the playlists feature.
type Service struct {
	remote Catalogue
}

// NewService creates a new playlists service.
func NewService(remote Catalogue) *Service {
	return &Service{remote: remote}
}

// ListSets returns the authenticated user's sets.
func (s *Service) ListSets(ctx context.Context) ([]*music.Playlist, error) {
	slog.Debug("ListSets service called")

	sets, err := s.remote.UserSets(ctx, "")
	if err != nil {
		slog.Error("ListSets failed", "error", err)
		return nil, err
	}

	slog.Debug("ListSets completed", "count", len(sets))
	return sets, nil
}

// GetSet returns a single set with its tracks populated.
func (s *Service) GetSet(ctx context.Context, setID string) (*music.Playlist, error) {
	slog.Debug("GetSet service called", "id", setID)

	set, err := s.remote.Set(ctx, setID)
	if err != nil {
		slog.Error("GetSet failed", "id", setID, "error", err)
		return nil, err
	}
	if len(set.Tracks) == 0 {
		tracks, err := s.remote.SetTracks(ctx, setID)
		if err != nil {
			slog.Error("GetSet: failed to fetch tracks", "id", setID, "error", err)
			return nil, err
		}
		set.Tracks = tracks
	}

	slog.Debug("GetSet completed", "id", setID, "tracks", len(set.Tracks))
	return set, nil
}

// ExportSetM3U renders a set as an extended M3U playlist whose entries
// point at the local stream endpoint under streamBase.
func (s *Service) ExportSetM3U(ctx context.Context, setID, streamBase string) (string, string, error) {
	slog.Debug("ExportSetM3U service called", "id", setID)

	set, err := s.GetSet(ctx, setID)
	if err != nil {
		return "", "", err
	}
	content, err := GenerateM3U(set.Tracks, streamBase)
	if err != nil {
		slog.Error("ExportSetM3U: failed to generate content", "id", setID, "error", err)
		return "", "", fmt.Errorf("failed to generate M3U for set %s: %w", setID, err)
	}

	slog.Debug("ExportSetM3U completed", "id", setID, "tracksExported", len(set.Tracks))
	return content, set.Title, nil
}

// ExportLikedM3U renders the user's liked tracks as an extended M3U playlist.
func (s *Service) ExportLikedM3U(ctx context.Context, streamBase string) (string, error) {
	slog.Debug("ExportLikedM3U service called")

	tracks, err := s.remote.Favorites(ctx, "")
	if err != nil {
		slog.Error("ExportLikedM3U failed", "error", err)
		return "", err
	}
	content, err := GenerateM3U(tracks, streamBase)
	if err != nil {
		slog.Error("ExportLikedM3U: failed to generate content", "error", err)
		return "", err
	}

	slog.Debug("ExportLikedM3U completed", "tracksExported", len(tracks))
	return content, nil
}
