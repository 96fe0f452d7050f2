package library

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/contre95/soundbridge/src/music"
)

const (
	// RootURI is the top of the browse tree.
	RootURI = "soundcloud:directory"
	// SearchURI tags search results.
	SearchURI = "soundcloud:search"

	followingURI = RootURI + ":following"
	likedURI     = RootURI + ":liked"
	setsURI      = RootURI + ":sets"
	streamURI    = RootURI + ":stream"
	exploreURI   = RootURI + ":explore"

	selectionsPrefix = "soundcloud:selections:"
)

// Browser is the remote catalogue the library browses. Implemented by the
// SoundCloud client.
type Browser interface {
	Me(ctx context.Context) (*music.User, error)
	UserStream(ctx context.Context) ([]*music.Track, error)
	Followings(ctx context.Context, userID string) ([]*music.User, error)
	Favorites(ctx context.Context, userID string) ([]*music.Track, error)
	UserTracks(ctx context.Context, userID string) ([]*music.Track, error)
	UserSets(ctx context.Context, userID string) ([]*music.Playlist, error)
	SetTracks(ctx context.Context, setID string) ([]*music.Track, error)
	TracksBatch(ctx context.Context, trackIDs []int64) ([]*music.Track, error)
	ParsedTrack(ctx context.Context, trackID string) (*music.Track, error)
	Search(ctx context.Context, query string) ([]*music.Track, error)
	ResolveURL(ctx context.Context, pageURL string) ([]*music.Track, error)
	Selections(ctx context.Context) ([]*music.Selection, error)
}

// Store persists tracks seen while browsing.
type Store interface {
	SaveTracks(ctx context.Context, tracks []*music.Track) error
	GetTrack(ctx context.Context, id int64) (*music.Track, error)
	RecentTracks(ctx context.Context, limit int) ([]*music.Track, error)
	TrackCount(ctx context.Context) (int, error)
}

// Service is the domain service for the library feature.
type Service struct {
	remote Browser
	store  Store
}

// NewService creates a new library service.
func NewService(remote Browser, store Store) *Service {
	return &Service{remote: remote, store: store}
}

// Root returns the root directory reference.
func (s *Service) Root() music.Ref {
	return music.NewDirectoryRef(RootURI, "SoundCloud")
}

// Browse lists the children of one virtual directory.
func (s *Service) Browse(ctx context.Context, uri string) ([]music.Ref, error) {
	switch uri {
	case RootURI, "":
		return []music.Ref{
			music.NewDirectoryRef(followingURI, "Following"),
			music.NewDirectoryRef(likedURI, "Liked"),
			music.NewDirectoryRef(setsURI, "Sets"),
			music.NewDirectoryRef(streamURI, "Stream"),
			music.NewDirectoryRef(exploreURI, "Explore"),
		}, nil
	case followingURI:
		return s.browseFollowings(ctx)
	case likedURI:
		tracks, err := s.remote.Favorites(ctx, "")
		return s.trackRefs(ctx, tracks), err
	case setsURI:
		return s.browseSets(ctx)
	case streamURI:
		tracks, err := s.remote.UserStream(ctx)
		return s.trackRefs(ctx, tracks), err
	case exploreURI:
		return s.browseSelections(ctx)
	}

	switch {
	case strings.HasPrefix(uri, followingURI+"/"):
		tracks, err := s.remote.UserTracks(ctx, uri[len(followingURI)+1:])
		return s.trackRefs(ctx, tracks), err
	case strings.HasPrefix(uri, setsURI+"/"):
		tracks, err := s.remote.SetTracks(ctx, uri[len(setsURI)+1:])
		return s.trackRefs(ctx, tracks), err
	case strings.HasPrefix(uri, exploreURI+":"):
		return s.browseExplore(ctx, uri)
	}

	slog.Warn("Browse of unknown directory", "uri", uri)
	return nil, nil
}

func (s *Service) browseFollowings(ctx context.Context) ([]music.Ref, error) {
	users, err := s.remote.Followings(ctx, "")
	if err != nil {
		return nil, err
	}
	refs := make([]music.Ref, 0, len(users))
	for _, u := range users {
		uri := fmt.Sprintf("%s/%d", followingURI, u.ID)
		refs = append(refs, music.NewDirectoryRef(uri, u.Username))
	}
	return refs, nil
}

func (s *Service) browseSets(ctx context.Context) ([]music.Ref, error) {
	sets, err := s.remote.UserSets(ctx, "")
	if err != nil {
		return nil, err
	}
	refs := make([]music.Ref, 0, len(sets))
	for _, set := range sets {
		uri := setsURI + "/" + set.Key()
		refs = append(refs, music.NewAlbumRef(uri, set.Title))
	}
	return refs, nil
}

func (s *Service) browseSelections(ctx context.Context) ([]music.Ref, error) {
	selections, err := s.remote.Selections(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]music.Ref, 0, len(selections))
	for _, sel := range selections {
		refs = append(refs, music.NewDirectoryRef(selectionURI(sel), sel.Title))
	}
	return refs, nil
}

// browseExplore resolves uris below the Explore folder: first as a selection
// (listing its playlists), then as a selection playlist (listing its tracks).
func (s *Service) browseExplore(ctx context.Context, uri string) ([]music.Ref, error) {
	selections, err := s.remote.Selections(ctx)
	if err != nil {
		return nil, err
	}

	for _, sel := range selections {
		if selectionURI(sel) != uri {
			continue
		}
		refs := make([]music.Ref, 0, len(sel.Playlists))
		for _, set := range sel.Playlists {
			refs = append(refs, music.NewAlbumRef(playlistURI(sel, set), set.Title))
		}
		return refs, nil
	}

	for _, sel := range selections {
		for _, set := range sel.Playlists {
			if playlistURI(sel, set) != uri {
				continue
			}
			tracks, err := s.selectionPlaylistTracks(ctx, set)
			return s.trackRefs(ctx, tracks), err
		}
	}

	slog.Warn("Browse of unknown explore directory", "uri", uri)
	return nil, nil
}

// selectionPlaylistTracks turns a selection playlist into playable tracks.
// Selection payloads carry bare track ids without media info, so a separate
// batch call is needed; playlists without any track list fall back to the
// sets endpoint.
func (s *Service) selectionPlaylistTracks(ctx context.Context, set *music.Playlist) ([]*music.Track, error) {
	if len(set.TrackIDs) > 0 {
		return s.remote.TracksBatch(ctx, set.TrackIDs)
	}
	return s.remote.SetTracks(ctx, set.Key())
}

// Search queries the remote catalogue. Queries holding a soundcloud.com URL
// are resolved to that page's tracks instead of searched as text.
func (s *Service) Search(ctx context.Context, query string) (*music.SearchResult, error) {
	if query == "" {
		return &music.SearchResult{URI: SearchURI}, nil
	}

	if parsed, err := url.Parse(query); err == nil && strings.Contains(parsed.Host, "soundcloud.com") {
		slog.Info("Resolving SoundCloud for", "url", query)
		tracks, err := s.remote.ResolveURL(ctx, query)
		if err != nil {
			return nil, err
		}
		s.persist(ctx, tracks)
		return &music.SearchResult{URI: SearchURI, Tracks: tracks}, nil
	}

	slog.Info("Searching SoundCloud for", "query", query)
	tracks, err := s.remote.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, tracks)
	return &music.SearchResult{URI: SearchURI, Tracks: tracks}, nil
}

// Lookup resolves a track URI to full track metadata. URIs prefixed with
// "sc:" are treated as soundcloud.com page URLs.
func (s *Service) Lookup(ctx context.Context, uri string) ([]*music.Track, error) {
	if strings.Contains(uri, "sc:") {
		return s.remote.ResolveURL(ctx, strings.Replace(uri, "sc:", "", 1))
	}
	if strings.HasPrefix(uri, RootURI) {
		return nil, nil
	}

	track, err := s.remote.ParsedTrack(ctx, music.ParseTrackID(uri))
	if err != nil {
		return nil, err
	}
	if track == nil {
		slog.Info("Failed to lookup: SoundCloud track not found", "uri", uri)
		return nil, nil
	}
	s.persist(ctx, []*music.Track{track})
	return []*music.Track{track}, nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context) (*music.User, error) {
	return s.remote.Me(ctx)
}

// RecentTracks lists recently browsed tracks from the store.
func (s *Service) RecentTracks(ctx context.Context, limit int) ([]*music.Track, error) {
	return s.store.RecentTracks(ctx, limit)
}

// TrackCount returns how many tracks the store has seen.
func (s *Service) TrackCount(ctx context.Context) (int, error) {
	return s.store.TrackCount(ctx)
}

// trackRefs converts tracks into browse references, persisting them so later
// lookups can be served locally.
func (s *Service) trackRefs(ctx context.Context, tracks []*music.Track) []music.Ref {
	s.persist(ctx, tracks)
	refs := make([]music.Ref, 0, len(tracks))
	for _, track := range tracks {
		refs = append(refs, music.NewTrackRef(track.URI, track.Title))
	}
	return refs
}

func (s *Service) persist(ctx context.Context, tracks []*music.Track) {
	if s.store == nil || len(tracks) == 0 {
		return
	}
	if err := s.store.SaveTracks(ctx, tracks); err != nil {
		slog.Warn("Failed to persist browsed tracks", "error", err)
	}
}

func selectionURI(sel *music.Selection) string {
	tail := strings.TrimPrefix(sel.ID, selectionsPrefix)
	return exploreURI + ":" + tail
}

func playlistURI(sel *music.Selection, set *music.Playlist) string {
	return selectionURI(sel) + ":" + set.Key()
}
