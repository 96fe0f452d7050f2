package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/contre95/soundbridge/src/features/config"
	"github.com/contre95/soundbridge/src/infra/cache"
	"github.com/contre95/soundbridge/src/music"
)

const (
	// AppClientID is the standard application client id used with api-v1.
	AppClientID = "93e33e327fd8a9b77becd179652272e2"

	apiV1Host      = "https://api.soundcloud.com"
	apiV2Host      = "https://api-v2.soundcloud.com"
	defaultPageURL = "https://soundcloud.com/"

	userAgent = "Soundbridge/1.0"

	// listingTTL keeps user listings fresh while still absorbing bursts of
	// browse requests; selectionsTTL matches how often Explore rotates.
	listingTTL    = 10 * time.Second
	selectionsTTL = 10 * time.Minute
)

// Client talks to both SoundCloud API generations: api-v1 with the user's
// OAuth token and the standard application client id, and api-v2 with a
// client id scraped from the public web application.
type Client struct {
	cfg     *config.Manager
	cache   cache.Cache
	oauth   *Session
	public  *Session
	pageURL string
}

// New creates a client from the configured auth token. The token is read
// from the manager on every request, so config reloads pick up new tokens.
func New(cfg *config.Manager, c cache.Cache) *Client {
	headers := func() map[string]string {
		return map[string]string{
			"Authorization": "OAuth " + cfg.Get().SoundCloud.AuthToken,
		}
	}
	return &Client{
		cfg:     cfg,
		cache:   c,
		oauth:   NewSession(apiV1Host, AppClientID, headers),
		public:  NewSession(apiV2Host, "", nil),
		pageURL: defaultPageURL,
	}
}

func (c *Client) limitParams() url.Values {
	return url.Values{"limit": {strconv.Itoa(c.cfg.ExploreSongs())}}
}

func userPath(userID string) string {
	if userID == "" {
		return "me"
	}
	return "users/" + userID
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*music.User, error) {
	var cached music.User
	if cache.GetJSON(ctx, c.cache, "soundcloud:me", &cached) {
		return &cached, nil
	}
	var u User
	if err := c.oauth.Get(ctx, "me", nil, &u); err != nil {
		if errors.Is(err, ErrAuth) {
			slog.Error(`Invalid "auth_token" used for SoundCloud authentication!`)
		}
		return nil, err
	}
	user := parseUser(&u)
	cache.SetJSON(ctx, c.cache, "soundcloud:me", user, c.cfg.CacheTTL())
	return user, nil
}

// UserStream returns the tracks from the authenticated user's activity feed.
func (c *Client) UserStream(ctx context.Context) ([]*music.Track, error) {
	var cached []*music.Track
	if cache.GetJSON(ctx, c.cache, "soundcloud:stream", &cached) {
		return cached, nil
	}
	var feed collection[activity]
	if err := c.oauth.Get(ctx, "me/activities", c.limitParams(), &feed); err != nil {
		return nil, err
	}
	var tracks []*music.Track
	for _, entry := range feed.Collection {
		if entry.Origin == nil {
			continue
		}
		switch entry.Origin.Kind {
		case "track":
			if parsed := parseTrack(&entry.Origin.Track); parsed != nil {
				tracks = append(tracks, parsed)
			}
		case "playlist":
			tracks = append(tracks, parseTracks(entry.Origin.Tracks)...)
		}
	}
	cache.SetJSON(ctx, c.cache, "soundcloud:stream", tracks, listingTTL)
	return tracks, nil
}

// Followings returns the users the given user follows.
func (c *Client) Followings(ctx context.Context, userID string) ([]*music.User, error) {
	key := "soundcloud:followings:" + userPath(userID)
	var cached []*music.User
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return cached, nil
	}
	var follows collection[User]
	if err := c.oauth.Get(ctx, userPath(userID)+"/followings", c.limitParams(), &follows); err != nil {
		return nil, err
	}
	users := make([]*music.User, 0, len(follows.Collection))
	for i := range follows.Collection {
		u := parseUser(&follows.Collection[i])
		slog.Debug("Fetched followed user", "username", u.Username, "id", u.ID)
		users = append(users, u)
	}
	cache.SetJSON(ctx, c.cache, key, users, listingTTL)
	return users, nil
}

// Favorites returns the tracks a user has liked.
func (c *Client) Favorites(ctx context.Context, userID string) ([]*music.Track, error) {
	key := "soundcloud:favorites:" + userPath(userID)
	var cached []*music.Track
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return cached, nil
	}
	var likes []resolvedItem
	if err := c.oauth.Get(ctx, userPath(userID)+"/favorites", c.limitParams(), &likes); err != nil {
		return nil, err
	}
	tracks := parseResults(likes)
	cache.SetJSON(ctx, c.cache, key, tracks, listingTTL)
	return tracks, nil
}

// UserTracks returns the tracks a user has uploaded.
func (c *Client) UserTracks(ctx context.Context, userID string) ([]*music.Track, error) {
	key := "soundcloud:tracks:" + userPath(userID)
	var cached []*music.Track
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return cached, nil
	}
	var raw []Track
	if err := c.oauth.Get(ctx, userPath(userID)+"/tracks", c.limitParams(), &raw); err != nil {
		return nil, err
	}
	tracks := parseTracks(raw)
	cache.SetJSON(ctx, c.cache, key, tracks, listingTTL)
	return tracks, nil
}

// UserSets returns the playlists a user owns.
func (c *Client) UserSets(ctx context.Context, userID string) ([]*music.Playlist, error) {
	key := "soundcloud:sets:" + userPath(userID)
	var cached []*music.Playlist
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return cached, nil
	}
	var raw []Playlist
	if err := c.oauth.Get(ctx, userPath(userID)+"/playlists", c.limitParams(), &raw); err != nil {
		return nil, err
	}
	sets := make([]*music.Playlist, 0, len(raw))
	for i := range raw {
		set := parsePlaylist(&raw[i])
		slog.Debug("Fetched set", "title", set.Title, "id", set.ID, "tracks", len(set.Tracks))
		sets = append(sets, set)
	}
	cache.SetJSON(ctx, c.cache, key, sets, listingTTL)
	return sets, nil
}

// Set returns one playlist with its tracks. Full results only come back
// through api-v1 with the standard application client id.
func (c *Client) Set(ctx context.Context, setID string) (*music.Playlist, error) {
	key := "soundcloud:set:" + setID
	var cached music.Playlist
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return &cached, nil
	}
	var raw Playlist
	if err := c.oauth.Get(ctx, "playlists/"+setID, nil, &raw); err != nil {
		return nil, err
	}
	set := parsePlaylist(&raw)
	cache.SetJSON(ctx, c.cache, key, set, c.cfg.CacheTTL())
	return set, nil
}

// SetTracks returns the tracks of one playlist.
func (c *Client) SetTracks(ctx context.Context, setID string) ([]*music.Track, error) {
	set, err := c.Set(ctx, setID)
	if err != nil {
		return nil, err
	}
	return set.Tracks, nil
}

// Track fetches one wire track, trying the public api-v2 first (it carries
// the media block needed for streaming) and falling back to api-v1.
func (c *Client) Track(ctx context.Context, trackID string) (*Track, error) {
	slog.Debug("Getting info for track", "id", trackID)

	var v2 Track
	if err := c.publicGet(ctx, "tracks/"+trackID, nil, &v2); err == nil && len(v2.Media.Transcodings) > 0 {
		return &v2, nil
	}

	slog.Debug("Public api-v2 track fetch failed, falling back to api-v1", "id", trackID)
	var t Track
	if err := c.oauth.Get(ctx, "tracks/"+trackID, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParsedTrack returns one track in domain form, or nil when the track exists
// but cannot be streamed.
func (c *Client) ParsedTrack(ctx context.Context, trackID string) (*music.Track, error) {
	key := "soundcloud:track:" + trackID
	var cached music.Track
	if cache.GetJSON(ctx, c.cache, key, &cached) {
		return &cached, nil
	}
	raw, err := c.Track(ctx, trackID)
	if err != nil {
		return nil, err
	}
	track := parseTrack(raw)
	if track != nil {
		cache.SetJSON(ctx, c.cache, key, track, c.cfg.CacheTTL())
	}
	return track, nil
}

// TracksBatch fetches several tracks in one api-v2 request, falling back to
// one-at-a-time fetches when the batch request fails.
func (c *Client) TracksBatch(ctx context.Context, trackIDs []int64) ([]*music.Track, error) {
	ids := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	slog.Debug("Getting info for tracks", "ids", strings.Join(ids, ","))

	var raw []Track
	params := url.Values{"ids": {strings.Join(ids, ",")}}
	if err := c.publicGet(ctx, "tracks", params, &raw); err == nil && len(raw) > 0 {
		return parseTracks(raw), nil
	}

	var tracks []*music.Track
	for _, id := range ids {
		parsed, err := c.ParsedTrack(ctx, id)
		if err != nil {
			slog.Debug("Batch fallback fetch failed", "id", id, "error", err)
			continue
		}
		if parsed != nil {
			tracks = append(tracks, parsed)
		}
	}
	return tracks, nil
}

// Search queries tracks by free text through api-v1.
func (c *Client) Search(ctx context.Context, query string) ([]*music.Track, error) {
	var raw []Track
	params := c.limitParams()
	params.Set("q", query)
	if err := c.oauth.Get(ctx, "tracks", params, &raw); err != nil {
		return nil, err
	}
	return parseTracks(raw), nil
}

// ResolveURL resolves a soundcloud.com page URL into its tracks.
func (c *Client) ResolveURL(ctx context.Context, pageURL string) ([]*music.Track, error) {
	var item resolvedItem
	params := url.Values{"url": {pageURL}}
	if err := c.oauth.Get(ctx, "resolve", params, &item); err != nil {
		return nil, err
	}
	return parseResults([]resolvedItem{item}), nil
}

// Selections returns the Explore rows with their playlists.
func (c *Client) Selections(ctx context.Context) ([]*music.Selection, error) {
	var cached []*music.Selection
	if cache.GetJSON(ctx, c.cache, "soundcloud:selections", &cached) {
		return cached, nil
	}
	var explored collection[selection]
	if err := c.publicGet(ctx, "mixed-selections", c.limitParams(), &explored); err != nil {
		return nil, err
	}
	selections := make([]*music.Selection, 0, len(explored.Collection))
	for _, sel := range explored.Collection {
		parsed := &music.Selection{ID: sel.ID, Title: sel.Title}
		if sel.Items != nil {
			for i := range sel.Items.Collection {
				parsed.Playlists = append(parsed.Playlists, parsePlaylist(&sel.Items.Collection[i]))
			}
		}
		slog.Debug("Fetched selection", "title", parsed.Title, "id", parsed.ID, "playlists", len(parsed.Playlists))
		selections = append(selections, parsed)
	}
	cache.SetJSON(ctx, c.cache, "soundcloud:selections", selections, selectionsTTL)
	return selections, nil
}

// StreamForTrack resolves a track id straight to a playable stream.
func (c *Client) StreamForTrack(ctx context.Context, trackID string) (*music.Stream, error) {
	track, err := c.Track(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return c.ResolveStream(ctx, track)
}

// ResolveStream exchanges a track's preferred transcoding for a signed
// stream URL. When the public client id fails it is refreshed once; when no
// transcoding works the api-v1 stream_url redirect flow is the last resort.
func (c *Client) ResolveStream(ctx context.Context, track *Track) (*music.Stream, error) {
	transcoding := pickTranscoding(track.Media.Transcodings, defaultCompressionPref, c.cfg.StreamPref())
	if transcoding != nil {
		info, err := c.exchangeTranscoding(ctx, track, transcoding)
		if err == nil {
			return info, nil
		}
		slog.Info("Streaming with public client id failed, trying standard application client id", "error", err)
	}
	return c.resolveStreamV1(ctx, track)
}

func (c *Client) exchangeTranscoding(ctx context.Context, track *Track, transcoding *Transcoding) (*music.Stream, error) {
	params := url.Values{}
	if track.TrackAuthorization != "" {
		params.Set("track_authorization", track.TrackAuthorization)
	}
	var stream streamResponse
	if err := c.publicGetURL(ctx, transcoding.URL, params, &stream); err != nil {
		return nil, err
	}
	if stream.URL == "" {
		return nil, fmt.Errorf("soundcloud: empty stream url for track %d", track.ID)
	}
	return &music.Stream{
		URL:      stream.URL,
		Protocol: transcoding.Format.Protocol,
		MimeType: transcoding.Format.MimeType,
		Preview:  track.Snipped() || transcoding.Snipped,
	}, nil
}

// resolveStreamV1 follows the legacy stream_url redirect with the standard
// application client id. Quickly yields rate limit errors.
func (c *Client) resolveStreamV1(ctx context.Context, track *Track) (*music.Stream, error) {
	streamURL := track.StreamURL
	if streamURL == "" {
		var full Track
		if err := c.oauth.Get(ctx, "tracks/"+strconv.FormatInt(track.ID, 10), nil, &full); err != nil {
			return nil, err
		}
		streamURL = full.StreamURL
	}
	if streamURL == "" {
		return nil, fmt.Errorf("soundcloud: track %d has no stream url", track.ID)
	}

	res, err := c.oauth.Head(ctx, streamURL+"?client_id="+AppClientID)
	if err != nil {
		return nil, err
	}
	switch res.StatusCode {
	case http.StatusFound:
		location := res.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("soundcloud: redirect without location for track %d", track.ID)
		}
		return &music.Stream{
			URL:      location,
			Protocol: "progressive",
			MimeType: "audio/mpeg",
			Preview:  track.Snipped(),
		}, nil
	case http.StatusTooManyRequests:
		slog.Warn("SoundCloud daily rate limit exceeded on application client id")
		return nil, ErrRateLimited
	default:
		return nil, statusErr(res.StatusCode, streamURL)
	}
}

// FetchPage fetches a raw document, such as an HLS playlist, without API
// parameter handling.
func (c *Client) FetchPage(ctx context.Context, rawurl string) ([]byte, error) {
	return c.public.GetPage(ctx, rawurl)
}

func (c *Client) ensurePublicClientID(ctx context.Context) error {
	if c.public.ClientID() != "" {
		return nil
	}
	return c.refreshPublicClientID(ctx)
}

// publicGet performs an api-v2 request. Scraped client ids go stale; on an
// auth or rate limit rejection the id is refreshed once and the request
// retried.
func (c *Client) publicGet(ctx context.Context, path string, params url.Values, out any) error {
	return c.publicGetURL(ctx, c.public.host+"/"+path, params, out)
}

func (c *Client) publicGetURL(ctx context.Context, rawurl string, params url.Values, out any) error {
	if err := c.ensurePublicClientID(ctx); err != nil {
		return err
	}
	err := c.public.GetURL(ctx, rawurl, params, out)
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrRateLimited) {
		c.invalidatePublicClientID(ctx)
		if err := c.refreshPublicClientID(ctx); err != nil {
			return err
		}
		err = c.public.GetURL(ctx, rawurl, params, out)
	}
	return err
}
