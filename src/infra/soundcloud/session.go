package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/contre95/soundbridge/src/features/metrics"
	"golang.org/x/time/rate"
)

var (
	ErrAuth        = errors.New("soundcloud: authorization failed")
	ErrNotFound    = errors.New("soundcloud: not found")
	ErrRateLimited = errors.New("soundcloud: rate limited")
	ErrThrottled   = errors.New("soundcloud: client-side throttled")
)

const (
	maxAttempts = 3
	startDelay  = 500 * time.Millisecond

	// HEAD requests against stream_url burn through the shared application
	// client id quota quickly; allow a burst of 3, then one per 10 seconds.
	headBurst  = 3
	headRefill = 10 * time.Second
)

// Session is an HTTP session against one SoundCloud API host. Requests carry
// the session's headers (OAuth token for api-v1) and client_id parameter.
type Session struct {
	host    string
	httpc   *http.Client
	headc   *http.Client // does not follow redirects
	headers func() map[string]string

	mu       sync.RWMutex
	clientID string

	headLimiter *rate.Limiter
}

// NewSession creates a session for the given API host. clientID may be empty
// for the public api-v2 session until one is scraped. headers is evaluated
// per request so credential changes from a config reload take effect.
func NewSession(host, clientID string, headers func() map[string]string) *Session {
	return &Session{
		host:    host,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		headc: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers:     headers,
		clientID:    clientID,
		headLimiter: rate.NewLimiter(rate.Every(headRefill), headBurst),
	}
}

// ClientID returns the session's current client id.
func (s *Session) ClientID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientID
}

// SetClientID replaces the session's client id.
func (s *Session) SetClientID(id string) {
	s.mu.Lock()
	s.clientID = id
	s.mu.Unlock()
}

// Get requests path relative to the session host and decodes the JSON
// response into out. Retries transient failures with exponential backoff.
func (s *Session) Get(ctx context.Context, path string, params url.Values, out any) error {
	return s.GetURL(ctx, s.host+"/"+path, params, out)
}

// GetURL requests an absolute URL; used for transcoding URLs that already
// point at the right host.
func (s *Session) GetURL(ctx context.Context, rawurl string, params url.Values, out any) error {
	body, _, err := s.fetch(ctx, rawurl, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("soundcloud: decoding %s: %w", rawurl, err)
	}
	return nil
}

// GetPage fetches a page as raw bytes, without the client_id parameter.
// Used for scraping soundcloud.com itself.
func (s *Session) GetPage(ctx context.Context, rawurl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	res, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, statusErr(res.StatusCode, rawurl)
	}
	return io.ReadAll(res.Body)
}

// Head issues a throttled HEAD request and returns the response without
// following redirects. The caller reads the Location header. Past the
// burst the limiter blocks until the next slot or the context ends.
func (s *Session) Head(ctx context.Context, rawurl string) (*http.Response, error) {
	if err := s.headLimiter.Wait(ctx); err != nil {
		slog.Debug("HEAD request throttled", "url", rawurl, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrThrottled, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawurl, nil)
	if err != nil {
		return nil, err
	}
	s.applyHeaders(req)
	res, err := s.headc.Do(req)
	if err != nil {
		return nil, err
	}
	res.Body.Close()
	metrics.APIRequests.WithLabelValues(req.URL.Host, strconv.Itoa(res.StatusCode)).Inc()
	return res, nil
}

func (s *Session) fetch(ctx context.Context, rawurl string, params url.Values) ([]byte, int, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, 0, err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	if id := s.ClientID(); id != "" {
		q.Set("client_id", id)
	}
	u.RawQuery = q.Encode()

	var lastErr error
	delay := startDelay
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, status, err := s.doOnce(ctx, u.String())
		if err == nil {
			return body, status, nil
		}
		lastErr = err
		// Auth and not-found failures are not transient.
		if errors.Is(err, ErrAuth) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrRateLimited) {
			return nil, status, err
		}
		slog.Debug("SoundCloud request retrying", "url", u.Redacted(), "attempt", attempt+1, "error", err)
	}
	return nil, 0, lastErr
}

func (s *Session) doOnce(ctx context.Context, rawurl string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, 0, err
	}
	s.applyHeaders(req)

	res, err := s.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	metrics.APIRequests.WithLabelValues(req.URL.Host, strconv.Itoa(res.StatusCode)).Inc()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, res.StatusCode, statusErr(res.StatusCode, req.URL.Redacted())
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	return body, res.StatusCode, nil
}

func (s *Session) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if s.headers == nil {
		return
	}
	for k, v := range s.headers() {
		req.Header.Set(k, v)
	}
}

func statusErr(status int, rawurl string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d for %s", ErrAuth, status, rawurl)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, rawurl)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, rawurl)
	default:
		return fmt.Errorf("soundcloud: unexpected status %d for %s", status, rawurl)
	}
}
