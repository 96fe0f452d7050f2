package soundcloud

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/contre95/soundbridge/src/features/metrics"
)

const clientIDCacheKey = "soundcloud:public_client_id"

var (
	scriptSrcRe = regexp.MustCompile(`<script[^>]+src="([^"]+)"`)
	clientIDRe  = regexp.MustCompile(`client_id=([a-zA-Z0-9]{16,})`)
)

// refreshPublicClientID scrapes a client id usable for publicly available
// tracks from the soundcloud.com application bundles and installs it on the
// public session.
func (c *Client) refreshPublicClientID(ctx context.Context) error {
	if cached, ok := c.cache.Get(ctx, clientIDCacheKey); ok && cached != c.public.ClientID() {
		slog.Debug("Using cached SoundCloud public client id")
		c.public.SetClientID(cached)
		return nil
	}

	page, err := c.public.GetPage(ctx, c.pageURL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", c.pageURL, err)
	}

	for _, match := range scriptSrcRe.FindAllSubmatch(page, -1) {
		src := string(match[1])
		script, err := c.public.GetPage(ctx, src)
		if err != nil {
			slog.Debug("Failed to fetch script while scraping client id", "url", src, "error", err)
			continue
		}
		if m := clientIDRe.FindSubmatch(script); m != nil {
			id := string(m[1])
			c.public.SetClientID(id)
			c.cache.Set(ctx, clientIDCacheKey, id, 24*time.Hour)
			metrics.ClientIDRefreshes.Inc()
			slog.Debug("Updated SoundCloud public client id", "client_id", id[:8]+"...")
			return nil
		}
	}

	return fmt.Errorf("public client id not found on %s", c.pageURL)
}

// invalidatePublicClientID drops the cached id so the next refresh scrapes anew.
func (c *Client) invalidatePublicClientID(ctx context.Context) {
	c.cache.Delete(ctx, clientIDCacheKey)
	c.public.SetClientID("")
}
