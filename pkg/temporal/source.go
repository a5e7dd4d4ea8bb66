package temporal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/beevik/ntp"
)

// Source is one external time authority in the fallback chain.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Fetch returns the source's current time, honoring ctx cancellation.
	Fetch(ctx context.Context) (time.Time, error)
}

// DefaultNTPServers is the default NTP fallback list.
var DefaultNTPServers = []string{
	"time.google.com",
	"time.cloudflare.com",
	"pool.ntp.org",
	"time.nist.gov",
}

// DefaultHTTPTimeURLs is the default HTTP Date-header fallback list.
var DefaultHTTPTimeURLs = []string{
	"https://www.google.com",
	"https://www.cloudflare.com",
	"https://www.github.com",
}

// NTPSource fetches time over NTP, trying each server in order.
type NTPSource struct {
	servers []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewNTPSource creates an NTP source with a per-server timeout.
func NewNTPSource(servers []string, timeout time.Duration) *NTPSource {
	if len(servers) == 0 {
		servers = DefaultNTPServers
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &NTPSource{
		servers: servers,
		timeout: timeout,
		logger:  slog.Default().With("component", "temporal.ntp"),
	}
}

func (s *NTPSource) Name() string { return "ntp" }

func (s *NTPSource) Fetch(ctx context.Context) (time.Time, error) {
	var lastErr error
	for _, server := range s.servers {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: s.timeout})
		if err != nil {
			s.logger.Debug("NTP server failed, trying next",
				"server", server,
				"error", err,
			)
			lastErr = err
			continue
		}
		if err := resp.Validate(); err != nil {
			lastErr = err
			continue
		}

		s.logger.Debug("NTP time verified", "server", server)
		return time.Now().Add(resp.ClockOffset), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no NTP servers configured")
	}
	return time.Time{}, fmt.Errorf("all NTP servers failed: %w", lastErr)
}

// HTTPSource fetches time from response Date headers, trying each URL in
// order.
type HTTPSource struct {
	urls   []string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPSource creates an HTTP Date-header source with a per-request
// timeout.
func NewHTTPSource(urls []string, timeout time.Duration) *HTTPSource {
	if len(urls) == 0 {
		urls = DefaultHTTPTimeURLs
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPSource{
		urls:   urls,
		client: &http.Client{Timeout: timeout},
		logger: slog.Default().With("component", "temporal.http"),
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) (time.Time, error) {
	var lastErr error
	for _, url := range s.urls {
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			lastErr = err
			continue
		}

		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.Debug("HTTP time source failed, trying next",
				"url", url,
				"error", err,
			)
			lastErr = err
			continue
		}
		resp.Body.Close()

		dateHeader := resp.Header.Get("Date")
		if dateHeader == "" {
			lastErr = fmt.Errorf("%s: no Date header", url)
			continue
		}

		parsed, err := http.ParseTime(dateHeader)
		if err != nil {
			lastErr = fmt.Errorf("%s: bad Date header: %w", url, err)
			continue
		}

		s.logger.Debug("HTTP time verified", "url", url)
		return parsed, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no HTTP time sources configured")
	}
	return time.Time{}, fmt.Errorf("all HTTP time sources failed: %w", lastErr)
}
