// Package branding downloads the partner logos shown in the dashboard
// footer. A failed download is reported to the page, never fatal.
package branding

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sustrend/zeroe-viz/internal/monitoring"
	"github.com/sustrend/zeroe-viz/internal/resilience"
)

// maxLogoBytes bounds a single logo download.
const maxLogoBytes = 5 << 20

// Logo is a downloaded and decoded-checked image.
type Logo struct {
	Name        string
	URL         string
	ContentType string
	Width       int
	Height      int
	Data        []byte
}

// Options configures a Fetcher.
type Options struct {
	Logos     map[string]string // name -> URL
	Timeout   time.Duration
	Retry     resilience.RetryConfig
	UserAgent string
	Client    *http.Client
}

// Fetcher retrieves logos over HTTP with retry, a shared rate limit and an
// in-memory cache of successful downloads.
type Fetcher struct {
	urls    map[string]string
	names   []string
	client  *http.Client
	retry   resilience.RetryConfig
	agent   string
	limiter *rate.Limiter
	cache   *lru.Cache[string, Logo]

	mu      sync.Mutex
	lastErr map[string]error
}

// NewFetcher creates a Fetcher for the configured logos.
func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "zeroe-viz/1.0"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	names := make([]string, 0, len(opts.Logos))
	for name := range opts.Logos {
		names = append(names, name)
	}
	sort.Strings(names)

	size := len(names)
	if size == 0 {
		size = 1
	}
	cache, err := lru.New[string, Logo](size)
	if err != nil {
		return nil, eris.Wrap(err, "branding: create cache")
	}

	return &Fetcher{
		urls:    opts.Logos,
		names:   names,
		client:  client,
		retry:   opts.Retry,
		agent:   opts.UserAgent,
		limiter: rate.NewLimiter(rate.Limit(4), 4),
		cache:   cache,
		lastErr: make(map[string]error),
	}, nil
}

// Names returns the configured logo names in display order.
func (f *Fetcher) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Fetch returns the named logo, downloading it on first use.
func (f *Fetcher) Fetch(ctx context.Context, name string) (Logo, error) {
	url, ok := f.urls[name]
	if !ok {
		return Logo{}, eris.Errorf("branding: unknown logo %q", name)
	}
	if logo, ok := f.cache.Get(name); ok {
		monitoring.CacheHits.WithLabelValues("logo").Inc()
		return logo, nil
	}
	monitoring.CacheMisses.WithLabelValues("logo").Inc()

	retry := f.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("branding: fetch " + name)
	}
	data, err := resilience.Do(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return f.download(ctx, url)
	})
	if err != nil {
		f.record(name, err)
		return Logo{}, eris.Wrapf(err, "branding: fetch %s", name)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		err = eris.Wrapf(err, "branding: decode %s", name)
		f.record(name, err)
		return Logo{}, err
	}

	logo := Logo{
		Name:        name,
		URL:         url,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Data:        data,
	}
	f.cache.Add(name, logo)
	f.record(name, nil)
	return logo, nil
}

// FetchAll downloads every configured logo concurrently. It returns the
// logos that succeeded, in display order, and the first failure.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Logo, error) {
	return f.fetchEach(ctx, f.names)
}

// Available returns the cached logos in display order and the first
// recorded failure. Only logos that were never attempted are downloaded;
// failed ones are left to Run.
func (f *Fetcher) Available(ctx context.Context) ([]Logo, error) {
	var untried []string
	f.mu.Lock()
	for _, name := range f.names {
		if _, tried := f.lastErr[name]; !tried && !f.cache.Contains(name) {
			untried = append(untried, name)
		}
	}
	f.mu.Unlock()
	if len(untried) > 0 {
		_, _ = f.fetchEach(ctx, untried)
	}

	logos := make([]Logo, 0, len(f.names))
	var firstErr error
	for _, name := range f.names {
		if logo, ok := f.cache.Get(name); ok {
			logos = append(logos, logo)
			continue
		}
		if err := f.LastError(name); err != nil && firstErr == nil {
			firstErr = eris.Wrapf(err, "branding: %s unavailable", name)
		}
	}
	return logos, firstErr
}

func (f *Fetcher) fetchEach(ctx context.Context, names []string) ([]Logo, error) {
	results := make([]Logo, len(names))
	ok := make([]bool, len(names))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	var firstErr error
	for i, name := range names {
		g.Go(func() error {
			logo, err := f.Fetch(gctx, name)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			results[i] = logo
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	logos := make([]Logo, 0, len(results))
	for i, l := range results {
		if ok[i] {
			logos = append(logos, l)
		}
	}
	return logos, firstErr
}

// LastError returns the most recent failure for name, or nil.
func (f *Fetcher) LastError(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr[name]
}

func (f *Fetcher) record(name string, err error) {
	status := monitoring.StatusSuccess
	if err != nil {
		status = monitoring.StatusError
		zap.L().Warn("branding: logo unavailable",
			zap.String("logo", name),
			zap.Error(err),
		)
	}
	monitoring.LogoFetchTotal.WithLabelValues(name, status).Inc()

	f.mu.Lock()
	f.lastErr[name] = err
	f.mu.Unlock()
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", f.agent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "http get")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := eris.Errorf("http %d from %s", resp.StatusCode, url)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	return data, nil
}
