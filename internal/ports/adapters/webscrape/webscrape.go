package webscrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	DefaultBaseURL = "https://www.youtube.com"

	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
	requestTimeout = 15 * time.Second
	maxPageBytes   = 16 << 20
)

// Searcher scrapes the public results page. The page layout is not a
// stable interface; ExtractVideos absorbs drift as fewer results.
type Searcher struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type Option func(*Searcher)

func WithBaseURL(u string) Option { return func(s *Searcher) { s.baseURL = u } }

func WithHTTPClient(c *http.Client) Option { return func(s *Searcher) { s.client = c } }

// WithRateLimit spaces outbound page fetches; perMinute <= 0 disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(s *Searcher) {
		if perMinute <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perMinute)/60, 1)
	}
}

func New(opts ...Option) *Searcher {
	s := &Searcher{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(30)/60, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Searcher) Search(ctx context.Context, query string, bucket types.DurationBucket, max int) ([]types.Video, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return []types.Video{}, fmt.Errorf("search rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL(s.baseURL, query, bucket), nil)
	if err != nil {
		return []types.Video{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := s.client.Do(req)
	if err != nil {
		return []types.Video{}, fmt.Errorf("fetch results page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return []types.Video{}, fmt.Errorf("results page status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return []types.Video{}, fmt.Errorf("read results page: %w", err)
	}
	return discovery.ExtractVideos(string(b), max)
}

// sp values are already percent-encoded.
func searchURL(base, query string, bucket types.DurationBucket) string {
	u := base + "/results?search_query=" + url.QueryEscape(query)
	if sp := discovery.BucketParam(bucket); sp != "" {
		u += "&sp=" + sp
	}
	return u
}
