package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Clark-Hu/cinecraze/internal/metrics"
)

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("tmdb: not found")

// StatusError is returned for any other non-200 upstream answer.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned %d", e.Endpoint, e.Status)
}

// Time windows accepted by the trending endpoint.
const (
	WindowDay  = "day"
	WindowWeek = "week"
)

const maxResponseSize = 5 << 20 // 5 MiB

// Client defines the upstream calls the catalog relies on.
type Client interface {
	SearchMovies(ctx context.Context, query string, page int) (*ListResponse, error)
	DiscoverMovies(ctx context.Context, params DiscoverParams) (*ListResponse, error)
	TrendingMovies(ctx context.Context, window string, page int) (*ListResponse, error)
	PopularMovies(ctx context.Context, page int) (*ListResponse, error)
	Genres(ctx context.Context) (*GenreList, error)
	MovieDetails(ctx context.Context, id int) (*MovieDetails, error)
}

// Options configures HTTPClient.
type Options struct {
	Timeout   time.Duration
	RateLimit rate.Limit
	Burst     int
	Logger    *logrus.Logger
}

// HTTPClient implements Client over HTTP. A single attempt is made per call.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewHTTPClient constructs a new HTTP-backed TMDB client.
func NewHTTPClient(baseURL, apiKey string, opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", baseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// SearchMovies calls /search/movie. The endpoint accepts no attribute filters.
func (c *HTTPClient) SearchMovies(ctx context.Context, query string, page int) (*ListResponse, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))

	var out ListResponse
	if err := c.get(ctx, "search", "/search/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscoverMovies calls /discover/movie with attribute filters.
func (c *HTTPClient) DiscoverMovies(ctx context.Context, params DiscoverParams) (*ListResponse, error) {
	var out ListResponse
	if err := c.get(ctx, "discover", "/discover/movie", toValues(params.Params()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrendingMovies calls /trending/movie/{window}.
func (c *HTTPClient) TrendingMovies(ctx context.Context, window string, page int) (*ListResponse, error) {
	if window != WindowDay && window != WindowWeek {
		return nil, fmt.Errorf("tmdb: invalid trending window %q", window)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var out ListResponse
	if err := c.get(ctx, "trending", "/trending/movie/"+window, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PopularMovies calls /movie/popular.
func (c *HTTPClient) PopularMovies(ctx context.Context, page int) (*ListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var out ListResponse
	if err := c.get(ctx, "popular", "/movie/popular", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Genres calls /genre/movie/list.
func (c *HTTPClient) Genres(ctx context.Context) (*GenreList, error) {
	var out GenreList
	if err := c.get(ctx, "genres", "/genre/movie/list", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieDetails calls /movie/{id} with videos and credits composed into the
// same response.
func (c *HTTPClient) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "videos,credits")

	var out MovieDetails
	if err := c.get(ctx, "details", "/movie/"+strconv.Itoa(id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, endpointName, path string, query url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb: rate limit wait: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordUpstream(endpointName, "error", time.Since(start))
		return fmt.Errorf("tmdb: %s request: %w", endpointName, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstream(endpointName, strconv.Itoa(resp.StatusCode), time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		body := io.LimitReader(resp.Body, maxResponseSize)
		if err := json.NewDecoder(body).Decode(dst); err != nil {
			return fmt.Errorf("decode tmdb %s response: %w", endpointName, err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpointName,
			"path":     path,
			"status":   resp.StatusCode,
		}).Warn("tmdb: unexpected status")
		return &StatusError{Endpoint: endpointName, Status: resp.StatusCode}
	}
}
