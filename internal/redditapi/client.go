// Package redditapi — HTTP-клиент Reddit API для ссылок из pkg/references.
//
// Клиент умеет только GET: он отдаёт сырое тело ответа, разбор остаётся за
// pkg/models. Ответы можно кэшировать в Redis (internal/cache).
package redditapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukestreet/JRAW/internal/cache"
	"github.com/dukestreet/JRAW/internal/config"
	"github.com/dukestreet/JRAW/internal/metrics"
	"github.com/dukestreet/JRAW/pkg/log"
	"github.com/dukestreet/JRAW/pkg/references"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — API ответил 404.
	ErrNotFound = errors.New("redditapi: not found")
	// ErrBodyTooLarge — тело ответа больше лимита.
	ErrBodyTooLarge = errors.New("redditapi: response body too large")
)

// StatusError — API ответил статусом, отличным от 200.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("redditapi: %s: unexpected status %d", e.Path, e.Code)
}

// Is делает 404 сопоставимым с ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client реализует references.Client поверх net/http.
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	userAgent string
	token     string
	maxBody   int64

	cache    cache.ResponseCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

var _ references.Client = (*Client)(nil)

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (тесты, прокси).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache включает кэширование успешных ответов на ttl.
func WithCache(rc cache.ResponseCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = rc
		c.cacheTTL = ttl
	}
}

// WithMetrics включает метрики обращений к API.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New создаёт клиент по конфигурации API.
func New(cfg config.APIConfig, opts ...Option) (*Client, error) {
	const op = "redditapi/New"

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, cfg.BaseURL)
	}

	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   base,
		userAgent: cfg.UserAgent,
		token:     cfg.Token,
		maxBody:   cfg.MaxBody,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get запрашивает path с query и возвращает тело ответа.
//
// К query всегда добавляется raw_json=1: без него API экранирует &, < и > в
// строках. Переданный query не изменяется.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	const op = "redditapi/Get"

	start := time.Now()
	lg := log.From(ctx)

	q, key := requestKey(path, query)

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			lg.Warn("api_cache_get_failed",
				slog.String("op", op),
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		case ok:
			c.metrics.ObserveAPI(metrics.ResultCacheHit, start)
			lg.Debug("api_cache_hit", slog.String("op", op), slog.String("path", path))
			return body, nil
		}
	}

	body, err := c.do(ctx, path, q)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, ErrNotFound) {
			result = metrics.ResultNotFound
		}
		c.metrics.ObserveAPI(result, start)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.ObserveAPI(metrics.ResultOK, start)
	lg.Debug("api_request_done",
		slog.String("op", op),
		slog.String("path", path),
		slog.Int("bytes", len(body)),
		slog.Duration("dur", time.Since(start)),
	)

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			lg.Warn("api_cache_set_failed",
				slog.String("op", op),
				slog.String("key", key),
				slog.String("err", err.Error()),
			)
		}
	}

	return body, nil
}

// Invalidate удаляет из кэша ответ на path с query, чтобы следующий Get
// пошёл в API. Без кэша ничего не делает.
func (c *Client) Invalidate(ctx context.Context, path string, query url.Values) error {
	const op = "redditapi/Invalidate"

	if c.cache == nil {
		return nil
	}

	_, key := requestKey(path, query)
	if err := c.cache.Invalidate(ctx, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// requestKey возвращает итоговый query (копия с raw_json=1) и ключ кэша.
func requestKey(path string, query url.Values) (url.Values, string) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("raw_json", "1")

	return q, path + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, path string, q url.Values) ([]byte, error) {
	// path уже экранирован ссылкой (url.PathEscape), склеиваем строки как есть.
	target := c.baseURL.String() + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("new_request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}

	r := io.Reader(resp.Body)
	if c.maxBody > 0 {
		r = io.LimitReader(resp.Body, c.maxBody+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read_body: %w", err)
	}

	if c.maxBody > 0 && int64(len(body)) > c.maxBody {
		return nil, ErrBodyTooLarge
	}

	return body, nil
}
