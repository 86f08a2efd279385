// Package universities searches the hipolabs university list through the
// AllOrigins proxy, and renders results to a panel.
package universities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultProxyURL    = "https://api.allorigins.win/get"
	DefaultUpstreamURL = "http://universities.hipolabs.com/search"
	DefaultTimeout     = 15 * time.Second
)

var (
	// ErrEmptyCountry is returned when the country is blank.
	ErrEmptyCountry = errors.New("please enter a country name")

	// ErrUpstream is returned when the proxy or upstream API fails.
	ErrUpstream = errors.New("upstream request failed")
)

// University is an entry of the hipolabs search result.
type University struct {
	Name          string   `json:"name" yaml:"name"`
	Country       string   `json:"country" yaml:"country"`
	AlphaTwoCode  string   `json:"alpha_two_code" yaml:"alpha_two_code"`
	Domains       []string `json:"domains" yaml:"domains"`
	WebPages      []string `json:"web_pages" yaml:"web_pages"`
	StateProvince *string  `json:"state-province" yaml:"state_province"`
}

// proxyResponse is the envelope returned by the AllOrigins get endpoint.
type proxyResponse struct {
	Contents string `json:"contents"`
	Status   struct {
		URL      string `json:"url"`
		HTTPCode int    `json:"http_code"`
	} `json:"status"`
}

// Client searches universities by country.
type Client struct {
	http        *http.Client
	proxyURL    string
	upstreamURL string
	limiter     *rate.Limiter
	cache       Cache
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithProxyURL sets the AllOrigins compatible proxy endpoint.
func WithProxyURL(u string) Option {
	return func(c *Client) {
		c.proxyURL = u
	}
}

// WithUpstreamURL sets the search endpoint fetched through the proxy.
func WithUpstreamURL(u string) Option {
	return func(c *Client) {
		c.upstreamURL = u
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil

			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache sets the cache consulted before requests are made.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger cache failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a Client using the public proxy and upstream endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		proxyURL:    DefaultProxyURL,
		upstreamURL: DefaultUpstreamURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

// Search returns the universities of country. The country is trimmed, and
// a blank country returns ErrEmptyCountry.
func (c *Client) Search(ctx context.Context, country string) ([]University, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, ErrEmptyCountry
	}

	key := strings.ToLower(country)
	if c.cache != nil {
		list, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Debug("Cache read failed",
				zap.String("country", key), zap.Error(err),
			)
		} else if ok {
			return list, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	list, err := c.fetch(ctx, country)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// A failing cache must not fail the search.
		if err := c.cache.Set(ctx, key, list); err != nil {
			c.logger.Debug("Cache write failed",
				zap.String("country", key), zap.Error(err),
			)
		}
	}

	return list, nil
}

// RequestURL returns the proxy URL requested for country.
func (c *Client) RequestURL(country string) string {
	upstream := c.upstreamURL + "?country=" + url.QueryEscape(country)

	return c.proxyURL + "?url=" + url.QueryEscape(upstream)
}

func (c *Client) fetch(ctx context.Context, country string) ([]University, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.RequestURL(country), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, fmt.Errorf("%w: proxy returned status %d",
			ErrUpstream, resp.StatusCode,
		)
	}

	var envelope proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid proxy response: %w", ErrUpstream, err)
	}

	if code := envelope.Status.HTTPCode; code != 0 && code != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned status %d",
			ErrUpstream, code,
		)
	}

	var list []University
	if err := json.Unmarshal([]byte(envelope.Contents), &list); err != nil {
		return nil, fmt.Errorf("%w: invalid upstream contents: %w",
			ErrUpstream, err,
		)
	}

	return list, nil
}

// Render returns one numbered line per university, starting at 1.
func Render(list []University) []string {
	lines := make([]string, len(list))
	for i, u := range list {
		lines[i] = fmt.Sprintf("%d. %s", i+1, u.Name)
	}

	return lines
}
