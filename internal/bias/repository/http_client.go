package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang-fundamental-bias/internal/bias/config"
	"golang-fundamental-bias/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// httpProvider is the rate limited client shared by every external data source.
type httpProvider struct {
	name           string
	cfg            config.Provider
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	timeout        time.Duration
}

func newHTTPProvider(name string, cfg config.Provider, log *logger.Logger) httpProvider {
	rpm := cfg.MaxRequestPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	secondsPerRequest := time.Minute / time.Duration(rpm)
	return httpProvider{
		name: name,
		cfg:  cfg,
		log:  log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		timeout:        timeout,
	}
}

// Name returns the provider name used in logs and provenance.
func (p *httpProvider) Name() string {
	return p.name
}

// Symbol returns the provider ticker configured for market, empty when unmapped.
func (p *httpProvider) Symbol(market string) string {
	return p.cfg.Symbols[market]
}

// waitForLimit waits for a request slot no longer than one request timeout.
func (p *httpProvider) waitForLimit(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.requestLimiter.Wait(waitCtx)
}

func (p *httpProvider) sendRequest(ctx context.Context, method string, rawURL string, accept string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("provider", p.name),
		zap.String("url", redactURL(rawURL)),
		zap.Int("max_request_per_minute", p.cfg.MaxRequestPerMinute),
	}

	if err := p.waitForLimit(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		p.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("%s rate limit wait: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		p.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		p.log.ErrorContext(ctx, "Failed to send request to provider", fields...)
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		p.log.ErrorContext(ctx, "Received non-OK response from provider", fields...)
		return nil, fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		p.log.ErrorContext(ctx, "Failed to read response body from provider", fields...)
		return nil, fmt.Errorf("%s read body: %w", p.name, err)
	}

	return body, nil
}

// redactURL hides credentials carried in the query string.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, key := range []string{"apiKey", "token", "api_key"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
