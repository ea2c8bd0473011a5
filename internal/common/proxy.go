package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"minestats/internal/metrics"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second

type Proxy struct {
	service     string
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
}

// Create a proxy for one upstream service. The service name only labels
// logs and metrics. Without restrictions no rate limiting is performed
func NewProxy(service string, header map[string]string, timeout time.Duration, restrictions []Restriction) *Proxy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	proxy := &Proxy{
		service: service,
		header:  header,
		client:  &http.Client{Timeout: timeout},
	}
	if len(restrictions) > 0 {
		proxy.rateLimiter = NewRateLimiter(restrictions, time.Minute)
	}
	return proxy
}

// Make a GET request to the provided url and return the body of a 200 response.
// 204 and 404 mean the upstream has nothing for this url (ErrNotFound),
// anything else that is not a 200 is an ErrTransport
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	// Ask for permission to execute the request and wait if necessary
	if proxy.rateLimiter != nil {
		if err := proxy.rateLimiter.Wait(ctx); err != nil {
			metrics.RateLimited(proxy.service)
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrTransport, err)
		}
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: could not create request for url %s: %w", ErrTransport, url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}
	request.Header.Set("Accept", "application/json")

	// Perform the request
	log.Debug().Str("service", proxy.service).Msg(fmt.Sprintf("Requesting url %s", url))
	start := time.Now()
	res, err := proxy.client.Do(request)
	if err != nil {
		metrics.Upstream(proxy.service, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()
	metrics.Upstream(proxy.service, res.StatusCode, time.Since(start))
	log.Debug().Str("service", proxy.service).Msg(fmt.Sprintf("%d %s", res.StatusCode, http.StatusText(res.StatusCode)))

	switch res.StatusCode {
	case http.StatusOK:
		stream, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: could not read the response for url %s: %w", ErrTransport, url, err)
		}
		return stream, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s answered %d", ErrNotFound, proxy.service, res.StatusCode)
	case http.StatusTooManyRequests:
		metrics.RateLimited(proxy.service)
		if proxy.rateLimiter != nil {
			proxy.rateLimiter.ReceivedRateLimit(retryAfter(res.Header.Get("Retry-After")))
		}
		return nil, fmt.Errorf("%w: %s is rate limiting us", ErrTransport, proxy.service)
	default:
		return nil, fmt.Errorf("%w: %s answered %d %s", ErrTransport, proxy.service, res.StatusCode, http.StatusText(res.StatusCode))
	}
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
