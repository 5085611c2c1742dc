package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and circuit breaker settings.
type HTTPClientConfig struct {
	Client *http.Client
	// BreakerMaxFailures is the number of consecutive failures that opens
	// the circuit. Zero disables the breaker.
	BreakerMaxFailures uint32
	// BreakerTimeout is how long the circuit stays open before it half-opens.
	BreakerTimeout time.Duration
}

var (
	// ErrCircuitOpen is wrapped in a transport FetchError while the breaker is open.
	ErrCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newBreaker(name string, cfg HTTPClientConfig) *gobreaker.CircuitBreaker {
	if cfg.BreakerMaxFailures == 0 {
		return nil
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	limit := cfg.BreakerMaxFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= limit
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess counts only transport errors and 5xx responses against
// the breaker. A 4xx means the upstream is healthy and the request is wrong.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	code, ok := weather.IsHTTPStatus(err)
	return ok && code < 500
}

// doRequest executes a single request through the circuit breaker and reads
// the body. Non-2xx responses become HTTP status FetchErrors, everything
// else that fails becomes a transport FetchError. There is no retry.
func doRequest(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, req *http.Request) ([]byte, error) {
	if cfg.Client == nil {
		return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: errNoHTTPClient}
	}
	req = req.WithContext(ctx)

	call := func() (interface{}, error) {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, &weather.FetchError{
				Kind:       weather.FetchHTTPStatus,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: err}
		}
		return body, nil
	}

	if cb == nil {
		result, err := call()
		if err != nil {
			return nil, err
		}
		return result.([]byte), nil
	}

	result, err := cb.Execute(call)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: fmt.Errorf("%w: %v", ErrCircuitOpen, err)}
		}
		return nil, err
	}
	body, ok := result.([]byte)
	if !ok {
		return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}
	return body, nil
}
