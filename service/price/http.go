package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpMaxAttempts = 3

// statusError reports a non-2xx HTTP response.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.status)
}

// retryable reports whether the status is worth another attempt (429 or 5xx).
func (e *statusError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// getJSON fetches a URL and decodes the JSON body into out, retrying network
// failures, 429s, and 5xx responses with exponential backoff. Other non-2xx
// statuses and malformed bodies fail immediately.
func getJSON(ctx context.Context, client *http.Client, url string, retryBase time.Duration, out any) error {
	var lastErr error

	for attempt := range httpMaxAttempts {
		if attempt > 0 {
			backoff := retryBase << uint(attempt-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = fetchOnce(ctx, client, url, out)
		if lastErr == nil {
			return nil
		}

		var se *statusError
		if errors.As(lastErr, &se) && !se.retryable() {
			return lastErr
		}
		var decodeErr *decodeError
		if errors.As(lastErr, &decodeErr) {
			return lastErr
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", httpMaxAttempts, lastErr)
}

// decodeError marks a body that arrived but could not be parsed; retrying
// will not help.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return fmt.Sprintf("failed to decode response: %v", e.err) }
func (e *decodeError) Unwrap() error { return e.err }

func fetchOnce(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &statusError{status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
