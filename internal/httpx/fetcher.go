package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// Default header set mimicking a desktop browser. hh.ru serves a stub page to
// clients that look like bots.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client fetches search pages over HTTP through Colly. It performs a single
// attempt per call: no retries, no backoff, no rate limiting.
type Client struct {
	userAgent string
	timeout   time.Duration
}

// FetchError reports an upstream HTTP failure.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	return fmt.Sprintf("fetch error (status %d): %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		userAgent: userAgent,
		timeout:   15 * time.Second,
	}
}

// FetchBytes issues a GET request and returns the raw body and HTTP status.
// A non-2xx status is not an error here; callers inspect the status and decide.
// The returned error is non-nil only when no response was obtained at all.
func (c *Client) FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, 0, err
	}
	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}

	col := colly.NewCollector(colly.UserAgent(c.userAgent))
	col.SetRequestTimeout(c.timeout)

	var (
		body    []byte
		status  int
		netErr  error
		aborted error
	)
	col.OnRequest(func(r *colly.Request) {
		if err := ctx.Err(); err != nil {
			aborted = err
			r.Abort()
			return
		}
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	})
	col.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	col.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
			body = append([]byte(nil), r.Body...)
		}
		netErr = err
	})

	reqErr := col.Visit(target)

	if aborted != nil {
		return nil, 0, aborted
	}
	if status == 0 {
		if netErr != nil {
			return nil, 0, netErr
		}
		if reqErr != nil {
			return nil, 0, reqErr
		}
		status = http.StatusOK
	}
	return body, status, nil
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}
