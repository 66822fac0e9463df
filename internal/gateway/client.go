package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// forwardedHeaders are copied from the client request to the server.
var forwardedHeaders = []string{"Content-Type", "X-Sharer-User-Id", requestIDHeader}

// ServerClient calls the ShareIt server on behalf of the gateway.
type ServerClient struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	logger     *zerolog.Logger
}

// Response is a buffered upstream reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func NewServerClient(baseURL string, timeout time.Duration, retry RetryPolicy, logger *zerolog.Logger) *ServerClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		logger:     logger,
	}
}

// Forward sends the request to the server. GET requests are retried with backoff on
// transport errors and 502/503/504; other methods are sent once.
func (c *ServerClient) Forward(ctx context.Context, method, pathAndQuery string, header http.Header, body []byte) (*Response, error) {
	attempts := 1
	if method == http.MethodGet {
		attempts = c.retry.attempts()
	}

	for attempt := 1; ; attempt++ {
		resp, err := c.do(ctx, method, pathAndQuery, header, body)
		switch {
		case err == nil && (!retryableStatus(resp.Status) || attempt >= attempts):
			return resp, nil
		case err != nil && attempt >= attempts:
			return nil, err
		case err == nil:
			err = fmt.Errorf("server responded %d", resp.Status)
		}

		delay := c.retry.NextDelay(attempt)
		c.logger.Warn().Err(err).Str("path", pathAndQuery).Int("attempt", attempt).Dur("delay", delay).Msg("retrying server call")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *ServerClient) do(ctx context.Context, method, pathAndQuery string, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathAndQuery, reader)
	if err != nil {
		return nil, err
	}
	for _, name := range forwardedHeaders {
		if v := header.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read server response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Ping checks that the server answers its health probe.
func (c *ServerClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", http.Header{}, nil)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return errors.New("server is not healthy")
	}
	return nil
}

func retryableStatus(status int) bool {
	return status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
}
