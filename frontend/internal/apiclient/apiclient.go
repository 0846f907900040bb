package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
	"github.com/tastelink/tastelink/shared/middleware/metrics"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

// APIClient talks to the remote REST store that owns posts and users.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client

	// limiter keeps us under the hosted store's request quota.
	limiter *rate.Limiter
	log     *slog.Logger
}

type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

func New(baseURL string, opts Options) *APIClient {
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, max(opts.Burst, 1)),
		log:        logger.Component("apiclient"),
	}
}

// do is the single helper every store call goes through. body, when not nil,
// is sent as JSON.
func (c *APIClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		metrics.ObserveStoreRequest(method, "error", time.Since(start))
		c.log.Warn("store request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	metrics.ObserveStoreRequest(method, strconv.Itoa(resp.StatusCode), time.Since(start))
	c.log.Debug("store request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(start))
	return resp, nil
}

// statusError turns a non-2xx response into an error carrying the upstream status.
func statusError(resp *http.Response, what string) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	logger.Log.Warn("store rejected request", "what", what, "status", resp.StatusCode, "body", string(snippet))
	return &internal_errors.ErrorWithStatusCode{
		Message:    fmt.Sprintf("%s failed: remote store answered %d", what, resp.StatusCode),
		StatusCode: resp.StatusCode,
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
