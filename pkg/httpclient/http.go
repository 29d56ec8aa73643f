package httpclient

import (
	"context"
	"net/http"
	"time"
)

type BaseResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// HTTPClient is the outbound HTTP surface used by repositories. Kept small
// so tests can stub it without a real network.
type HTTPClient interface {
	Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error)
	Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error)
}

// RetryOptions bounds how often a transient upstream failure is retried
// before it is surfaced to the caller.
type RetryOptions struct {
	MaxRetries  int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}
