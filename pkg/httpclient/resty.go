package httpclient

import (
	"context"
	"net/http"
	"time"

	"strategy-backtest/pkg/logger"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	client *resty.Client
	log    *logger.Logger
}

// New builds a resty-backed client with a hard timeout and bounded retry.
// Only 5xx responses and transport errors are retried; 4xx responses are
// returned to the caller as-is.
func New(log *logger.Logger, baseURL string, timeout time.Duration, retry RetryOptions) HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	if retry.MaxRetries > 0 {
		client.
			SetRetryCount(retry.MaxRetries).
			SetRetryWaitTime(retry.WaitTime).
			SetRetryMaxWaitTime(retry.MaxWaitTime).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() >= http.StatusInternalServerError
			}).
			AddRetryHook(func(r *resty.Response, err error) {
				log.Warn("Retrying upstream request",
					logger.StringField("url", r.Request.URL),
					logger.IntField("attempt", r.Request.Attempt),
					logger.ErrorField(err),
				)
			})
	}

	return &RestyClient{client: client, log: log}
}

func (rc *RestyClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().SetContext(ctx).SetResult(result)

	if queryParams != nil {
		req.SetQueryParams(queryParams)
	}
	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, err
	}
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}

func (rc *RestyClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*BaseResponse, error) {
	req := rc.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result)

	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Post(endpoint)
	if err != nil {
		return nil, err
	}
	return &BaseResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}
