package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Option customizes the underlying resty.Client.
type Option func(*resty.Client)

// WithLogger routes resty's internal diagnostics to the given logger.
// *zap.SugaredLogger satisfies resty.Logger.
func WithLogger(l resty.Logger) Option {
	return func(c *resty.Client) {
		if l != nil {
			c.SetLogger(l)
		}
	}
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
// A zero timeout leaves requests unbounded.
func NewRestyClient(timeout time.Duration, opts ...Option) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout, opts...)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration, opts ...Option) *resty.Client {
	return newRestyBaseClient(timeout, opts...)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout and no retries.
func newRestyBaseClient(timeout time.Duration, opts ...Option) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(0)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post performs a body-less HTTP POST request with the specified context, URL, and headers.
func (r *RestyClient) Post(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodPost, url, headers)
}

func (r *RestyClient) execute(ctx context.Context, method, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
