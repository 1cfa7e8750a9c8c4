package httpclient

import (
	"context"
	"errors"
	"net"
	"time"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/metrics"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// DefaultHeaders are sent with every request unless overridden.
var DefaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; treasury-checker/1.0)",
	"Accept":     "application/json",
}

// Request describes one upstream call.
type Request struct {
	Provider string
	Method   string
	URL      string
	Headers  map[string]string
	Body     []byte
	Timeout  time.Duration
}

// Response is a completed upstream call. Non-2xx responses are returned as-is.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer performs a single bounded HTTP call.
type Doer interface {
	Fetch(ctx context.Context, r Request) (*Response, error)
}

// Fetcher is a fasthttp-backed Doer. It never retries.
type Fetcher struct {
	client         *fasthttp.Client
	defaultTimeout time.Duration
	logger         *zap.Logger
}

// NewFetcher creates a Fetcher. A zero timeout uses 10s.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: &fasthttp.Client{
			MaxConnsPerHost:          64,
			MaxIdleConnDuration:      30 * time.Second,
			NoDefaultUserAgentHeader: true,
			// Callers escape path segments; normalizing would decode them again.
			DisablePathNormalizing: true,
		},
		defaultTimeout: timeout,
		logger:         logger.Named("Fetcher"),
	}
}

// Fetch runs r with a hard deadline of min(ctx deadline, r.Timeout).
// Cancelling ctx fails the call at once; the abandoned request still ends by
// its deadline. Transport failures come back as *entity.FetchError with
// FailureTimeout or FailureNetwork.
func (f *Fetcher) Fetch(ctx context.Context, r Request) (*Response, error) {
	provider := r.Provider
	if provider == "" {
		provider = "unknown"
	}
	if err := ctx.Err(); err != nil {
		return nil, entity.NewFetchError(contextKind(err), 0, r.URL, err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	type result struct {
		resp *Response
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		resp, err := f.do(r, deadline)
		done <- result{resp, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	metrics.UpstreamLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if res.err != nil {
		kind := classifyTransport(res.err)
		metrics.UpstreamRequests.WithLabelValues(provider, kind.String()).Inc()
		f.logger.Debug("Upstream request failed",
			zap.String("provider", provider),
			zap.String("url", r.URL),
			zap.Stringer("kind", kind),
			zap.Error(res.err))
		return nil, entity.NewFetchError(kind, 0, r.URL, res.err)
	}

	outcome := "ok"
	if !res.resp.OK() {
		outcome = entity.StatusError(res.resp.StatusCode, r.URL).Kind.String()
	}
	metrics.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	return res.resp, nil
}

// do performs the fasthttp round trip. It owns the pooled request and response.
func (f *Fetcher) do(r Request, deadline time.Time) (*Response, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.URL)
	method := r.Method
	if method == "" {
		method = fasthttp.MethodGet
	}
	req.Header.SetMethod(method)
	for k, v := range DefaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Body) > 0 {
		req.SetBody(r.Body)
		if len(req.Header.ContentType()) == 0 {
			req.Header.SetContentType("application/json")
		}
	}

	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, err
	}
	return &Response{
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}, nil
}

func classifyTransport(err error) entity.FailureKind {
	if errors.Is(err, context.Canceled) {
		return entity.FailureNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.FailureTimeout
	}
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return entity.FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return entity.FailureTimeout
	}
	return entity.FailureNetwork
}

func contextKind(err error) entity.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.FailureTimeout
	}
	return entity.FailureNetwork
}
