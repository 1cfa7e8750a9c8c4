package client

import (
	"context"
	neturl "net/url"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/httpclient"
	"treasury_checker/internal/infrastructure/ratelimit"
	"treasury_checker/internal/pkg/metrics"
	"treasury_checker/internal/pkg/retry"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configures one upstream adapter.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Gate paces every call to this upstream. Nil means unpaced.
	Gate   *ratelimit.Gate
	Policy retry.Policy
}

// upstream is the request plumbing shared by every adapter: pacing, retry,
// status classification and decoding.
type upstream struct {
	name    string
	baseURL string
	headers map[string]string
	timeout time.Duration
	doer    httpclient.Doer
	gate    *ratelimit.Gate
	policy  retry.Policy
	logger  *zap.Logger
}

func newUpstream(name string, doer httpclient.Doer, opts Options, defaultBase string, logger *zap.Logger) upstream {
	base := opts.BaseURL
	if base == "" {
		base = defaultBase
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	u := upstream{
		name:    name,
		baseURL: strings.TrimRight(base, "/"),
		headers: map[string]string{},
		timeout: opts.Timeout,
		doer:    doer,
		gate:    opts.Gate,
		policy:  opts.Policy,
		logger:  logger,
	}
	prev := u.policy.OnRetry
	u.policy.OnRetry = func(class retry.Class, n int, delay time.Duration, err error) {
		metrics.Retries.WithLabelValues(name, class.String()).Inc()
		u.logger.Info("Retrying upstream request",
			zap.String("class", class.String()),
			zap.Int("retry", n),
			zap.Duration("delay", delay),
			zap.Error(err))
		if prev != nil {
			prev(class, n, delay, err)
		}
	}
	return u
}

func (u *upstream) url(path string) string {
	return u.baseURL + "/" + strings.TrimLeft(path, "/")
}

// resource joins a fixed route with caller-supplied identifiers, each escaped
// as one path segment so an identifier can never change the route.
func (u *upstream) resource(route string, ids ...string) string {
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, strings.Trim(route, "/"))
	for _, id := range ids {
		parts = append(parts, neturl.PathEscape(id))
	}
	return u.url(strings.Join(parts, "/"))
}

// send performs one paced request without retry and returns the raw response.
func (u *upstream) send(ctx context.Context, method, url string, body []byte, timeout time.Duration) (*httpclient.Response, error) {
	if timeout <= 0 {
		timeout = u.timeout
	}
	call := func(ctx context.Context) (*httpclient.Response, error) {
		return u.doer.Fetch(ctx, httpclient.Request{
			Provider: u.name,
			Method:   method,
			URL:      url,
			Headers:  u.headers,
			Body:     body,
			Timeout:  timeout,
		})
	}
	if u.gate == nil {
		return call(ctx)
	}
	return ratelimit.Run(ctx, u.gate, call)
}

// fetch performs a paced request under the retry policy. Non-2xx statuses are errors.
func (u *upstream) fetch(ctx context.Context, url string, timeout time.Duration) (*httpclient.Response, error) {
	return retry.Do(ctx, u.policy, func(ctx context.Context) (*httpclient.Response, error) {
		resp, err := u.send(ctx, "GET", url, nil, timeout)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, entity.StatusError(resp.StatusCode, url)
		}
		return resp, nil
	})
}

// getJSON fetches url and decodes the body into out.
func (u *upstream) getJSON(ctx context.Context, url string, timeout time.Duration, out any) error {
	resp, err := u.fetch(ctx, url, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return entity.NewFetchError(entity.FailureParse, resp.StatusCode, url, err)
	}
	return nil
}

// miss logs a lookup that produced nothing. Absent results and upstream
// statuses are expected and stay at debug level.
func (u *upstream) miss(op, key string, err error) {
	kind := entity.KindOf(err)
	fields := []zap.Field{zap.String("op", op), zap.String("key", key), zap.Stringer("kind", kind)}
	switch kind {
	case entity.FailureAbsent, entity.FailureUpstream:
		u.logger.Debug("Upstream lookup returned no data", fields...)
	default:
		u.logger.Warn("Upstream lookup failed", append(fields, zap.Error(err))...)
	}
}

// failed converts an error into a failed Lookup after logging it.
func failed[T any](u *upstream, op, key string, err error) entity.Lookup[T] {
	u.miss(op, key, err)
	return entity.Failed[T](err)
}
