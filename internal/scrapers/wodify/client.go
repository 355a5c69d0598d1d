package wodify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
	"wodassist-backend/internal/components/assert"
	"wodassist-backend/internal/components/metrics"
	"wodassist-backend/internal/components/restyutil"
	"wodassist-backend/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_call_api = "client.call-api"
	report_client_preload  = "client.preload"
)

const (
	DEFAULT_BASE_URL = "https://app.wodify.com/WodifyClient"
	DEFAULT_TIMEOUT  = 3 * time.Second

	// a call makes at most 1 + maxRetries attempts
	maxRetries = 1
)

var tracer = otel.Tracer("wodassist.scrapers.wodify")

// MetricsAPI receives the outcome of every call and resolution.
type MetricsAPI interface {
	RecordCall(operation, outcome string, duration time.Duration)
	RecordRetry(operation string)
	RecordResolution(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) RecordCall(string, string, time.Duration) {}
func (noopMetrics) RecordRetry(string)                       {}
func (noopMetrics) RecordResolution(string)                  {}

type clientOptions struct {
	tel       telemetry.API
	metrics   MetricsAPI
	timeout   time.Duration
	rateLimit rate.Limit
	burst     int
	dump      restyutil.Output
}

type ClientOption func(opts *clientOptions)

func WithCustomTelemetryAPI(tel telemetry.API) ClientOption {
	return func(opts *clientOptions) {
		opts.tel = tel
	}
}

func WithMetrics(m MetricsAPI) ClientOption {
	return func(opts *clientOptions) {
		opts.metrics = m
	}
}

// WithTimeout sets the timeout of the first attempt of a call, every retry
// gets a multiple of it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(opts *clientOptions) {
		opts.timeout = timeout
	}
}

// WithRateLimit limits the outbound request rate to perSecond, with bursts
// of up to burst requests.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(opts *clientOptions) {
		opts.rateLimit = rate.Limit(perSecond)
		opts.burst = burst
	}
}

// WithExchangeDump writes every http exchange with wodify to output.
func WithExchangeDump(output restyutil.Output) ClientOption {
	return func(opts *clientOptions) {
		opts.dump = output
	}
}

// Client is a stateless client for the wodify api, sessions are passed in
// explicitly so a single Client can be shared across users.
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	resolver *Resolver
	tel      telemetry.API
	metrics  MetricsAPI
	timeout  time.Duration
}

func NewClient(baseUrl string, opts ...ClientOption) (*Client, error) {
	assert.NotEmptyStr(baseUrl, "baseUrl")

	options := clientOptions{
		tel:       telemetry.SlogAPI{},
		metrics:   noopMetrics{},
		timeout:   DEFAULT_TIMEOUT,
		rateLimit: 10,
		burst:     10,
	}
	for _, opt := range opts {
		opt(&options)
	}
	assert.Positive(int64(options.timeout), "timeout")

	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseUrl)
	}

	tel := telemetry.NewScopedAPI("wodify_scraper", options.tel)

	httpClient := resty.New()
	// cookies belong to sessions, never to the client
	httpClient.SetCookieJar(nil)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")

	limiter := rate.NewLimiter(options.rateLimit, options.burst)
	telemetry.InstrumentResty(httpClient, tel)
	if options.dump != nil {
		restyutil.Dump(httpClient, options.dump)
	}

	return &Client{
		http:     httpClient,
		limiter:  limiter,
		resolver: newResolver(httpClient, limiter, parsed, tel, options.metrics),
		tel:      tel,
		metrics:  options.metrics,
		timeout:  options.timeout,
	}, nil
}

// Resolver exposes the endpoint resolver used by the client.
func (c *Client) Resolver() *Resolver {
	return c.resolver
}

// Preload resolves the endpoints ahead of the first call.
func (c *Client) Preload(ctx context.Context) error {
	start := time.Now()
	_, err := c.resolver.Resolve(ctx)
	if err != nil {
		c.tel.ReportBroken(report_client_preload, err)
		return err
	}
	c.tel.ReportDebug(fmt.Sprintf("preloaded endpoints in %s", time.Since(start)))
	return nil
}

// Endpoint returns the resolved endpoint of a single operation.
func (c *Client) Endpoint(ctx context.Context, op Operation) (Api, error) {
	cache, err := c.resolver.Resolve(ctx)
	if err != nil {
		return Api{}, err
	}
	api, ok := cache.Get(op)
	if !ok {
		return Api{}, &ResolutionError{Operation: op, Err: ErrEndpointNotFound}
	}
	return api, nil
}

type versionInfo struct {
	ApiVersion string `json:"apiVersion"`
}

// apiRequest is the envelope every wodify screen service accepts.
type apiRequest struct {
	VersionInfo     versionInfo `json:"versionInfo"`
	ViewName        string      `json:"viewName"`
	InputParameters any         `json:"inputParameters,omitempty"`
	ScreenData      any         `json:"screenData,omitempty"`
}

type screenData struct {
	Variables any `json:"variables"`
}

// attemptTimeout is the timeout of the nth (0 indexed) attempt of a call.
func (c *Client) attemptTimeout(attempt int) time.Duration {
	return c.timeout * time.Duration(attempt+1)
}

// callApi posts the request to the operation's endpoint with the session's
// credentials and returns the raw response.
//
// Every attempt gets its own timeout, a failed attempt (timeout or network
// error) is retried once with a longer timeout. Status codes are not
// interpreted here.
func (c *Client) callApi(ctx context.Context, op Operation, session *Session, req apiRequest) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "callApi")
	defer span.End()
	span.SetAttributes(attribute.String("operation", string(op)))

	api, err := c.Endpoint(ctx, op)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req.VersionInfo = versionInfo{ApiVersion: api.ApiVersion}
	body, err := json.Marshal(req)
	if err != nil {
		c.tel.ReportBroken(report_client_call_api, fmt.Errorf("json marshal: %w", err))
		return nil, err
	}

	csrfToken := ""
	cookie := ""
	if session != nil {
		csrfToken = session.CsrfToken
		cookie = session.Cookie
	}

	attempts := 0
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// throttling is local, it must not eat into the attempt's timeout
		err := c.limiter.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			err = fmt.Errorf("%s: %w: %w", op, ErrRateLimited, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if lastErr == nil {
				return nil, err
			}
			break
		}

		attempts++
		timeout := c.attemptTimeout(attempt)

		res, err := c.post(ctx, api.Endpoint, csrfToken, cookie, body, timeout)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempts))
			return res, nil
		}
		lastErr = err

		// the caller gave up, another attempt would be wasted
		if ctx.Err() != nil {
			break
		}
		if attempt < maxRetries {
			c.tel.ReportWarning(
				report_client_call_api,
				fmt.Errorf("%s: attempt %d (timeout %s): %w", op, attempts, timeout, err),
			)
			c.metrics.RecordRetry(string(op))
		}
	}

	terr := &TransportError{Operation: op, Attempts: attempts, Err: lastErr}
	c.tel.ReportBroken(report_client_call_api, terr)
	span.RecordError(terr)
	span.SetStatus(codes.Error, terr.Error())
	return nil, terr
}

func (c *Client) post(ctx context.Context, endpoint, csrfToken, cookie string, body []byte, timeout time.Duration) (*resty.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json; charset=UTF-8").
		SetHeader("x-csrftoken", csrfToken).
		SetHeader("cookie", cookie).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// call runs an operation end to end: call, error check and projection of
// the result. The outcome is recorded in the metrics.
func call[T any](ctx context.Context, c *Client, op Operation, session *Session, req apiRequest) (T, *resty.Response, error) {
	start := time.Now()

	var result T
	res, err := c.callApi(ctx, op, session, req)
	if err == nil {
		result, err = decodeResult[T](op, res)
	}
	c.metrics.RecordCall(string(op), outcomeOf(err), time.Since(start))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			c.tel.ReportBroken(report_client_call_api, err)
		}
		var empty T
		return empty, nil, err
	}
	return result, res, nil
}

func decodeResult[T any](op Operation, res *resty.Response) (T, error) {
	doc, err := checkResponse(op, res.StatusCode(), res.Body())
	if err != nil {
		var empty T
		return empty, err
	}
	return project[T](op, res.StatusCode(), doc)
}

func outcomeOf(err error) string {
	var (
		resolutionErr *ResolutionError
		transportErr  *TransportError
		domainErr     *DomainError
		parseErr      *ParseError
	)
	switch {
	case err == nil:
		return metrics.OUTCOME_OK
	case errors.Is(err, ErrRateLimited):
		return metrics.OUTCOME_THROTTLED
	case errors.As(err, &domainErr):
		return metrics.OUTCOME_DOMAIN
	case errors.As(err, &transportErr):
		return metrics.OUTCOME_TRANSPORT
	case errors.As(err, &parseErr):
		return metrics.OUTCOME_PARSE
	case errors.As(err, &resolutionErr):
		return metrics.OUTCOME_RESOLVE
	default:
		return metrics.OUTCOME_TRANSPORT
	}
}
