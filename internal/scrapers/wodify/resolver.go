package wodify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"wodassist-backend/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	report_resolver_resolve      = "resolver.resolve"
	report_resolver_module_info  = "resolver.module-info"
	report_resolver_fetch_bundle = "resolver.fetch-bundle"
)

// resolution is detached from the caller that started it, this bounds it instead.
const resolveTimeout = 30 * time.Second

// Resolver discovers the signed endpoint path and api version of every
// Operation by scanning the client's script bundles.
//
// At most one resolution runs at a time and its outcome (success or failure)
// is kept for the lifetime of the Resolver, a new process is the only way to
// recover from a failed resolution.
type Resolver struct {
	http    *resty.Client
	limiter *rate.Limiter
	baseUrl *url.URL
	tel     telemetry.API
	metrics MetricsAPI

	group singleflight.Group

	lock     sync.Mutex
	resolved bool
	cache    EndpointCache
	err      error
}

func newResolver(http *resty.Client, limiter *rate.Limiter, baseUrl *url.URL, tel telemetry.API, metrics MetricsAPI) *Resolver {
	return &Resolver{
		http:    http,
		limiter: limiter,
		baseUrl: baseUrl,
		tel:     tel,
		metrics: metrics,
	}
}

func (r *Resolver) memoized() (EndpointCache, bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.cache, r.resolved, r.err
}

func (r *Resolver) memoize(cache EndpointCache, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.cache = cache
	r.err = err
	r.resolved = true
}

// Resolve returns the endpoint cache, resolving it first if this is the first
// call. Concurrent callers share a single resolution, a caller whose ctx is
// cancelled stops waiting but does not cancel the resolution for the others.
func (r *Resolver) Resolve(ctx context.Context) (EndpointCache, error) {
	cache, ok, err := r.memoized()
	if ok {
		return cache, err
	}

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan("endpoints", func() (any, error) {
		// another caller may have finished between memoized() and DoChan
		cache, ok, err := r.memoized()
		if ok {
			return cache, err
		}

		start := time.Now()
		buildCtx, cancel := context.WithTimeout(detached, resolveTimeout)
		defer cancel()

		cache, err = r.build(buildCtx)
		r.memoize(cache, err)
		if err != nil {
			r.tel.ReportBroken(report_resolver_resolve, err)
			r.metrics.RecordResolution(outcomeOf(err))
			return cache, err
		}

		r.tel.ReportDebug(fmt.Sprintf("resolved %d endpoints in %s", cache.Len(), time.Since(start)))
		r.metrics.RecordResolution(outcomeOf(nil))
		return cache, nil
	})

	select {
	case <-ctx.Done():
		return EndpointCache{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return EndpointCache{}, res.Err
		}
		return res.Val.(EndpointCache), nil
	}
}

func (r *Resolver) build(ctx context.Context) (EndpointCache, error) {
	info, err := r.moduleInfo(ctx)
	if err != nil {
		return EndpointCache{}, &ResolutionError{Err: fmt.Errorf("module info: %w", err)}
	}
	corpus, err := r.fetchBundles(ctx, info)
	if err != nil {
		return EndpointCache{}, &ResolutionError{Err: fmt.Errorf("fetch bundles: %w", err)}
	}
	cache, err := findEndpoints(r.baseUrl.String(), corpus)
	if err != nil {
		return EndpointCache{}, err
	}
	r.tel.ReportCount(report_resolver_resolve, int64(cache.Len()))
	return cache, nil
}

func (r *Resolver) moduleInfo(ctx context.Context) (moduleInfoResponse, error) {
	err := r.limiter.Wait(ctx)
	if err != nil {
		return moduleInfoResponse{}, err
	}
	res, err := r.http.R().
		SetContext(ctx).
		Get(r.baseUrl.JoinPath("moduleservices", "moduleinfo").String())
	if err != nil {
		return moduleInfoResponse{}, err
	}
	if res.IsError() {
		return moduleInfoResponse{}, fmt.Errorf("unexpected status: %s", res.Status())
	}

	var info moduleInfoResponse
	err = json.Unmarshal(res.Body(), &info)
	if err != nil {
		r.tel.ReportBroken(report_resolver_module_info, fmt.Errorf("json unmarshal: %w", err))
		return moduleInfoResponse{}, err
	}
	return info, nil
}

// bundleUrl returns the bundle's url with the version query the module info
// lists for it.
func (r *Resolver) bundleUrl(bundle string, info moduleInfoResponse) string {
	u := r.baseUrl.JoinPath("scripts", bundle)
	version, ok := info.Manifest.UrlVersions[u.Path]
	if !ok {
		r.tel.ReportWarning(report_resolver_fetch_bundle, fmt.Errorf("no version for bundle"), u.Path)
	}
	u.RawQuery = strings.TrimPrefix(version, "?")
	return u.String()
}

// fetchBundles fetches every bundle concurrently and concatenates them in
// list order, if any fetch fails the whole fetch fails.
func (r *Resolver) fetchBundles(ctx context.Context, info moduleInfoResponse) (string, error) {
	texts := make([]string, len(scriptBundles))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, bundle := range scriptBundles {
		target := r.bundleUrl(bundle, info)
		group.Go(func() error {
			err := r.limiter.Wait(groupCtx)
			if err != nil {
				return fmt.Errorf("%s: %w", bundle, err)
			}
			res, err := r.http.R().
				SetContext(groupCtx).
				Get(target)
			if err != nil {
				return fmt.Errorf("%s: %w", bundle, err)
			}
			if res.IsError() {
				return fmt.Errorf("%s: unexpected status: %s", bundle, res.Status())
			}
			texts[i] = res.String()
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return "", err
	}

	return strings.Join(texts, "\n"), nil
}

// findEndpoints scans corpus for `"<endpoint path>", "<version token>"` for
// every operation, the first match wins.
func findEndpoints(baseUrl, corpus string) (EndpointCache, error) {
	baseUrl = strings.TrimSuffix(baseUrl, "/")

	apis := make(map[Operation]Api, len(Operations))
	for _, op := range Operations {
		path := endpointPaths[op]
		pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(path) + `", "(.*?)"`)
		match := pattern.FindStringSubmatch(corpus)
		if match == nil {
			return EndpointCache{}, &ResolutionError{Operation: op, Err: ErrEndpointNotFound}
		}
		apis[op] = Api{
			Endpoint:   baseUrl + "/" + path,
			ApiVersion: match[1],
		}
	}
	return EndpointCache{apis: apis}, nil
}
