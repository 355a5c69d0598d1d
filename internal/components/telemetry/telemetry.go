package telemetry

// API is the reporting surface domain code logs through. Tests swap it for
// a Recorder to assert that failures actually get reported.
type API interface {
	// ReportBroken reports a component that failed in a way someone should fix.
	//
	// `id` names the component that broke, not the line that broke. A failed
	// bundle download while resolving endpoints is `resolver.fetch-bundle`;
	// whether it was the http call or the status check goes into the params.
	//
	// Ids are lowercase, underscores separate words of a component name and
	// dashes separate words of a method name. Packages wrap their API in a
	// ScopedAPI, so `<type>.<method>` is usually enough.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that did not break anything.
	ReportWarning(id string, params ...any)

	// ReportDebug is dropped unless verbose logging is on.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the size of something at this point in time. Counts
	// are samples, they are never summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
