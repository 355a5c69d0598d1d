package wodify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"wodassist-backend/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

// which bundle each operation's endpoint is served in
var fakeBundleOf = map[Operation]string{
	OP_LOGIN:                    "WodifyClient.controller.js",
	OP_LOCATIONS_PROGRAMS:       "WodifyClient_CS.controller.js",
	OP_GET_CLASSES_ATTENDANCE:   "WodifyClient_Class.Classes.Attendance.mvc.js",
	OP_CREATE_CLASS_RESERVATION: "WodifyClient_Class.Classes.Class.mvc.js",
	OP_SIGN_IN_CLASS:            "WodifyClient_Class.Classes.Class.mvc.js",
	OP_CANCEL_CLASS_RESERVATION: "WodifyClient_Class.Classes.Class.mvc.js",
	OP_GET_ALL_WORKOUT_DATA:     "WodifyClient_DataFetch_WB.WOD_Flow.GetAllWorkoutData_WB.mvc.js",
	OP_GET_CLASSES:              "WodifyClient_DataFetch_WB.Schedule_OS.GetClassList_ForClient_WithReservationCounts_WB.mvc.js",
	OP_GET_CLASS_ACCESSES:       "WodifyClient_DataFetch_WB.Schedule_OS.GetClassListAccesses_WB.mvc.js",
	OP_GET_CUSTOMER_DATE_TIME:   "WodifyClient_DataFetch_WB.Customer_OS.GetCustomerDateTime_WB.mvc.js",
}

func fakeToken(op Operation) string {
	return "token-" + strings.ToLower(string(op))
}

func fakeVersion(bundle string) string {
	return fmt.Sprintf("?%x", len(bundle))
}

type recordedCall struct {
	Operation Operation
	CsrfToken string
	Cookie    string
	Body      map[string]any
}

// fakeWodify serves the module info, script bundles and api endpoints of a
// wodify client application.
type fakeWodify struct {
	server *httptest.Server

	moduleInfoHits  atomic.Int32
	moduleInfoDelay time.Duration
	// operations whose endpoint token is left out of the bundles
	omit map[Operation]bool
	// bundles that respond with 500
	broken map[string]bool

	lock     sync.Mutex
	handlers map[Operation]http.HandlerFunc
	calls    []recordedCall
}

func newFakeWodify(t *testing.T) *fakeWodify {
	f := &fakeWodify{
		omit:     map[Operation]bool{},
		broken:   map[string]bool{},
		handlers: map[Operation]http.HandlerFunc{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeWodify) baseUrl() string {
	return f.server.URL + "/WodifyClient"
}

func (f *fakeWodify) handle(op Operation, handler http.HandlerFunc) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.handlers[op] = handler
}

// respond makes op always respond with the given json document.
func (f *fakeWodify) respond(op Operation, doc string) {
	f.handle(op, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		fmt.Fprint(w, doc)
	})
}

func (f *fakeWodify) recorded() []recordedCall {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := make([]recordedCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeWodify) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/WodifyClient/")

	switch {
	case path == "moduleservices/moduleinfo":
		f.moduleInfoHits.Add(1)
		sleepCtx(r.Context(), f.moduleInfoDelay)
		f.serveModuleInfo(w)
	case strings.HasPrefix(path, "scripts/"):
		f.serveBundle(w, r, strings.TrimPrefix(path, "scripts/"))
	case r.Method == http.MethodPost:
		f.serveApi(w, r, path)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeWodify) serveModuleInfo(w http.ResponseWriter) {
	versions := map[string]string{}
	for _, bundle := range scriptBundles {
		versions["/WodifyClient/scripts/"+bundle] = fakeVersion(bundle)
	}
	info := map[string]any{
		"manifest": map[string]any{"urlVersions": versions},
	}
	w.Header().Set("content-type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (f *fakeWodify) serveBundle(w http.ResponseWriter, r *http.Request, bundle string) {
	if "?"+r.URL.RawQuery != fakeVersion(bundle) || f.broken[bundle] {
		http.Error(w, "unknown bundle version", http.StatusInternalServerError)
		return
	}

	var sb strings.Builder
	sb.WriteString("define(\"" + bundle + "\", [], function () {\n")
	for _, op := range Operations {
		if fakeBundleOf[op] != bundle || f.omit[op] {
			continue
		}
		fmt.Fprintf(
			&sb,
			"  return controller.callDataAction(\"%s\", \"%s\", function () {});\n",
			endpointPaths[op], fakeToken(op),
		)
	}
	sb.WriteString("});\n")
	fmt.Fprint(w, sb.String())
}

func (f *fakeWodify) serveApi(w http.ResponseWriter, r *http.Request, path string) {
	var op Operation
	for candidate, p := range endpointPaths {
		if p == path {
			op = candidate
		}
	}
	if op == "" {
		http.NotFound(w, r)
		return
	}

	var body map[string]any
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.lock.Lock()
	f.calls = append(f.calls, recordedCall{
		Operation: op,
		CsrfToken: r.Header.Get("x-csrftoken"),
		Cookie:    r.Header.Get("cookie"),
		Body:      body,
	})
	handler, ok := f.handlers[op]
	f.lock.Unlock()

	if !ok {
		http.Error(w, "no handler", http.StatusNotImplemented)
		return
	}
	handler(w, r)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func newTestClient(t *testing.T, f *fakeWodify, opts ...ClientOption) (*Client, *telemetry.Recorder) {
	rec := telemetry.NewRecorder()
	opts = append([]ClientOption{
		WithCustomTelemetryAPI(rec),
		WithRateLimit(1000, 1000),
	}, opts...)
	client, err := NewClient(f.baseUrl(), opts...)
	require.NoError(t, err)
	return client, rec
}
