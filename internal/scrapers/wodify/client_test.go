package wodify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"wodassist-backend/internal/components/metrics"
	"wodassist-backend/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	lock        sync.Mutex
	calls       map[string]int
	retries     map[string]int
	resolutions map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		calls:       map[string]int{},
		retries:     map[string]int{},
		resolutions: map[string]int{},
	}
}

func (m *countingMetrics) RecordCall(operation, outcome string, _ time.Duration) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.calls[operation+"/"+outcome]++
}

func (m *countingMetrics) RecordRetry(operation string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.retries[operation]++
}

func (m *countingMetrics) RecordResolution(outcome string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.resolutions[outcome]++
}

var testSession = Session{
	CsrfToken: "csrf-1",
	Cookie:    "osVisitor=abc; nr2W_Theme_UI=crf%3Dcsrf-1",
	Customer:  "customer-1",
	User: User{
		UserId:           "user-1",
		CustomerId:       "customer-1",
		ActiveLocationId: "location-1",
		GymProgramId:     "program-1",
	},
}

const dateTimeDoc = `{"data":{"Response":{"CurrentDate":"2024-03-01","CurrentTime":"06:30:00","CurrentDateTime":"2024-03-01 06:30:00"}}}`

func TestCallApiRetriesWithLongerTimeout(t *testing.T) {
	f := newFakeWodify(t)
	m := newCountingMetrics()
	client, rec := newTestClient(t, f, WithTimeout(100*time.Millisecond), WithMetrics(m))
	require.NoError(t, client.Preload(context.Background()))

	require.Equal(t, 2*client.attemptTimeout(0), client.attemptTimeout(1))

	var attempts atomic.Int32
	f.handle(OP_GET_CUSTOMER_DATE_TIME, func(w http.ResponseWriter, r *http.Request) {
		switch attempts.Add(1) {
		case 1:
			// longer than the first attempt is allowed to take
			sleepCtx(r.Context(), 300*time.Millisecond)
		default:
			// longer than the first timeout, shorter than the second
			sleepCtx(r.Context(), 140*time.Millisecond)
		}
		fmt.Fprint(w, dateTimeDoc)
	})

	dt, err := client.GetCustomerDateTime(context.Background(), testSession)
	require.NoError(t, err)
	require.Equal(t, "2024-03-01", dt.CurrentDate)
	require.EqualValues(t, 2, attempts.Load())

	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_client_call_api), 1)
	require.Empty(t, rec.Find(telemetry.REPORT_BROKEN, report_client_call_api))
	require.Equal(t, 1, m.retries[string(OP_GET_CUSTOMER_DATE_TIME)])
	require.Equal(t, 1, m.calls["GetCustomerDateTime/"+metrics.OUTCOME_OK])
	require.Equal(t, 1, m.resolutions[metrics.OUTCOME_OK])
}

func TestCallApiGivesUpAfterRetry(t *testing.T) {
	f := newFakeWodify(t)
	m := newCountingMetrics()
	client, rec := newTestClient(t, f, WithTimeout(50*time.Millisecond), WithMetrics(m))
	require.NoError(t, client.Preload(context.Background()))

	var attempts atomic.Int32
	f.handle(OP_GET_CLASSES, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		sleepCtx(r.Context(), time.Second)
	})

	_, err := client.ListClasses(context.Background(), testSession, "2024-03-01")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, OP_GET_CLASSES, transportErr.Operation)
	require.Equal(t, 2, transportErr.Attempts)
	require.EqualValues(t, 2, attempts.Load())
	require.Len(t, rec.Find(telemetry.REPORT_BROKEN, report_client_call_api), 1)
	require.Equal(t, 1, m.calls["GetClasses/"+metrics.OUTCOME_TRANSPORT])
}

func TestCallApiNetworkErrorIsRetried(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f)
	require.NoError(t, client.Preload(context.Background()))

	// endpoints stay resolved to the closed server
	f.server.Close()

	_, err := client.GetCustomerDateTime(context.Background(), testSession)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 2, transportErr.Attempts)
}

func TestCallApiCallerCancellation(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f, WithTimeout(time.Second))
	require.NoError(t, client.Preload(context.Background()))

	var attempts atomic.Int32
	f.handle(OP_GET_CLASSES, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		sleepCtx(r.Context(), time.Second)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.ListClasses(ctx, testSession, "2024-03-01")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 1, transportErr.Attempts)
	require.True(t, errors.Is(err, context.DeadlineExceeded), err)
	require.EqualValues(t, 1, attempts.Load())
}

func TestCallApiSendsVersionAndCredentials(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f)
	f.respond(OP_GET_CUSTOMER_DATE_TIME, dateTimeDoc)

	_, err := client.GetCustomerDateTime(context.Background(), testSession)
	require.NoError(t, err)

	calls := f.recorded()
	require.Len(t, calls, 1)
	require.Equal(t, testSession.CsrfToken, calls[0].CsrfToken)
	require.Equal(t, testSession.Cookie, calls[0].Cookie)

	expected := map[string]any{
		"versionInfo": map[string]any{"apiVersion": fakeToken(OP_GET_CUSTOMER_DATE_TIME)},
		"viewName":    "MainScreens.Scheduler",
		"screenData": map[string]any{
			"variables": map[string]any{
				"In_Request": map[string]any{"Customer": "customer-1"},
			},
		},
	}
	diff := cmp.Diff(expected, calls[0].Body)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestLogin(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f)

	f.handle(OP_LOGIN, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "osVisitor=abc; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "nr2W_Theme_UI=crf%3DT0k3n%2Bx%3D%3D%3Buid%3D42; Path=/WodifyClient")
		fmt.Fprint(w, `{"data":{"Response":{
			"Error":{"HasError":false,"ErrorMessage":""},
			"Customer":"customer-1",
			"ResponseUserData":{"UserId":"user-1","CustomerId":"customer-1","ActiveLocationId":"location-1","GymProgramId":"program-1","FirstName":"Ada"}
		}}}`)
	})
	f.respond(OP_GET_CUSTOMER_DATE_TIME, dateTimeDoc)

	session, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "T0k3n+x==", session.CsrfToken)
	require.Equal(t, "osVisitor=abc; nr2W_Theme_UI=crf%3DT0k3n%2Bx%3D%3D%3Buid%3D42", session.Cookie)
	require.Equal(t, "customer-1", session.Customer)
	require.Equal(t, "Ada", session.User.FirstName)
	require.Equal(t, "program-1", session.User.GymProgramId)

	_, err = client.GetCustomerDateTime(context.Background(), session)
	require.NoError(t, err)

	calls := f.recorded()
	require.Len(t, calls, 2)

	login := calls[0]
	require.Empty(t, login.CsrfToken)
	require.Empty(t, login.Cookie)
	require.Equal(t, "Home.Login", login.Body["viewName"])
	request := login.Body["inputParameters"].(map[string]any)["Request"].(map[string]any)
	require.Equal(t, "ada@example.com", request["UserName"])
	require.Equal(t, "hunter2", request["Password"])
	require.Equal(t, true, request["IsToLogin"])
	require.Equal(t, "0", request["CustomerId"])

	require.Equal(t, "T0k3n+x==", calls[1].CsrfToken)
	require.Equal(t, session.Cookie, calls[1].Cookie)
}

func TestListWorkoutComponentsProgram(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f)
	f.respond(OP_GET_ALL_WORKOUT_DATA, `{"data":{"Response":{"ResponseWorkout":{
		"WorkoutError":{"HasError":false,"ErrorMessage":""},
		"ResponseWorkoutActions":{"WorkoutComponents":{"List":[]}}
	}}}}`)

	_, err := client.ListWorkoutComponents(context.Background(), testSession, "2024-03-01", "")
	require.NoError(t, err)
	_, err = client.ListWorkoutComponents(context.Background(), testSession, "2024-03-01", "program-2")
	require.NoError(t, err)

	programOf := func(call recordedCall) any {
		vars := call.Body["screenData"].(map[string]any)["variables"].(map[string]any)
		return vars["In_Request"].(map[string]any)["GymProgramId"]
	}
	calls := f.recorded()
	require.Len(t, calls, 2)
	require.Equal(t, "program-1", programOf(calls[0]))
	require.Equal(t, "program-2", programOf(calls[1]))
}

func TestParseErrors(t *testing.T) {
	f := newFakeWodify(t)
	m := newCountingMetrics()
	client, _ := newTestClient(t, f, WithMetrics(m))

	f.respond(OP_GET_CLASSES, `<html>upstream error</html>`)
	_, err := client.ListClasses(context.Background(), testSession, "2024-03-01")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, OP_GET_CLASSES, parseErr.Operation)

	// the error indicator itself is missing
	f.respond(OP_GET_CLASS_ACCESSES, `{"data":{"Response":{"ResponseClassAccess":{}}}}`)
	_, err = client.GetClassAccess(context.Background(), testSession, "class-1")
	require.ErrorAs(t, err, &parseErr)
	require.ErrorIs(t, err, errMissingField)
	require.Contains(t, err.Error(), "data.Response.Error")

	// the projection is missing
	f.respond(OP_GET_CLASSES, `{"data":{"Response":{"Error":{"HasError":false,"ErrorMessage":""}}}}`)
	_, err = client.ListClasses(context.Background(), testSession, "2024-03-01")
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "data.Response.ResponseClassList")

	require.Equal(t, 2, m.calls["GetClasses/"+metrics.OUTCOME_PARSE])
}

type exchangeOutput struct {
	lock      sync.Mutex
	exchanges []string
}

func (o *exchangeOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.exchanges = append(o.exchanges, contents)
}

func TestExchangeDumpMasksPassword(t *testing.T) {
	f := newFakeWodify(t)
	output := &exchangeOutput{}
	client, _ := newTestClient(t, f, WithExchangeDump(output))

	f.respond(OP_LOGIN, `{"data":{"Response":{
		"Error":{"HasError":false,"ErrorMessage":""},
		"Customer":"customer-1",
		"ResponseUserData":{"UserId":"user-1","CustomerId":"customer-1"}
	}}}`)

	_, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)

	output.lock.Lock()
	defer output.lock.Unlock()
	// module info, every bundle and the login call itself
	require.Len(t, output.exchanges, 2+len(scriptBundles))
	for _, exchange := range output.exchanges {
		require.NotContains(t, exchange, "hunter2")
	}
}

func TestRateLimitDoesNotCountAsAttempt(t *testing.T) {
	f := newFakeWodify(t)
	// resolution drains the bucket, the call then waits about 100ms for a
	// token which is longer than the attempt timeout
	client, _ := newTestClient(t, f, WithRateLimit(10, 1), WithTimeout(30*time.Millisecond))
	require.NoError(t, client.Preload(context.Background()))
	f.respond(OP_GET_CUSTOMER_DATE_TIME, dateTimeDoc)

	dt, err := client.GetCustomerDateTime(context.Background(), testSession)
	require.NoError(t, err)
	require.Equal(t, "2024-03-01", dt.CurrentDate)
	require.Len(t, f.recorded(), 1)
}

func TestRateLimitCallerDeadline(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f, WithRateLimit(10, 1))
	require.NoError(t, client.Preload(context.Background()))

	// the next token is about 100ms away
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.GetCustomerDateTime(ctx, testSession)
	require.Error(t, err)

	var transportErr *TransportError
	require.False(t, errors.As(err, &transportErr), err)
	require.ErrorIs(t, err, ErrRateLimited)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, metrics.OUTCOME_THROTTLED, outcomeOf(err))
	require.Empty(t, f.recorded())
}

func TestLoginFractionalTimeZone(t *testing.T) {
	f := newFakeWodify(t)
	client, _ := newTestClient(t, f)

	f.respond(OP_LOGIN, `{"data":{"Response":{
		"Error":{"HasError":false,"ErrorMessage":""},
		"Customer":"customer-1",
		"ResponseUserData":{"UserId":"user-1","CustomerId":"customer-1","LocalTimeZoneDifference":5.5}
	}}}`)

	session, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, 5.5, session.User.LocalTimeZoneDifference)
}
