package wodify

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestOperationErrorPaths(t *testing.T) {
	testCases := []struct {
		name       string
		op         Operation
		failing    string
		succeeding string
		invoke     func(ctx context.Context, c *Client) (any, error)
		expected   any
	}{
		{
			name:       "login",
			op:         OP_LOGIN,
			failing:    `{"data":{"Response":{"Error":{"HasError":true,"ErrorMessage":"Invalid username or password"}}}}`,
			succeeding: `{"data":{"Response":{"Error":{"HasError":false,"ErrorMessage":""},"Customer":"customer-1","ResponseUserData":{"UserId":"user-1"}}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				s, err := c.Login(ctx, "ada@example.com", "hunter2")
				return s.User.UserId, err
			},
			expected: "user-1",
		},
		{
			name:    "list programs",
			op:      OP_LOCATIONS_PROGRAMS,
			failing: `{"data":{"ErrorMessage":"Session expired","Locations":{"List":[]}}}`,
			succeeding: `{"data":{"ErrorMessage":"","Locations":{"List":[
				{"LocationId":"l1","LocationName":"Downtown","LocalPrograms":{"List":[
					{"ProgramId":"p1","LocalLocationId":"l1","Name":"CrossFit"},
					{"ProgramId":"p2","LocalLocationId":"l1","Name":"Olympic Lifting"}
				]}},
				{"LocationId":"l2","LocationName":"Uptown","LocalPrograms":{"List":[
					{"ProgramId":"p3","LocalLocationId":"l2","Name":"Endurance"}
				]}}
			]}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.ListPrograms(ctx, testSession)
			},
			expected: []Program{
				{Name: "CrossFit", ProgramId: "p1", LocationId: "l1", LocationName: "Downtown"},
				{Name: "Olympic Lifting", ProgramId: "p2", LocationId: "l1", LocationName: "Downtown"},
				{Name: "Endurance", ProgramId: "p3", LocationId: "l2", LocationName: "Uptown"},
			},
		},
		{
			name:       "list classes",
			op:         OP_GET_CLASSES,
			failing:    `{"data":{"Response":{"Error":{"HasError":true,"ErrorMessage":"No location"}}}}`,
			succeeding: `{"data":{"Response":{"Error":{"HasError":false,"ErrorMessage":""},"ResponseClassList":{"Class":{"List":[{"Id":"c1","Name":"CrossFit 6am","ClassLimit":12}]}}}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.ListClasses(ctx, testSession, "2024-03-01")
			},
			expected: []Class{{Id: "c1", Name: "CrossFit 6am", ClassLimit: 12}},
		},
		{
			name:       "list workout components",
			op:         OP_GET_ALL_WORKOUT_DATA,
			failing:    `{"data":{"Response":{"ResponseWorkout":{"WorkoutError":{"HasError":true,"ErrorMessage":"Workout not published"}}}}}`,
			succeeding: `{"data":{"Response":{"ResponseWorkout":{"WorkoutError":{"HasError":false,"ErrorMessage":""},"ResponseWorkoutActions":{"WorkoutComponents":{"List":[{"Name":"Fran","Description":"21-15-9"}]}}}}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.ListWorkoutComponents(ctx, testSession, "2024-03-01", "")
			},
			expected: []WorkoutComponent{{Name: "Fran", Description: "21-15-9"}},
		},
		{
			name:       "get class access",
			op:         OP_GET_CLASS_ACCESSES,
			failing:    `{"data":{"Response":{"Error":{"HasError":true,"ErrorMessage":"Class not found"}}}}`,
			succeeding: `{"data":{"Response":{"Error":{"HasError":false,"ErrorMessage":""},"ResponseClassAccess":{"CanReserve":true,"ClassReservationId":"r1"}}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.GetClassAccess(ctx, testSession, "c1")
			},
			expected: ClassAccess{CanReserve: true, ClassReservationId: "r1"},
		},
		{
			name:       "reserve class",
			op:         OP_CREATE_CLASS_RESERVATION,
			failing:    `{"data":{"Response":{"Error_Schedule":{"HasError":true,"ErrorMessage":"Class is full"}}}}`,
			succeeding: `{"data":{"Response":{"Error_Schedule":{"HasError":false,"ErrorMessage":""},"Message":"Reserved","NewStatusId":"2","MessageTypeId":1}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.ReserveClass(ctx, testSession, "c1")
			},
			expected: ReservationStatus{Message: "Reserved", NewStatusId: STATUS_RESERVED, MessageTypeId: 1},
		},
		{
			name:       "sign in class",
			op:         OP_SIGN_IN_CLASS,
			failing:    `{"data":{"Response":{"Error_Schedule":{"HasError":true,"ErrorMessage":"Sign in window closed"}}}}`,
			succeeding: `{"data":{"Response":{"Error_Schedule":{"HasError":false,"ErrorMessage":""},"Message":"Signed in","NewStatusId":"3","MessageTypeId":1}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.SignInClass(ctx, testSession, "c1")
			},
			expected: ReservationStatus{Message: "Signed in", NewStatusId: STATUS_SIGNED_IN, MessageTypeId: 1},
		},
		{
			name:       "cancel reservation",
			op:         OP_CANCEL_CLASS_RESERVATION,
			failing:    `{"data":{"Response":{"Error_Schedule":{"HasError":true,"ErrorMessage":"Late cancel not allowed"}}}}`,
			succeeding: `{"data":{"Response":{"Error_Schedule":{"HasError":false,"ErrorMessage":""},"Message":"Cancelled","NewStatusId":"1","MessageTypeId":1}}}`,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.CancelReservation(ctx, testSession, "r1")
			},
			expected: ReservationStatus{Message: "Cancelled", NewStatusId: STATUS_CANCELLED, MessageTypeId: 1},
		},
		{
			name: "customer date time",
			op:   OP_GET_CUSTOMER_DATE_TIME,
			// no error indicator, the response is always trusted
			succeeding: dateTimeDoc,
			invoke: func(ctx context.Context, c *Client) (any, error) {
				return c.GetCustomerDateTime(ctx, testSession)
			},
			expected: CustomerDateTime{
				CurrentDate:     "2024-03-01",
				CurrentTime:     "06:30:00",
				CurrentDateTime: "2024-03-01 06:30:00",
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			f := newFakeWodify(t)
			client, _ := newTestClient(t, f)
			ctx := context.Background()

			if test.failing != "" {
				f.respond(test.op, test.failing)
				_, err := test.invoke(ctx, client)

				var domainErr *DomainError
				require.ErrorAs(t, err, &domainErr)
				require.Equal(t, test.op, domainErr.Operation)
				require.NotEmpty(t, domainErr.Message)
				require.Contains(t, test.failing, domainErr.Message)
			}

			f.respond(test.op, test.succeeding)
			result, err := test.invoke(ctx, client)
			require.NoError(t, err)
			diff := cmp.Diff(test.expected, result)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
