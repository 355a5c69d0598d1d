package wodify

import (
	"context"
)

// reservation calls are mutations, a retried attempt can apply the same
// mutation twice if wodify applied the first one but the response was lost.

type reserveRequest struct {
	Request struct {
		ClassId    string `json:"ClassId"`
		CustomerId string `json:"CustomerId"`
		UserId     string `json:"UserId"`
	} `json:"Request"`
}

func (c *Client) ReserveClass(ctx context.Context, session Session, classId string) (ReservationStatus, error) {
	var req reserveRequest
	req.Request.ClassId = classId
	req.Request.CustomerId = session.User.CustomerId
	req.Request.UserId = session.User.UserId

	return c.mutateReservation(ctx, OP_CREATE_CLASS_RESERVATION, session, req)
}

type signInClassClient struct {
	AutoRenewSessionPlanIfPossible bool   `json:"AutoRenewSessionPlanIfPossible"`
	ClassId                        string `json:"ClassId"`
	IgnoreSignInClassPolicy        bool   `json:"IgnoreSignInClassPolicy"`
	IsDropIn                       bool   `json:"IsDropIn"`
	UserId                         string `json:"UserId"`
}

type signInRequest struct {
	Request struct {
		Customer                 string            `json:"Customer"`
		LocationId               string            `json:"LocationId"`
		RequestSignInClassClient signInClassClient `json:"RequestSignInClassClient"`
	} `json:"Request"`
}

func (c *Client) SignInClass(ctx context.Context, session Session, classId string) (ReservationStatus, error) {
	var req signInRequest
	req.Request.Customer = session.Customer
	req.Request.LocationId = session.User.ActiveLocationId
	req.Request.RequestSignInClassClient = signInClassClient{
		AutoRenewSessionPlanIfPossible: true,
		ClassId:                        classId,
		IgnoreSignInClassPolicy:        false,
		IsDropIn:                       false,
		UserId:                         session.User.UserId,
	}

	return c.mutateReservation(ctx, OP_SIGN_IN_CLASS, session, req)
}

type cancelRequest struct {
	Request struct {
		ClassReservationId string `json:"ClassReservationId"`
		CustomerId         string `json:"CustomerId"`
		UserId             string `json:"UserId"`
		IsClient           bool   `json:"IsClient"`
	} `json:"Request"`
}

func (c *Client) CancelReservation(ctx context.Context, session Session, classReservationId string) (ReservationStatus, error) {
	var req cancelRequest
	req.Request.ClassReservationId = classReservationId
	req.Request.CustomerId = session.User.CustomerId
	req.Request.UserId = session.User.UserId
	req.Request.IsClient = true

	return c.mutateReservation(ctx, OP_CANCEL_CLASS_RESERVATION, session, req)
}

func (c *Client) mutateReservation(ctx context.Context, op Operation, session Session, input any) (ReservationStatus, error) {
	status, _, err := call[ReservationStatus](ctx, c, op, &session, apiRequest{
		ViewName:        "Classes.Class",
		InputParameters: input,
	})
	return status, err
}
