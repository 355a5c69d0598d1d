package wodify

import (
	"context"
)

const report_client_login = "client.login"

type loginRequest struct {
	Request loginRequestData `json:"Request"`
}

type loginRequestData struct {
	UserName   string `json:"UserName"`
	Password   string `json:"Password"`
	IsToLogin  bool   `json:"IsToLogin"`
	CustomerId string `json:"CustomerId"`
	UserId     string `json:"UserId"`
}

type loginResponse struct {
	ResponseUserData User   `json:"ResponseUserData"`
	Customer         string `json:"Customer"`
}

// Login authenticates with email and password and returns a new session.
// Nothing about the session is kept by the client.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	c.tel.ReportDebug(report_client_login, email)

	login, res, err := call[loginResponse](ctx, c, OP_LOGIN, nil, apiRequest{
		ViewName: "Home.Login",
		InputParameters: loginRequest{
			Request: loginRequestData{
				UserName:   email,
				Password:   password,
				IsToLogin:  true,
				CustomerId: "0",
				UserId:     "0",
			},
		},
	})
	if err != nil {
		return Session{}, err
	}

	csrfToken, cookie := sessionCookies(res.Cookies())
	if csrfToken == "" {
		c.tel.ReportWarning(report_client_login, "login response did not set a csrf token")
	}

	return Session{
		CsrfToken: csrfToken,
		Cookie:    cookie,
		User:      login.ResponseUserData,
		Customer:  login.Customer,
	}, nil
}

type customerDateTimeRequest struct {
	InRequest struct {
		Customer string `json:"Customer"`
	} `json:"In_Request"`
}

// GetCustomerDateTime returns the gym's current local date and time.
func (c *Client) GetCustomerDateTime(ctx context.Context, session Session) (CustomerDateTime, error) {
	var req customerDateTimeRequest
	req.InRequest.Customer = session.Customer

	dt, _, err := call[CustomerDateTime](ctx, c, OP_GET_CUSTOMER_DATE_TIME, &session, apiRequest{
		ViewName:   "MainScreens.Scheduler",
		ScreenData: screenData{Variables: req},
	})
	return dt, err
}
