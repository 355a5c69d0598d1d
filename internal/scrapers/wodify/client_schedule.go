package wodify

import (
	"context"
)

type classListRequest struct {
	InRequest struct {
		RequestClassList struct {
			FromDate   string `json:"FromDate"`
			CustomerId string `json:"CustomerId"`
			LocationId string `json:"LocationId"`
			UserId     string `json:"UserId"`
		} `json:"RequestClassList"`
	} `json:"In_Request"`
}

// ListClasses lists the classes of the user's active location, date is
// formatted as yyyy-mm-dd.
func (c *Client) ListClasses(ctx context.Context, session Session, date string) ([]Class, error) {
	var req classListRequest
	req.InRequest.RequestClassList.FromDate = date
	req.InRequest.RequestClassList.CustomerId = session.User.CustomerId
	req.InRequest.RequestClassList.LocationId = session.User.ActiveLocationId
	req.InRequest.RequestClassList.UserId = session.User.UserId

	classes, _, err := call[[]Class](ctx, c, OP_GET_CLASSES, &session, apiRequest{
		ViewName:   "MainScreens.Scheduler",
		ScreenData: screenData{Variables: req},
	})
	return classes, err
}

type clientVariables struct {
	ActiveLocationId string `json:"ActiveLocationId"`
	CustomerId       string `json:"CustomerId"`
	UserId           string `json:"UserId"`
}

type classAccessRequest struct {
	ClassId         string          `json:"ClassId"`
	ClientVariables clientVariables `json:"ClientVariables"`
}

// GetClassAccess returns what the user is allowed to do with a class.
func (c *Client) GetClassAccess(ctx context.Context, session Session, classId string) (ClassAccess, error) {
	access, _, err := call[ClassAccess](ctx, c, OP_GET_CLASS_ACCESSES, &session, apiRequest{
		ViewName: "Classes.Class",
		ScreenData: screenData{Variables: classAccessRequest{
			ClassId: classId,
			ClientVariables: clientVariables{
				ActiveLocationId: session.User.ActiveLocationId,
				CustomerId:       session.User.CustomerId,
				UserId:           session.User.UserId,
			},
		}},
	})
	return access, err
}
