package wodify

import (
	"context"
)

type workoutRequest struct {
	InRequest struct {
		SelectedDate     string `json:"SelectedDate"`
		ActiveLocationId string `json:"ActiveLocationId"`
		GymProgramId     string `json:"GymProgramId"`
		CustomerId       string `json:"CustomerId"`
		UserId           string `json:"UserId"`
	} `json:"In_Request"`
}

// ListWorkoutComponents lists the components of the workout of a program on
// the given date. An empty programId means the user's own gym program.
func (c *Client) ListWorkoutComponents(ctx context.Context, session Session, date, programId string) ([]WorkoutComponent, error) {
	if programId == "" {
		programId = session.User.GymProgramId
	}

	var req workoutRequest
	req.InRequest.SelectedDate = date
	req.InRequest.ActiveLocationId = session.User.ActiveLocationId
	req.InRequest.GymProgramId = programId
	req.InRequest.CustomerId = session.User.CustomerId
	req.InRequest.UserId = session.User.UserId

	components, _, err := call[[]WorkoutComponent](ctx, c, OP_GET_ALL_WORKOUT_DATA, &session, apiRequest{
		ViewName:   "MainScreens.Exercise",
		ScreenData: screenData{Variables: req},
	})
	return components, err
}
