package wodify

import (
	"context"
)

type locationsProgramsRequest struct {
	CustomerId       string `json:"CustomerId"`
	UserId           string `json:"UserId"`
	ActiveLocationId string `json:"ActiveLocationId"`
}

type location struct {
	LocationId    string `json:"LocationId"`
	LocationName  string `json:"LocationName"`
	LocalPrograms struct {
		List []localProgram `json:"List"`
	} `json:"LocalPrograms"`
}

type localProgram struct {
	Id              string `json:"Id"`
	ProgramId       string `json:"ProgramId"`
	LocalLocationId string `json:"LocalLocationId"`
	Name            string `json:"Name"`
	Description     string `json:"Description"`
	IsActive        bool   `json:"IsActive"`
}

// ListPrograms lists the programs of every location the user has access to.
func (c *Client) ListPrograms(ctx context.Context, session Session) ([]Program, error) {
	locations, _, err := call[[]location](ctx, c, OP_LOCATIONS_PROGRAMS, &session, apiRequest{
		ViewName: "Home.Login",
		InputParameters: locationsProgramsRequest{
			CustomerId:       session.User.CustomerId,
			UserId:           session.User.UserId,
			ActiveLocationId: session.User.ActiveLocationId,
		},
	})
	if err != nil {
		return nil, err
	}
	return flattenPrograms(locations), nil
}

func flattenPrograms(locations []location) []Program {
	var programs []Program
	for _, loc := range locations {
		for _, p := range loc.LocalPrograms.List {
			programs = append(programs, Program{
				Name:         p.Name,
				ProgramId:    p.ProgramId,
				LocationId:   p.LocalLocationId,
				LocationName: loc.LocationName,
			})
		}
	}
	return programs
}
