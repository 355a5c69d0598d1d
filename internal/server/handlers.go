package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"wodassist-backend/internal/scrapers/wodify"
	"wodassist-backend/internal/workout"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type dateRequest struct {
	credentials
	// yyyy-mm-dd, the gym's current date when empty
	Date string `json:"date"`
}

type workoutRequest struct {
	credentials
	Date      string `json:"date"`
	ProgramId string `json:"programId"`
}

type classRequest struct {
	credentials
	ClassId string `json:"classId"`
}

type cancelRequest struct {
	credentials
	ReservationId string `json:"reservationId"`
}

type workoutCardResponse struct {
	Formatted string `json:"formatted"`
}

func (c credentials) auth() credentials {
	return c
}

type withCredentials interface {
	auth() credentials
}

// decode reads the request body into req and logs in with its credentials.
func decode[T withCredentials](s Server, r *http.Request) (T, wodify.Session, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		return req, wodify.Session{}, badRequestError{message: fmt.Sprintf("invalid request body: %v", err)}
	}
	creds := req.auth()
	if creds.Email == "" || creds.Password == "" {
		return req, wodify.Session{}, badRequestError{message: "email and password are required"}
	}

	session, err := s.wodify.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		return req, wodify.Session{}, err
	}
	return req, session, nil
}

func (s Server) Login(w http.ResponseWriter, r *http.Request) {
	_, session, err := decode[credentials](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s Server) Programs(w http.ResponseWriter, r *http.Request) {
	_, session, err := decode[credentials](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	programs, err := s.wodify.ListPrograms(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s Server) Classes(w http.ResponseWriter, r *http.Request) {
	req, session, err := decode[dateRequest](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// the schedule is only served after the client asked for the gym's time
	now, err := s.wodify.GetCustomerDateTime(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	date := req.Date
	if date == "" {
		date = now.CurrentDate
	}

	classes, err := s.wodify.ListClasses(r.Context(), session, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (s Server) listWorkout(w http.ResponseWriter, r *http.Request) ([]wodify.WorkoutComponent, bool) {
	req, session, err := decode[workoutRequest](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if req.Date == "" {
		s.writeError(w, r, badRequestError{message: "date is required"})
		return nil, false
	}

	programId := req.ProgramId
	if programId == "" {
		programId = s.ProgramFor(session.User.GymProgramId)
	}

	components, err := s.wodify.ListWorkoutComponents(r.Context(), session, req.Date, programId)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return components, true
}

func (s Server) Workouts(w http.ResponseWriter, r *http.Request) {
	components, ok := s.listWorkout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, components)
}

func (s Server) WorkoutCard(w http.ResponseWriter, r *http.Request) {
	components, ok := s.listWorkout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, workoutCardResponse{
		Formatted: workout.Format(workout.PrimaryWorkout(components)),
	})
}

func (s Server) Reserve(w http.ResponseWriter, r *http.Request) {
	req, session, err := decode[classRequest](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ClassId == "" {
		s.writeError(w, r, badRequestError{message: "classId is required"})
		return
	}
	status, err := s.wodify.ReserveClass(r.Context(), session, req.ClassId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s Server) SignIn(w http.ResponseWriter, r *http.Request) {
	req, session, err := decode[classRequest](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ClassId == "" {
		s.writeError(w, r, badRequestError{message: "classId is required"})
		return
	}
	status, err := s.wodify.SignInClass(r.Context(), session, req.ClassId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s Server) CancelReservation(w http.ResponseWriter, r *http.Request) {
	req, session, err := decode[cancelRequest](s, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ReservationId == "" {
		s.writeError(w, r, badRequestError{message: "reservationId is required"})
		return
	}

	_, err = s.wodify.GetCustomerDateTime(r.Context(), session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.wodify.CancelReservation(r.Context(), session, req.ReservationId)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
