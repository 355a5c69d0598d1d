package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"wodassist-backend/internal/scrapers/wodify"
)

const report_server_handle = "server.handle"

type errorResponse struct {
	Error string `json:"error"`
}

type badRequestError struct {
	message string
}

func (e badRequestError) Error() string {
	return e.message
}

// statusOf maps an error to the status it is reported to the client with.
func statusOf(err error) int {
	var (
		badRequest    badRequestError
		domainErr     *wodify.DomainError
		transportErr  *wodify.TransportError
		resolutionErr *wodify.ResolutionError
		parseErr      *wodify.ParseError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &domainErr):
		return http.StatusBadRequest
	case errors.Is(err, wodify.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &transportErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &resolutionErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func (s Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.tel.ReportWarning(report_server_handle, err, r.URL.Path)
	} else {
		s.tel.ReportDebug(report_server_handle, err.Error(), r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
