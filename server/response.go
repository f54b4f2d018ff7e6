package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"musiclib/logger"
	"musiclib/repository"
	"musiclib/request"
)

const notFoundMessage = "No query results for model [MusicEntry]."

var errForbidden = errors.New("caller is not authorized for this action")

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// respondError maps an operation error onto the HTTP error taxonomy.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *request.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Message: "The given data was invalid.",
			Errors:  verr.Errors,
		})
	case errors.Is(err, errForbidden):
		writeMessage(w, http.StatusForbidden, "This action is unauthorized.")
	case errors.Is(err, request.ErrBodyTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "The request body is too large.")
	case errors.Is(err, request.ErrMalformedBody):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFoundMessage)
	default:
		logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("requestId", requestIDFrom(r.Context())),
			logger.ErrorField(err))
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}
