package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hospital-appointment-service/internal/converter"
	"hospital-appointment-service/internal/delivery/dto"
	"hospital-appointment-service/internal/usecase"
	"hospital-appointment-service/pkg/response"

	"github.com/sirupsen/logrus"
)

// ErrorResponder maps usecase errors onto HTTP responses.
// Internal error details are only exposed outside production.
type ErrorResponder struct {
	log        *logrus.Logger
	production bool
}

func NewErrorResponder(log *logrus.Logger, production bool) *ErrorResponder {
	return &ErrorResponder{log: log, production: production}
}

func (e *ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		validationErr *usecase.ValidationError
		notFoundErr   *usecase.NotFoundError
		forbiddenErr  *usecase.ForbiddenError
		conflictErr   *usecase.ConflictError
		transitionErr *usecase.TransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			response.BadRequest(w, validationErr.Message, validationErr.Fields)
			return
		}
		response.BadRequest(w, validationErr.Message, nil)
	case errors.As(err, &notFoundErr):
		response.NotFound(w, capitalize(notFoundErr.Error()))
	case errors.As(err, &forbiddenErr):
		response.Forbidden(w, capitalize(forbiddenErr.Message))
	case errors.As(err, &conflictErr):
		var details interface{}
		if len(conflictErr.Conflicts) > 0 {
			details = dto.ConflictResponse{Conflicts: converter.AppointmentsToSummaries(conflictErr.Conflicts)}
		}
		response.BadRequest(w, conflictErr.Message, details)
	case errors.As(err, &transitionErr):
		response.BadRequest(w, transitionErr.Error(), nil)
	default:
		e.log.Errorf("%s %s: %s: %+v", r.Method, r.URL.Path, fallback, err)
		if e.production {
			response.InternalServerError(w, fallback)
			return
		}
		response.Error(w, http.StatusInternalServerError, fallback, err.Error())
	}
}

// decodeOptionalBody decodes a JSON body into dst; an empty body leaves dst untouched
func decodeOptionalBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
