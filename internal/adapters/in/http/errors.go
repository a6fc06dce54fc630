package http

import (
	"errors"
	"net/http"

	"dispatch/internal/adapters/in/payload"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps use case errors to a status and an error body.
// A decode failure is the caller's data, every other batch stage is upstream.
func errorResponse(err error) (int, payload.Error) {
	status := http.StatusInternalServerError
	body := payload.Error{Message: err.Error()}

	var batchErr *commands.BatchError
	switch {
	case errors.Is(err, commands.ErrBatchInProgress):
		status = http.StatusConflict
	case errors.Is(err, commands.ErrNoPredictions):
		status = http.StatusNotFound
	case errors.As(err, &batchErr):
		body.Stage = string(batchErr.Stage)
		status = http.StatusBadGateway
		if batchErr.Stage == commands.StageDecode {
			status = http.StatusUnprocessableEntity
		}
	case errors.Is(err, commands.ErrNoCarriersInRoster):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, candidate.ErrInvalidInput),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	default:
		body.Message = http.StatusText(status)
	}

	body.Code = status
	return status, body
}

func writeError(c echo.Context, err error) error {
	status, body := errorResponse(err)
	return c.JSON(status, body)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, payload.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
