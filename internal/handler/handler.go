package handler

import (
	"errors"
	"net/http"

	customError "github.com/madan1440/svlf-software/pkg/errors"
	"github.com/madan1440/svlf-software/pkg/response"
)

// writeBusinessError maps a service error onto an HTTP status. Anything
// that is not a recognized business error falls through as a 500.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeVehicleNotFound,
		customError.ErrCodeBuyerNotFound,
		customError.ErrCodeInstallmentNotFound,
		customError.ErrCodeUserNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeVehicleAlreadySold,
		customError.ErrCodeUsernameTaken,
		customError.ErrCodeScheduleCorrupt:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeInvalidCredentials,
		customError.ErrCodeSessionExpired:
		response.Unauthorized(w, businessErr.Message)
	case customError.ErrCodeSelfDelete:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
