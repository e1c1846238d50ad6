package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/moonshill-backend/internal/pkg/errors"
)

// StatusFor maps engine errors onto an HTTP status and a stable code.
func StatusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, apperr.ErrClaimed):
		return http.StatusConflict, "campaign_busy"
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	}
	switch apperr.KindOf(err) {
	case apperr.KindConfiguration:
		return http.StatusUnprocessableEntity, "configuration_error"
	case apperr.KindDataIntegrity:
		if errors.Is(err, apperr.ErrNotFound) {
			return http.StatusNotFound, "not_found"
		}
		return http.StatusConflict, "data_integrity_error"
	case apperr.KindProvider:
		return http.StatusBadGateway, "provider_error"
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal_error"
}

// RespondAppError writes the envelope for err using StatusFor.
func RespondAppError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		RespondError(c, status, code, errors.New("internal error"))
		return
	}
	RespondError(c, status, code, err)
}
