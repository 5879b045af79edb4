package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/shopease-api/internal/application"
	"github.com/oksasatya/shopease-api/pkg/response"
	"github.com/oksasatya/shopease-api/pkg/validation"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrEmptyCart),
		errors.Is(err, app.ErrInvalidStatus),
		errors.Is(err, app.ErrOrderNotCancellable):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrUnauthorized), errors.Is(err, app.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrForbidden), errors.Is(err, app.ErrAlreadyLoggedIn):
		return http.StatusForbidden
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrItemNotFound),
		errors.Is(err, app.ErrCartNotFound),
		errors.Is(err, app.ErrCartLineNotFound),
		errors.Is(err, app.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, app.ErrFeatureUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, app.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the response envelope. Unmapped errors are
// logged with the request id and reported without internals.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status := statusOf(err)
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Fail(c, status, "invalid payload", verr.Fields)
	case status == http.StatusInternalServerError:
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"user_id":    c.GetString("userID"),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		_ = c.Error(err)
		response.Fail(c, status, "internal server error", nil)
	case status == http.StatusGatewayTimeout:
		response.Fail(c, status, app.ErrTimeout.Error(), nil)
	default:
		response.Fail(c, status, err.Error(), nil)
	}
}

func badPayload(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
