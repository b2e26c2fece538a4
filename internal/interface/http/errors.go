package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/pkg/response"
)

// writeServiceError maps service errors onto HTTP responses. Authentication and
// business rule failures share the 400 status and expose their message.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		authErr *application.AuthenticationError
		ruleErr *application.BusinessRuleError
	)
	switch {
	case errors.As(err, &authErr):
		response.Error[any](c, http.StatusBadRequest, authErr.Message, nil)
	case errors.As(err, &ruleErr):
		response.Error[any](c, http.StatusBadRequest, ruleErr.Message, nil)
	case errors.Is(err, application.ErrEntryNotFound):
		response.Error[any](c, http.StatusNotFound, "Lançamento não encontrado na base de dados.", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "Usuário não encontrado para o Id informado.", nil)
	case errors.Is(err, application.ErrExportUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// authUserID returns the id the Auth middleware stored in the context.
func authUserID(c *gin.Context) (int64, bool) {
	uid := c.GetInt64("userID")
	return uid, uid != 0
}
