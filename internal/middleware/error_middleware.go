package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. The body always
// carries the stable {"success": false, "error": message} shape.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrMaliciousInput):
		respond(c, http.StatusBadRequest, err, "Datos de entrada inválidos")

	case errors.Is(err, apperrors.ErrMissingColumns),
		errors.Is(err, apperrors.ErrUnreadableFile):
		respond(c, http.StatusBadRequest, err, "Archivo inválido")

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrUserAlreadyExists),
		errors.Is(err, apperrors.ErrDuplicateStudentField):
		respond(c, http.StatusBadRequest, err, "Error de integridad de datos (usuario o email duplicado).")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, err, "Credenciales inválidas")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, err, "Token expirado")

	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, err, "Token revocado")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, err, "Token inválido")

	case errors.Is(err, apperrors.ErrAccountNotActive),
		errors.Is(err, apperrors.ErrNotRegisteredStudent):
		respond(c, http.StatusForbidden, err, "Acceso denegado. Su cuenta no está activa.")

	case errors.Is(err, apperrors.ErrRegistrationDenied):
		respond(c, http.StatusForbidden, err, "No se puede registrar.")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, err, "Acceso no autorizado. Se requiere rol de administrador")

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound):
		respond(c, http.StatusNotFound, err, "Recurso no encontrado")

	case errors.Is(err, apperrors.ErrRateLimited):
		respond(c, http.StatusTooManyRequests, err, "Demasiadas solicitudes. Intente más tarde.")

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, nil, "Error interno del servidor. Contacte al administrador.")
	}
}

// respond writes the error body, preferring the message carried by a
// CustomError over the generic fallback.
func respond(c *gin.Context, status int, err error, fallback string) {
	message := fallback
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}
	c.JSON(status, dto.NewErrorResponse(message))
}
