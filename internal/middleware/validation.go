package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sigescol/backend/internal/app/models/dto"
)

// BindJSON binds and validates a JSON body, writing a 400 with a readable
// Spanish message on failure. Returns false when the request was rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(formatBindingError(err)))
		return false
	}
	return true
}

func formatBindingError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Se requiere contenido JSON válido"
	}

	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return "El campo " + e.Field() + " es requerido"
		case "email":
			return "Formato de email inválido."
		case "min":
			return "El campo " + e.Field() + " debe tener al menos " + e.Param() + " caracteres"
		case "max":
			return "El campo " + e.Field() + " debe tener como máximo " + e.Param() + " caracteres"
		}
	}
	return "Datos de entrada inválidos"
}
