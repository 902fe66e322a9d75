// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/app/services"
	"github.com/sigescol/backend/internal/middleware"
	"github.com/sigescol/backend/internal/pkg/validation"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login verifies credentials and returns a token with the user profile
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	username, err := validation.SanitizeString(req.Username)
	if err != nil {
		c.logger.Warn().Str("addr", ctx.ClientIP()).Msg("Malicious input on login")
		middleware.HandleAPIError(ctx, err)
		return
	}
	if username == "" || req.Password == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Username y password no pueden estar vacíos"))
		return
	}

	c.logger.Info().Str("username", username).Msg("Login attempt")

	resp, err := c.authService.Login(ctx.Request.Context(), username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Register creates an account for a student on the active roster
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	for field, value := range map[string]string{"username": req.Username, "email": req.Email} {
		if err := validation.ValidateField(field, value); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	c.logger.Info().Str("username", req.Username).Msg("Registration attempt")

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Logout revokes the current token
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Se requiere autenticación"))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), claims); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logout exitoso"))
}

// Protected confirms the token is valid and returns the account
func (c *AuthController) Protected(ctx *gin.Context) {
	userID := ctx.GetInt64(middleware.ContextUserID)

	user, err := c.authService.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Acceso permitido",
		User:    user,
	})
}

// GetUser returns the authenticated user's account information
func (c *AuthController) GetUser(ctx *gin.Context) {
	userID := ctx.GetInt64(middleware.ContextUserID)

	user, err := c.authService.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		User:    user,
	})
}
