package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/app/repositories"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextIsAdmin  = "isAdmin"
	ContextClaims   = "claims"
)

// AuthMiddleware handles authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	tokenRepo  repositories.ITokenRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, tokenRepo repositories.ITokenRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
	}
}

// JWTAuth validates the bearer token, rejects revoked tokens, and stores the
// claims in the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Se requiere autenticación"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Formato de token inválido"))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
			return
		}

		revoked, err := m.tokenRepo.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if revoked {
			HandleAPIError(c, apperrors.ErrTokenRevoked)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// AdminRequired allows only admin accounts through. Must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("Acceso no autorizado. Se requiere rol de administrador"))
			return
		}
		c.Next()
	}
}

// SelfOrAdmin allows admins, or a user reading their own record identified by
// the username route parameter.
func (m *AuthMiddleware) SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ContextIsAdmin) {
			c.Next()
			return
		}
		if c.Param(param) == c.GetString(ContextUsername) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse("Acceso no autorizado"))
	}
}

// CurrentClaims returns the token claims stored by JWTAuth
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
