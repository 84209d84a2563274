package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/pkg/auth"
)

// Context keys populated by JWTAuth.
const (
	ContextAccountID   = "accountID"
	ContextAccountKind = "accountKind"
	ContextEmail       = "email"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextAccountKind, claims.Kind)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// KindRequired restricts a route to one account kind. Must run after JWTAuth.
func (m *AuthMiddleware) KindRequired(required models.AccountKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get(ContextAccountKind)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Account kind not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		kindStr, ok := kind.(string)
		if !ok || kindStr != string(required) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentPrincipal reassembles the authenticated account from the context
// keys set by JWTAuth.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	accountID, exists := c.Get(ContextAccountID)
	if !exists {
		return models.Principal{}, false
	}
	id, ok := accountID.(int64)
	if !ok {
		return models.Principal{}, false
	}

	kind, exists := c.Get(ContextAccountKind)
	if !exists {
		return models.Principal{}, false
	}
	kindStr, ok := kind.(string)
	if !ok {
		return models.Principal{}, false
	}

	emailAddr, _ := c.Get(ContextEmail)
	emailStr, _ := emailAddr.(string)

	return models.Principal{
		ID:    id,
		Kind:  models.AccountKind(kindStr),
		Email: emailStr,
	}, true
}
