// api/controller/auth_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rollcall_errors "github.com/rollcall-app/api/errors"
	"github.com/rollcall-app/api/service"
	"github.com/rollcall-app/api/util"
)

type AuthController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/otp", ac.RequestOtp)
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/refresh", ac.Refresh)
		authGroup.POST("/logout", ac.Logout)
	}
}

type otpRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RequestOtp endpoint. Always answers 204; whether the email exists is not
// observable from outside.
func (ac *AuthController) RequestOtp(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := ac.authService.RequestOtp(c, req.Email); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to send code", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Login endpoint
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	pair, err := ac.authService.Login(c, req.Email, req.Code, c.ClientIP())
	if err != nil {
		switch err {
		case rollcall_errors.ErrInvalidCredentials:
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Login failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh endpoint
func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	pair, err := ac.authService.Refresh(c, req.RefreshToken, c.ClientIP())
	if err != nil {
		switch err {
		case rollcall_errors.ErrRefreshTokenExpired:
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Refresh failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout endpoint
func (ac *AuthController) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := ac.authService.Logout(c, req.RefreshToken); err != nil {
		switch err {
		case rollcall_errors.ErrRefreshTokenExpired:
			// Revoking an already-dead token is not worth reporting.
			c.Status(http.StatusNoContent)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Logout failed", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
