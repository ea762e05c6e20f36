package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/app/models/dto"
	"github.com/idms/ems/internal/middleware"
)

// AuthService is the service surface the auth controller depends on
type AuthService interface {
	Login(ctx context.Context, identity, password string) (string, *models.User, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// CookieConfig carries the session cookie settings
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthController handles authentication endpoints
type AuthController struct {
	authService AuthService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials and issues a session token, both in the response body and as an httpOnly cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Logged in"
// @Failure 400 {object} dto.ErrorResponse "Missing credentials"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Email or username is required"))
		return
	}

	if strings.TrimSpace(req.Identity) == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Email or username is required"))
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Password is required"))
		return
	}

	token, user, err := c.authService.Login(ctx.Request.Context(), strings.TrimSpace(req.Identity), req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("identity", req.Identity).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setAuthCookie(ctx, token)

	c.logger.Info().Str("username", user.Username).Msg("User logged in")

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  userResponse(user),
	})
}

// Logout clears the session cookie
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.clearAuthCookie(ctx)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MeResponse{User: userResponse(user)})
}

func (c *AuthController) setAuthCookie(ctx *gin.Context, token string) {
	if c.cookie.Secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(c.cookie.Name, token, c.cookie.MaxAge, "/", "", c.cookie.Secure, true)
}

func (c *AuthController) clearAuthCookie(ctx *gin.Context) {
	if c.cookie.Secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(c.cookie.Name, "", -1, "/", "", c.cookie.Secure, true)
}
