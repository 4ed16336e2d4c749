package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.UserInfo, error)
}

// CookieConfig controls the auth cookie set next to the bearer token.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "auth-token"
	}
	return &AuthHandler{service: svc, cookie: cookie}
}

// Register godoc
// @Summary Register observer
// @Description Create an observer account and sign in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid registration payload"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, res.Token, int(res.ExpiresIn))
	response.Created(c, res)
}

// Login godoc
// @Summary Authenticate observer
// @Description Authenticate by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, res.Token, int(res.ExpiresIn))
	response.OK(c, res)
}

// Me godoc
// @Summary Current observer
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// Logout godoc
// @Summary Logout
// @Description Clear the auth cookie. Bearer tokens stay valid until they expire.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.Message(c, "logged out")
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
