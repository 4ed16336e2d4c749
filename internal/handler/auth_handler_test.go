package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type authServiceMock struct {
	resp     *models.AuthResponse
	err      error
	info     *models.UserInfo
	gotLogin models.LoginRequest
	gotMeID  string
}

func (m *authServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return m.resp, m.err
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	m.gotLogin = req
	return m.resp, m.err
}

func (m *authServiceMock) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	m.gotMeID = userID
	return m.info, m.err
}

func TestAuthHandlerRegisterSetsCookie(t *testing.T) {
	svc := &authServiceMock{resp: &models.AuthResponse{Token: "tok", ExpiresIn: 3600, User: models.UserInfo{ID: "u1"}}}
	h := NewAuthHandler(svc, CookieConfig{Name: "auth-token"})

	body, _ := json.Marshal(models.RegisterRequest{Email: "a@example.com", Password: "password123"})
	c, w := newGinContext(http.MethodPost, "/auth/register", body)
	h.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "auth-token=tok"))
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Max-Age=3600")
	assert.Contains(t, cookie, "SameSite=Lax")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceMock{resp: &models.AuthResponse{Token: "tok", ExpiresIn: 60}}
	h := NewAuthHandler(svc, CookieConfig{})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"a@example.com","password":"secret"}`))
	h.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", svc.gotLogin.Email)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth-token=tok")
}

func TestAuthHandlerLoginUnknownAccount(t *testing.T) {
	svc := &authServiceMock{err: appErrors.Clone(appErrors.ErrAccountNotFound, "")}
	h := NewAuthHandler(svc, CookieConfig{})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"ghost@example.com","password":"secret"}`))
	h.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", decodeEnvelope(t, w).Error.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":`))
	h.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	svc := &authServiceMock{info: &models.UserInfo{ID: "u1", Email: "a@example.com"}}
	h := NewAuthHandler(svc, CookieConfig{})

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	asObserver(c, "u1")
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", svc.gotMeID)
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, CookieConfig{Name: "auth-token", Secure: true})

	c, w := newGinContext(http.MethodPost, "/auth/logout", nil)
	h.Logout(c)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "auth-token=;"))
	assert.Contains(t, cookie, "Max-Age=0")
	assert.Contains(t, cookie, "Secure")
}
