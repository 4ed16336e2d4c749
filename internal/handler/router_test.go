package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idea-observation-api/internal/middleware"
	"github.com/noah-isme/idea-observation-api/internal/models"
	"github.com/noah-isme/idea-observation-api/internal/service"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

type staticValidator struct{}

func (staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: "observer-1"}, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func newTestRouter(obs *observationServiceMock, ping pingerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, "/api/v1", Handlers{
		Auth:         NewAuthHandler(&authServiceMock{}, CookieConfig{}),
		Directory:    NewDirectoryHandler(nil, nil, nil),
		Students:     NewStudentHandler(&studentServiceMock{}),
		Reference:    NewReferenceHandler(&referenceServiceMock{}),
		Observations: NewObservationHandler(obs),
		Reports:      NewReportHandler(&reportServiceMock{}),
		Metrics:      NewMetricsHandler(service.NewMetricsService(), ping),
	}, middleware.JWT(staticValidator{}, "auth-token"), true)
	return r
}

func TestRouterRequiresAuthentication(t *testing.T) {
	obs := &observationServiceMock{}
	r := newTestRouter(obs, func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/observations/obs-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, obs.observedID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/observations/obs-1", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "observer-1", obs.principal)
	assert.Equal(t, "obs-1", obs.observedID)
}

func TestRouterAcceptsCookie(t *testing.T) {
	obs := &observationServiceMock{}
	r := newTestRouter(obs, func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/observations", nil)
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "observer-1", obs.principal)
}

func TestRouterPublicEndpoints(t *testing.T) {
	r := newTestRouter(&observationServiceMock{}, func(context.Context) error { return nil })

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterReadyReportsDatabaseFailure(t *testing.T) {
	r := newTestRouter(&observationServiceMock{}, func(context.Context) error { return errors.New("connection refused") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestRouterRegistersObservationLifecycle(t *testing.T) {
	r := newTestRouter(&observationServiceMock{}, nil)

	routes := map[string]bool{}
	for _, info := range r.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/observations",
		"POST /api/v1/observations/:id/entries",
		"POST /api/v1/observations/:id/stop",
		"GET /api/v1/observations/:id/report",
		"POST /api/v1/observations/:id/report",
		"GET /api/v1/observations/:id/report/pdf",
		"GET /api/v1/observations/:id/entries/export",
		"GET /api/v1/idea-categories",
		"GET /api/v1/behavior-categories",
	} {
		assert.True(t, routes[want], want)
	}
}
