package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
	"github.com/noah-isme/idea-observation-api/pkg/logger"
)

type stubValidator struct {
	tokens map[string]*models.JWTClaims
	seen   []string
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	s.seen = append(s.seen, token)
	if claims, ok := s.tokens[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newProtectedRouter(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(v, "auth-token"), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.String(http.StatusOK, claims.UserID+"|"+c.GetString(logger.PrincipalKey))
	})
	return r
}

func TestIdentifyCaller(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		cookie  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc", want: "abc"},
		{name: "bearer case insensitive", header: "bearer abc", want: "abc"},
		{name: "cookie fallback", cookie: "xyz", want: "xyz"},
		{name: "header wins", header: "Bearer abc", cookie: "xyz", want: "abc"},
		{name: "malformed header", header: "Token abc", cookie: "xyz", wantErr: true},
		{name: "empty bearer", header: "Bearer ", wantErr: true},
		{name: "nothing", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth-token", Value: tc.cookie})
			}
			token, err := IdentifyCaller(req, "auth-token")
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, token)
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	v := &stubValidator{tokens: map[string]*models.JWTClaims{"good": {UserID: "observer-1"}}}
	r := newProtectedRouter(v)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: "good"})
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "observer-1|observer-1", rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"bad"}, v.seen)
}
