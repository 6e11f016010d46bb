package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherhaven/internal/authz"
	"cipherhaven/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *SessionTokens) *gin.Engine {
	r := gin.New()
	r.GET("/open", OptionalAuth(tokens), func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, authz.RoleName(claims.RoleID))
	})
	admin := r.Group("/admin", AuthMiddleware(tokens), RequireRoles(authz.RoleAdmin))
	admin.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	tok, err := tokens.Issue(&models.Account{ID: 7, ProviderUserID: "user_1", RoleID: authz.RoleAdmin}, "sess_1")
	require.NoError(t, err)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AccountID)
	assert.Equal(t, "sess_1", claims.SessionID)
	assert.Equal(t, authz.RoleAdmin, claims.RoleID)
}

func TestSessionTokens_RejectsForeignKeyAndExpiry(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	other := NewSessionTokens("other", time.Hour)
	tok, err := other.Issue(&models.Account{ID: 1, RoleID: authz.RoleAdmin}, "s")
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewSessionTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	tok, err = expired.Issue(&models.Account{ID: 1}, "s")
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOptionalAuth(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	r := newRouter(tokens)

	assert.Equal(t, "anonymous", do(r, "/open", "").Body.String())
	assert.Equal(t, "anonymous", do(r, "/open", "garbage").Body.String())

	tok, err := tokens.Issue(&models.Account{ID: 1, RoleID: authz.RoleMember}, "s")
	require.NoError(t, err)
	assert.Equal(t, "member", do(r, "/open", tok).Body.String())
}

func TestRequireRoles(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	r := newRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)

	member, _ := tokens.Issue(&models.Account{ID: 1, RoleID: authz.RoleMember}, "s")
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", member).Code)

	admin, _ := tokens.Issue(&models.Account{ID: 2, RoleID: authz.RoleAdmin}, "s")
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
}
