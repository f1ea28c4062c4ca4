package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/auth"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, svc *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "admin@example.com",
		Name:   "Site Admin",
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

// stubBlacklist answers from fixed values
type stubBlacklist struct {
	revoked     bool
	userRevoked bool
	err         error
}

func (s *stubBlacklist) Revoke(context.Context, string, time.Duration) error     { return nil }
func (s *stubBlacklist) RevokeUser(context.Context, string, time.Duration) error { return nil }
func (s *stubBlacklist) IsRevoked(context.Context, string) (bool, error)         { return s.revoked, s.err }
func (s *stubBlacklist) IsUserRevoked(context.Context, string, time.Time) (bool, error) {
	return s.userRevoked, s.err
}

func newAuthRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(cfg))
	router.GET("/admin/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	return router
}

func doAuth(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, input := newTestTokenPair(t, svc)

	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/admin/me", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, input.UserID.String(), c.GetString("user_id"))
		c.Status(http.StatusOK)
	})

	rec := doAuth(router, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := newTestTokenPair(t, svc)
	expired, _ := newTestTokenPair(t, newTestJWTService(-time.Minute))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expired.AccessToken, dto.ErrCodeTokenExpired},
	}

	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuth(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := newTestTokenPair(t, svc)

	t.Run("revoked token", func(t *testing.T) {
		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: &stubBlacklist{revoked: true}})
		rec := doAuth(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
	})

	t.Run("revoked user", func(t *testing.T) {
		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: &stubBlacklist{userRevoked: true}})
		rec := doAuth(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
	})

	t.Run("lookup failure fails open", func(t *testing.T) {
		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: &stubBlacklist{err: errors.New("redis down")}})
		rec := doAuth(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("in-memory revocation by jti", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))

		router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})
		rec := doAuth(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		other, _ := newTestTokenPair(t, svc)
		assert.Equal(t, http.StatusOK, doAuth(router, "Bearer "+other.AccessToken).Code)
	})
}

func TestGetJWTClaims_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
}
