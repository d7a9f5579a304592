package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/etaskify/server/internal/port/outbound"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Validate(ctx context.Context, credential string) (int64, error) {
	args := m.Called(ctx, credential)
	return args.Get(0).(int64), args.Error(1)
}

func performRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authRouter(resolver outbound.IdentityResolverPort) (*gin.Engine, *int64) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var seenUserID int64
	router.GET("/protected", Auth(resolver), func(c *gin.Context) {
		seenUserID = GetUserID(c)
		c.Status(http.StatusOK)
	})
	return router, &seenUserID
}

func TestAuth(t *testing.T) {
	t.Run("valid_credential", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Validate", mock.Anything, "good-token").Return(int64(42), nil)

		router, seenUserID := authRouter(resolver)
		w := performRequest(router, map[string]string{
			"Authorization": "Bearer good-token",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(42), *seenUserID)
	})

	t.Run("missing_header", func(t *testing.T) {
		router, _ := authRouter(new(mockResolver))
		w := performRequest(router, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed_header", func(t *testing.T) {
		router, _ := authRouter(new(mockResolver))
		w := performRequest(router, map[string]string{
			"Authorization": "Basic abc123",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected_credential", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Validate", mock.Anything, "bad-token").Return(int64(0), outbound.ErrUnauthorized)

		router, _ := authRouter(resolver)
		w := performRequest(router, map[string]string{
			"Authorization": "Bearer bad-token",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("resolver_unavailable", func(t *testing.T) {
		resolver := new(mockResolver)
		resolver.On("Validate", mock.Anything, "token").Return(int64(0), outbound.ErrCollaboratorUnavailable)

		router, _ := authRouter(resolver)
		w := performRequest(router, map[string]string{
			"Authorization": "Bearer token",
		})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates_when_absent", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, GetRequestID(c))
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagates_incoming_id", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("handler bug")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
