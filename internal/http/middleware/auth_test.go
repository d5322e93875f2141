package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/platform/ctxutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	am := NewAuthMiddleware(log, "test-secret")
	userID := uuid.New()

	var seen uuid.UUID
	r := gin.New()
	r.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			seen = rd.UserID
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + signToken(t, "test-secret", userID.String()), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", userID.String()), http.StatusUnauthorized},
		{"non-uuid subject", "Bearer " + signToken(t, "test-secret", "someone"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status: expected %d, got %d", tc.want, w.Code)
			}
			if tc.want == http.StatusOK && seen != userID {
				t.Fatalf("expected user %s in context, got %s", userID, seen)
			}
		})
	}
}
