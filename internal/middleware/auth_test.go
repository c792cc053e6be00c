package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func router(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	secured := r.Group("/", AuthMiddleware(cfg))
	secured.GET("/me", func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": a.UserID})
	})
	secured.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := router(cfg)
	exp := time.Now().Add(time.Hour).Unix()

	valid := signed(t, "s3cret", jwt.MapClaims{"sub": 7, "role": "traveler", "exp": exp})
	w := do(r, "/me", valid)
	if w.Code != http.StatusOK || w.Body.String() != `{"id":7}` {
		t.Fatalf("valid token: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}

	cases := map[string]string{
		"no token":     "",
		"wrong secret": signed(t, "other", jwt.MapClaims{"sub": 7, "role": "traveler", "exp": exp}),
		"expired":      signed(t, "s3cret", jwt.MapClaims{"sub": 7, "role": "traveler", "exp": time.Now().Add(-time.Hour).Unix()}),
		"unknown role": signed(t, "s3cret", jwt.MapClaims{"sub": 7, "role": "owner", "exp": exp}),
	}
	for name, tok := range cases {
		w := do(r, "/me", tok)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d", name, w.Code)
			continue
		}
		var body struct {
			Code    string            `json:"error_code"`
			Details map[string]string `json:"details"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if body.Code != "not_authenticated" || body.Details["reason"] == "" {
			t.Errorf("%s: body %s", name, w.Body.String())
		}
	}
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := router(cfg)
	exp := time.Now().Add(time.Hour).Unix()

	guide := signed(t, "s3cret", jwt.MapClaims{"sub": 3, "role": "guide", "exp": exp})
	if w := do(r, "/admin", guide); w.Code != http.StatusForbidden {
		t.Fatalf("guide on admin route: %d", w.Code)
	}

	admin := signed(t, "s3cret", jwt.MapClaims{"sub": 1, "role": "admin", "exp": exp})
	if w := do(r, "/admin", admin); w.Code != http.StatusNoContent {
		t.Fatalf("admin: %d", w.Code)
	}
}
