package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/learnchat-next/internal/http/response"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newRateLimitRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimitMiddlewareBlocksOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := newRateLimitRedis(t)

	engine := gin.New()
	rule := RateLimitRule{Prefix: "t:rate", WindowSeconds: 60, MaxRequests: 2}
	engine.GET("/limited", RateLimitMiddleware(client, rule, KeyByIP), func(c *gin.Context) {
		response.SuccessMsg(c, "ok")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Too many requests") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareKeyByJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := newRateLimitRedis(t)

	engine := gin.New()
	rule := RateLimitRule{Prefix: "t:rate", WindowSeconds: 60, MaxRequests: 1}
	engine.POST("/login", RateLimitMiddleware(client, rule, KeyByIPAndJSONField("email")), func(c *gin.Context) {
		var payload struct {
			Email string `json:"email"`
		}
		// key 提取后请求体仍可被处理函数读取
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.BadRequest(c, "Bad Request")
			return
		}
		response.SuccessMsg(c, payload.Email)
	})

	send := func(email string) *httptest.ResponseRecorder {
		body := strings.NewReader(`{"email":"` + email + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/login", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	if w := send("a@example.com"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := send("a@example.com"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	// 不同邮箱拥有独立配额
	if w := send("b@example.com"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	rule := RateLimitRule{Prefix: "t:rate", WindowSeconds: 60, MaxRequests: 1}
	engine.GET("/open", RateLimitMiddleware(nil, rule, KeyByIP), func(c *gin.Context) {
		response.SuccessMsg(c, "ok")
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}
