package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/learnchat-next/internal/provider"

	"github.com/gin-gonic/gin"
)

func setupAccessHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(&provider.Container{})
	engine := gin.New()
	engine.POST("/login", h.Login)
	engine.POST("/signup", h.Signup)
	return engine
}

func TestLoginBindingErrorsAreJoined(t *testing.T) {
	engine := setupAccessHandlerTest(t)

	// 字段错误全部收集后合并返回，而不是只报第一个
	w := postJSON(t, engine, "/login", `{"email":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	want := "email must be a valid email,password is required"
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("expected %q in body, got: %s", want, w.Body.String())
	}
}

func TestSignupBindingErrorMessages(t *testing.T) {
	engine := setupAccessHandlerTest(t)

	w := postJSON(t, engine, "/signup", `{"email":"a@example.com","password":"123"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	want := "password length must be at least 6 characters long"
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("expected %q in body, got: %s", want, w.Body.String())
	}

	// 非字段级的语法错误仍回退到通用提示
	w = postJSON(t, engine, "/login", `{"email":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Bad Request") {
		t.Fatalf("expected generic message, got: %s", w.Body.String())
	}
}
