package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/provider"
	"github.com/learnchat-next/internal/queue"
	"github.com/learnchat-next/internal/repository"
	"github.com/learnchat-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupEmailHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:email_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.EmailCode{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	emailCodes := service.NewEmailCodeService(config.EmailRuleConfig{
		MaxRefreshTime: 2,
		MaxTryTime:     3,
		EnterInSeconds: 75,
		ValidInSeconds: 60,
		RenewSeconds:   3600,
	}, repository.NewEmailCodeRepository(db), queueClient)

	h := New(&provider.Container{EmailCodeService: emailCodes})
	engine := gin.New()
	engine.POST("/email/refresh", h.RefreshEmailCode)
	engine.POST("/email/verify", h.VerifyEmailCode)
	return engine, db
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestVerifyEmailCodeWrongCodeIsLogicalFailure(t *testing.T) {
	engine, db := setupEmailHandlerTest(t)
	email := "handler@example.com"

	w := postJSON(t, engine, "/email/refresh", `{"email":"`+email+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Email code issued") {
		t.Fatalf("unexpected refresh body: %s", w.Body.String())
	}

	var ecode models.EmailCode
	if err := db.Where("email = ?", email).First(&ecode).Error; err != nil {
		t.Fatalf("load email code failed: %v", err)
	}
	wrong := "000000"
	if wrong == ecode.Code {
		wrong = "111111"
	}

	// 输错验证码是逻辑失败：HTTP 200 + 失败业务码
	w = postJSON(t, engine, "/email/verify", `{"email":"`+email+`","code":"`+wrong+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status_code":10001`) {
		t.Fatalf("expected failure status code, got: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Wrong code, try again.") {
		t.Fatalf("unexpected verify body: %s", w.Body.String())
	}

	w = postJSON(t, engine, "/email/verify", `{"email":"`+email+`","code":"`+ecode.Code+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status_code":10000`) {
		t.Fatalf("expected success status code, got: %s", w.Body.String())
	}
}

func TestVerifyEmailCodeBadPayload(t *testing.T) {
	engine, _ := setupEmailHandlerTest(t)

	// 验证码位数不对直接拒绝
	w := postJSON(t, engine, "/email/verify", `{"email":"handler@example.com","code":"123"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, engine, "/email/refresh", `{"email":"not-an-email"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
