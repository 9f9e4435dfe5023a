package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/queue"
	"github.com/learnchat-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func testEmailRuleConfig() config.EmailRuleConfig {
	return config.EmailRuleConfig{
		MaxRefreshTime: 2,
		MaxTryTime:     3,
		EnterInSeconds: 75,
		ValidInSeconds: 60,
		RenewSeconds:   3600,
	}
}

func setupEmailCodeServiceTest(t *testing.T) (*EmailCodeService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:email_code_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	svc := NewEmailCodeService(testEmailRuleConfig(), repository.NewEmailCodeRepository(db), queueClient)
	return svc, db
}

func storedEmailCode(t *testing.T, db *gorm.DB, email string) *models.EmailCode {
	t.Helper()
	var ecode models.EmailCode
	if err := db.Where("email = ?", email).First(&ecode).Error; err != nil {
		t.Fatalf("load email code failed: %v", err)
	}
	return &ecode
}

func TestEmailCodeServiceRefreshSequence(t *testing.T) {
	svc, db := setupEmailCodeServiceTest(t)
	email := "refresh@example.com"
	base := time.Now()
	svc.now = func() time.Time { return base }

	msg, err := svc.Refresh(email)
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if msg != "Email code issued" {
		t.Fatalf("unexpected message: %q", msg)
	}
	first := storedEmailCode(t, db, email)
	if len(first.Code) != 6 || first.RefreshTime != 0 {
		t.Fatalf("unexpected stored code: %+v", first)
	}

	msg, err = svc.Refresh(email)
	if err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if msg != "Email code refreshed" {
		t.Fatalf("unexpected message: %q", msg)
	}

	msg, err = svc.Refresh(email)
	if err != nil {
		t.Fatalf("third refresh failed: %v", err)
	}
	if msg != "Email code refreshed, the last time" {
		t.Fatalf("unexpected message: %q", msg)
	}

	_, err = svc.Refresh(email)
	assertAppErrorKind(t, err, response.KindForbidden)

	// 冷却期满后计数重置，重新签发
	svc.now = func() time.Time { return base.Add(time.Duration(svc.cfg.RenewSeconds+1) * time.Second) }
	msg, err = svc.Refresh(email)
	if err != nil {
		t.Fatalf("refresh after renew failed: %v", err)
	}
	if msg != "Email code issued" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if renewed := storedEmailCode(t, db, email); renewed.RefreshTime != 0 {
		t.Fatalf("expected refresh_time reset, got %d", renewed.RefreshTime)
	}
}

func TestEmailCodeServiceVerifyWrongCodes(t *testing.T) {
	svc, _ := setupEmailCodeServiceTest(t)
	email := "wrong@example.com"
	base := time.Now()
	svc.now = func() time.Time { return base }

	if _, err := svc.Refresh(email); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		msg, ok, err := svc.Verify(email, "no-such-code")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if ok || msg != "Wrong code, try again." {
			t.Fatalf("unexpected result: ok=%v msg=%q", ok, msg)
		}
	}

	msg, ok, err := svc.Verify(email, "no-such-code")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok || msg != "Wrong code, you may refresh a new code and try again." {
		t.Fatalf("unexpected result: ok=%v msg=%q", ok, msg)
	}

	// 错误次数用尽后即使输入正确也被锁定
	_, _, err = svc.Verify(email, "whatever")
	assertAppErrorKind(t, err, response.KindForbidden)
}

func TestEmailCodeServiceVerifySuccessAndAssert(t *testing.T) {
	svc, db := setupEmailCodeServiceTest(t)
	email := "ok@example.com"
	base := time.Now()
	svc.now = func() time.Time { return base }

	if _, err := svc.Refresh(email); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	code := storedEmailCode(t, db, email).Code

	msg, ok, err := svc.Verify(email, code)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok || msg != "Verified successfully" {
		t.Fatalf("unexpected result: ok=%v msg=%q", ok, msg)
	}

	if err := svc.AssertVerified(email); err != nil {
		t.Fatalf("assert verified failed: %v", err)
	}

	// 已验证窗口内不允许重复刷新或验证
	_, err = svc.Refresh(email)
	assertAppErrorKind(t, err, response.KindBadRequest)
	_, _, err = svc.Verify(email, code)
	assertAppErrorKind(t, err, response.KindBadRequest)

	// 验证窗口过期后要求重新验证
	svc.now = func() time.Time { return base.Add(time.Duration(svc.cfg.ValidInSeconds+1) * time.Second) }
	err = svc.AssertVerified(email)
	appErr := assertAppErrorKind(t, err, response.KindForbidden)
	if appErr.Message != "Please verify your email again." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}

func TestEmailCodeServiceVerifyExpiredCode(t *testing.T) {
	svc, db := setupEmailCodeServiceTest(t)
	email := "expired@example.com"
	base := time.Now()
	svc.now = func() time.Time { return base }

	if _, err := svc.Refresh(email); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	code := storedEmailCode(t, db, email).Code

	svc.now = func() time.Time { return base.Add(time.Duration(svc.cfg.EnterInSeconds+1) * time.Second) }
	_, _, err := svc.Verify(email, code)
	assertAppErrorKind(t, err, response.KindForbidden)
}

func TestEmailCodeServiceVerifyWithoutRecord(t *testing.T) {
	svc, _ := setupEmailCodeServiceTest(t)

	_, _, err := svc.Verify("nobody@example.com", "123456")
	appErr := assertAppErrorKind(t, err, response.KindBadRequest)
	if appErr.Message != "There is no code available for this email." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}

	err = svc.AssertVerified("nobody@example.com")
	appErr = assertAppErrorKind(t, err, response.KindForbidden)
	if appErr.Message != "Please verify your email first." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}
