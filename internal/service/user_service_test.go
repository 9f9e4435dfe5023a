package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"
	"github.com/learnchat-next/internal/models"
	"github.com/learnchat-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		Rule: config.RuleConfig{
			Name: config.NameRuleConfig{RenewSeconds: 604800},
		},
	}
	return NewUserService(cfg, repository.NewUserRepository(db)), db
}

func seedProfileUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         name,
		Status:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestUserServiceGetPublicProfile(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	user := seedProfileUser(t, db, "pub@example.com", "pubname")

	profile, err := svc.GetPublicProfile(user.ID)
	if err != nil {
		t.Fatalf("get public profile failed: %v", err)
	}
	if profile.ID != user.ID || profile.Name != "pubname" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	_, err = svc.GetPublicProfile(9999)
	appErr := assertAppErrorKind(t, err, response.KindBadRequest)
	if appErr.Message != "User does not exist" {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	user := seedProfileUser(t, db, "profile@example.com", "profilename")

	// 空输入视为无效请求
	_, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{})
	assertAppErrorKind(t, err, response.KindBadRequest)

	city := "Shanghai"
	intro := "Learning English."
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{City: &city, Intro: &intro})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.City != city || updated.Intro != intro {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Name != "profilename" {
		t.Fatalf("name should be untouched, got %q", updated.Name)
	}
}

func TestUserServiceUpdateName(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	user := seedProfileUser(t, db, "rename@example.com", "oldname")
	seedProfileUser(t, db, "taken@example.com", "takenname")

	_, err := svc.UpdateName(user, "oldname")
	appErr := assertAppErrorKind(t, err, response.KindBadRequest)
	if appErr.Message != "This is your current name." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}

	_, err = svc.UpdateName(user, "takenname")
	appErr = assertAppErrorKind(t, err, response.KindBadRequest)
	if appErr.Message != "This name has already existed." {
		t.Fatalf("unexpected message: %q", appErr.Message)
	}

	updated, err := svc.UpdateName(user, "newname")
	if err != nil {
		t.Fatalf("update name failed: %v", err)
	}
	if updated.Name != "newname" || updated.NameUpdatedAt == nil {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// 冷却期内再次改名被拒绝
	_, err = svc.UpdateName(updated, "anothername")
	assertAppErrorKind(t, err, response.KindForbidden)

	// 冷却期满后允许改名
	svc.now = func() time.Time {
		return updated.NameUpdatedAt.Add(time.Duration(svc.cfg.Rule.Name.RenewSeconds+1) * time.Second)
	}
	if _, err := svc.UpdateName(updated, "anothername"); err != nil {
		t.Fatalf("update name after cooldown failed: %v", err)
	}
}

func TestUserServiceSearchAndList(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	seedProfileUser(t, db, "a@example.com", "alpha")
	seedProfileUser(t, db, "b@example.com", "beta")
	seedProfileUser(t, db, "c@example.com", "alphabet")

	found, err := svc.SearchNameLike("alpha")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}

	page, err := svc.ListUsers(0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 2 || page[0].Name != "alpha" || page[1].Name != "alphabet" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	page, err = svc.ListUsers(1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 1 || page[0].Name != "beta" {
		t.Fatalf("unexpected second page: %+v", page)
	}
}
