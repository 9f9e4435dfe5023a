package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/learnchat-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.AuthKey{},
		&models.LoginAttempt{},
		&models.EmailCode{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserRepository(db)

	role := models.Role{Code: "LEARNER", Status: true}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	user := models.User{
		Email:        "find@example.com",
		PasswordHash: "hash",
		Name:         "findme",
		Roles:        []models.Role{role},
		Status:       true,
	}
	if err := repo.Create(&user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	got, err := repo.GetByEmail("find@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if got == nil || got.Name != "findme" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if len(got.Roles) != 1 || got.Roles[0].Code != "LEARNER" {
		t.Fatalf("expected preloaded roles, got %+v", got.Roles)
	}

	// 不存在的记录返回 nil 而不是错误
	missing, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %+v", missing)
	}

	exists, err := repo.ExistsByEmail("find@example.com")
	if err != nil || !exists {
		t.Fatalf("expected email exists: %v", err)
	}
	taken, err := repo.ExistsByName("findme")
	if err != nil || !taken {
		t.Fatalf("expected name exists: %v", err)
	}
}

func TestUserRepositoryUpdateName(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserRepository(db)

	user := models.User{Email: "rename@example.com", PasswordHash: "hash", Name: "before", Status: true}
	if err := repo.Create(&user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	at := time.Now()
	updated, err := repo.UpdateName(user.ID, "after", at)
	if err != nil {
		t.Fatalf("update name failed: %v", err)
	}
	if updated.Name != "after" {
		t.Fatalf("expected name updated, got %q", updated.Name)
	}
	if updated.NameUpdatedAt == nil {
		t.Fatalf("expected name_updated_at recorded")
	}
}

func TestUserRepositoryList(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewUserRepository(db)

	for _, name := range []string{"carol", "alice", "bob"} {
		user := models.User{
			Email:        name + "@example.com",
			PasswordHash: "hash",
			Name:         name,
			Status:       true,
		}
		if err := repo.Create(&user); err != nil {
			t.Fatalf("create user failed: %v", err)
		}
	}

	page, err := repo.List(0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 2 || page[0].Name != "alice" || page[1].Name != "bob" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	page, err = repo.List(1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 1 || page[0].Name != "carol" {
		t.Fatalf("unexpected second page: %+v", page)
	}

	found, err := repo.SearchNameLike("o")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
}

func TestKeyRepositoryUpsert(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewKeyRepository(db)

	if err := repo.Upsert(1, "key@example.com", "p1", "s1"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.Upsert(1, "key@example.com", "p2", "s2"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	key, err := repo.GetByUserID(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if key.PrimaryKey != "p2" || key.SecondaryKey != "s2" {
		t.Fatalf("expected rotated keys, got %+v", key)
	}

	var count int64
	if err := db.Model(&models.AuthKey{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single record, got %d", count)
	}

	if err := repo.DeleteByEmail("key@example.com"); err != nil {
		t.Fatalf("delete by email failed: %v", err)
	}
	key, err = repo.GetByUserID(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if key != nil {
		t.Fatalf("expected key removed, got %+v", key)
	}
}

func TestLoginAttemptRepositoryUpsert(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewLoginAttemptRepository(db)

	first := time.Now().Add(-time.Minute)
	if err := repo.Upsert(1, 0, first); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	second := time.Now()
	if err := repo.Upsert(1, 3, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	attempt, err := repo.Get(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if attempt.TryTime != 3 {
		t.Fatalf("expected try_time 3, got %d", attempt.TryTime)
	}
	if !attempt.UpdatedAt.After(first) {
		t.Fatalf("expected updated_at refreshed")
	}

	if err := repo.Delete(1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	attempt, err = repo.Get(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if attempt != nil {
		t.Fatalf("expected record removed, got %+v", attempt)
	}
}

func TestEmailCodeRepositoryRefreshResetsState(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewEmailCodeRepository(db)
	email := "code@example.com"
	at := time.Now()

	if err := repo.Refresh(email, "111111", 0, at); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := repo.IncrementTryTime(email, 2, at); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := repo.MarkVerified(email, at); err != nil {
		t.Fatalf("mark verified failed: %v", err)
	}

	verified, err := repo.GetVerifiedByEmail(email)
	if err != nil {
		t.Fatalf("get verified failed: %v", err)
	}
	if verified == nil {
		t.Fatalf("expected verified record")
	}

	// 重新签发会重置错误计数与验证状态
	if err := repo.Refresh(email, "222222", 1, at.Add(time.Minute)); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	code, err := repo.GetByEmail(email)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if code.Code != "222222" || code.TryTime != 0 || code.Verified || code.RefreshTime != 1 {
		t.Fatalf("unexpected record after refresh: %+v", code)
	}

	if err := repo.Delete(email); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	code, err = repo.GetByEmail(email)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if code != nil {
		t.Fatalf("expected record removed, got %+v", code)
	}
}
