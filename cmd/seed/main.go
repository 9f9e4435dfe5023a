package main

import (
	"fmt"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/constants"
	"github.com/learnchat-next/internal/logger"
	"github.com/learnchat-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// 开发环境演示数据：角色与若干测试账号
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultRoles(); err != nil {
		stdLog.Fatalf("Failed to seed roles: %v", err)
	}

	var learner models.Role
	if err := models.DB.Where("code = ?", constants.RoleLearner).First(&learner).Error; err != nil {
		stdLog.Fatalf("Failed to load learner role: %v", err)
	}

	demoUsers := []struct {
		Email    string
		Name     string
		Password string
		City     string
		Intro    string
	}{
		{"alice@example.com", "alice", "alice123", "Shanghai", "Learning English every day."},
		{"bob@example.com", "bob", "bob12345", "Beijing", "Practice makes perfect."},
		{"carol@example.com", "carol", "carol123", "Shenzhen", "Hello world."},
	}

	for _, demo := range demoUsers {
		var count int64
		if err := models.DB.Model(&models.User{}).Where("email = ?", demo.Email).Count(&count).Error; err != nil {
			stdLog.Fatalf("Failed to check user %s: %v", demo.Email, err)
		}
		if count > 0 {
			stdLog.Printf("User already exists: %s", demo.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash password: %v", err)
		}
		user := models.User{
			Email:        demo.Email,
			PasswordHash: string(hash),
			Name:         demo.Name,
			City:         demo.City,
			Intro:        demo.Intro,
			Roles:        []models.Role{learner},
			Status:       true,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", demo.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s", demo.Email)
	}

	fmt.Println("Seed finished at", time.Now().Format(time.RFC3339))
}
