package main

import (
	"go-catalog-admin/internal/model"
	"go-catalog-admin/pkg/config"
	"go-catalog-admin/pkg/database"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Creates the admin account, or resets its password when it already exists.
func main() {
	// 1. Load Env + Config
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if cfg.AdminPassword == "" {
		logrus.Fatal("ADMIN_PASSWORD must be set")
	}

	// 2. Setup Database
	db := database.Connect(cfg.DSN())
	db.AutoMigrate(&model.User{})

	// 3. Find or create the admin
	var user model.User
	if err := db.Where("email = ?", cfg.AdminEmail).First(&user).Error; err != nil {
		user = model.User{
			Email:    cfg.AdminEmail,
			FullName: "Catalog Administrator",
			Role:     model.RoleAdmin,
			IsActive: true,
		}
		user.CreatedBy = "system"
		user.UpdatedBy = "system"
		if err := user.SetPassword(cfg.AdminPassword); err != nil {
			logrus.WithError(err).Fatal("failed to hash password")
		}
		if err := db.Create(&user).Error; err != nil {
			logrus.WithError(err).Fatal("failed to create admin user")
		}
		logrus.WithField("email", cfg.AdminEmail).Info("admin user created")
		return
	}

	// 4. Reset password for the existing account
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}
	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		logrus.WithError(err).Fatal("failed to update password")
	}
	logrus.WithField("email", cfg.AdminEmail).Info("admin password reset")
}
