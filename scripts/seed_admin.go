// Seeds the first admin account. Registration never hands out the admin
// role, so a fresh deployment runs this once before logging in.
//
// Usage: go run scripts/seed_admin.go -email admin@example.com -password changeme
//
// When -password is omitted a random one is generated and printed.

package main

import (
	"errors"
	"flag"
	"log"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (generated when omitted)")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	generated := false
	if *password == "" {
		*password = util.GenerateRandomString(16)
		generated = true
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var existing model.User
	err = db.Where("email = ?", *email).First(&existing).Error
	if err == nil {
		log.Fatalf("a user with email %s already exists", *email)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("lookup: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	admin := &model.User{
		Name:     *name,
		Email:    *email,
		Password: string(hash),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("create: %v", err)
	}
	if generated {
		log.Printf("admin %s created with id %d, password: %s", *email, admin.ID, *password)
	} else {
		log.Printf("admin %s created with id %d", *email, admin.ID)
	}
}
