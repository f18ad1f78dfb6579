package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"accounts/internal/auth"
	"accounts/internal/config"
	"accounts/internal/db"
	apperrors "accounts/internal/errors"
	"accounts/internal/model"
	"accounts/internal/repository"
)

// SeedUser is one entry in the seed file.
type SeedUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

var defaultUsers = []SeedUser{
	{Name: "Admin", Email: "admin@example.com", Password: "admin123", Role: "admin"},
	{Name: "Editor", Email: "editor@example.com", Password: "editor123", Role: "editor"},
	{Name: "Viewer", Email: "viewer@example.com", Password: "viewer123", Role: "viewer"},
}

func main() {
	seedFile := flag.String("file", "", "path to a JSON file of users to seed (optional)")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := defaultUsers
	if *seedFile != "" {
		users, err = loadSeedFile(*seedFile)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		log.Printf("Loaded %d users from %s", len(users), *seedFile)
	}

	userRepo := repository.NewUserRepository(gormDB, cfg.DBQueryTimeout)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, u := range users {
		if u.Name == "" || u.Email == "" || u.Password == "" {
			log.Printf("Skipping seed entry with missing fields: %q", u.Email)
			skipped++
			continue
		}
		role := u.Role
		if role == "" {
			role = model.DefaultRole
		}

		hashed, err := hasher.Hash(u.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}

		user := &model.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hashed,
			Role:         role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateEmail) {
				skipped++
				continue
			}
			log.Fatalf("Failed to seed user %s: %v", u.Email, err)
		}
		created++
	}

	log.Printf("Seed completed: %d created, %d skipped", created, skipped)
}

func loadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}
