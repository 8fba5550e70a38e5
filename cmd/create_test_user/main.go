package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"tasklist/internal/db"
	"tasklist/internal/domain"
	"tasklist/internal/logger"
	"tasklist/internal/repository"
	"tasklist/internal/service"

	"github.com/joho/godotenv"
)

// Creates (or reuses) a user by name and prints a bearer token for it.
func main() {
	name := flag.String("name", "testuser", "user name")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.GetByName(ctx, *name)
	switch {
	case err == nil:
		logger.Info("user already exists", "id", u.ID)
	case errors.Is(err, repository.ErrUserNotFound):
		u = &domain.User{Name: *name}
		if err := repo.Create(ctx, u); err != nil {
			logger.Fatal("create user failed", "error", err)
		}
		logger.Info("user created", "id", u.ID)
	default:
		logger.Fatal("lookup user failed", "error", err)
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
