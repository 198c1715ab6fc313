package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"tokoikan/models"
	"tokoikan/pkg/password"
	"tokoikan/repository"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_admin <email> <nama> <password>")
		os.Exit(2)
	}
	email, nama, plain := os.Args[1], os.Args[2], os.Args[3]

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		log.Fatal(err)
	}
	admin := &models.Admin{Email: email, Nama: nama, HashedPassword: hash, Status: models.AdminStatusAktif}
	err = repository.NewAdminRepo(db).Create(context.Background(), admin)
	if errors.Is(err, repository.ErrAdminExists) {
		fmt.Printf("admin %s already exists\n", email)
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	fmt.Printf("created admin %s id=%d\n", admin.Email, admin.ID)
}
