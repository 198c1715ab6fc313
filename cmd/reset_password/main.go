package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tokoikan/models"
	"tokoikan/pkg/password"
	"tokoikan/repository"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "admin email")
	plain := flag.String("password", "", "new plaintext password (min 6 chars)")
	status := flag.String("status", "", "optionally set status: aktif or nonaktif")
	flag.Parse()
	if *email == "" || (*plain == "" && *status == "") {
		log.Fatal("--email and one of --password or --status are required")
	}
	if *status != "" && !models.ValidAdminStatus(*status) {
		log.Fatalf("invalid status %q (aktif or nonaktif)", *status)
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	ctx := context.Background()
	admins := repository.NewAdminRepo(db)
	admin, err := admins.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("admin not found: %v", err)
	}
	if *plain != "" {
		hash, err := password.Hash(*plain)
		if err != nil {
			log.Fatal(err)
		}
		if err := admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
			log.Fatalf("update failed: %v", err)
		}
		fmt.Printf("Password reset for admin %s\n", admin.Email)
	}
	if *status != "" {
		if err := admins.UpdateStatus(ctx, admin.ID, *status); err != nil {
			log.Fatalf("update failed: %v", err)
		}
		fmt.Printf("Status of admin %s set to %s\n", admin.Email, *status)
	}
}
