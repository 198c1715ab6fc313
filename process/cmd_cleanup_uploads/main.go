package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tokoikan/pkg/imgstore"
	"tokoikan/process/uploadgc"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dry := flag.Bool("dry-run", true, "Preview actions without deleting files")
	yes := flag.Bool("yes", false, "Confirm destructive action when dry-run=false")
	minAge := flag.Duration("min-age", time.Hour, "Skip files newer than this")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN must be set")
	}
	base := os.Getenv("UPLOAD_BASE")
	if base == "" {
		base = "uploads"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}

	refs, err := uploadgc.Referenced(context.Background(), db)
	if err != nil {
		log.Fatal(err)
	}
	orphans, err := uploadgc.Orphans(base, refs, *minAge, time.Now())
	if err != nil {
		log.Fatal(err)
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned uploads")
		return
	}

	fmt.Printf("Orphaned uploads in %s:\n", base)
	for _, name := range orphans {
		fmt.Printf(" - %s\n", name)
	}
	if *dry {
		fmt.Println("dry-run: no changes made. Use --dry-run=false --yes to execute.")
		return
	}
	if !*yes {
		fmt.Println("Destructive! Pass --yes to proceed.")
		return
	}

	store, err := imgstore.New(base, 0, logrus.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}
	n, err := uploadgc.Remove(store, orphans)
	if err != nil {
		log.Fatalf("cleanup stopped after %d files: %v", n, err)
	}
	fmt.Printf("cleanup done: %d files removed\n", n)
}
