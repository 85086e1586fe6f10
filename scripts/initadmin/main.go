package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/nastrosite/internal/config"
	"github.com/nastrosite/internal/db"
)

// Creates (or repairs) the admin account outside the normal server start.
func main() {
	email := flag.String("email", "", "admin account email")
	password := flag.String("password", "", "admin account password")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()

	if *email == "" {
		*email = cfg.SuperRootEmail
	}
	if *password == "" {
		*password = cfg.SuperRootPassword
	}
	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or SUPER_ROOT_* env)")
	}

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureAdmin(*email, *password); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}

	fmt.Printf("admin account ready: %s\n", *email)
}
