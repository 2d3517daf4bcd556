package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"adterminal/internal/database"
	"adterminal/internal/domain/admin"
	"adterminal/internal/logging"
	"adterminal/internal/pkg/jwt"
)

// admin_passwd sets an admin password directly in the database, creating
// the account when needed. The password is read from ADMIN_NEW_PASSWORD so it
// never shows up in shell history.
func main() {
	_ = godotenv.Load()

	username := flag.String("username", admin.BootstrapUsername, "admin username")
	flag.Parse()

	password := os.Getenv("ADMIN_NEW_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_NEW_PASSWORD is required")
		os.Exit(2)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("SUPABASE_DB_URL")
	}
	if dsn == "" {
		logging.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connect failed")
	}
	if err := db.AutoMigrate(&admin.AdminUser{}); err != nil {
		logging.Fatal().Err(err).Msg("migrate admin_users failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// tokens are never issued here; the secret only satisfies the service
	svc := admin.NewService(admin.NewAdminRepository(db), jwt.New("unused", jwt.TokenTTL))
	created, err := svc.SetPassword(ctx, *username, password)
	if err != nil {
		if errors.Is(err, admin.ErrUsernameTaken) {
			logging.Fatal().Str("username", *username).Msg("username was created concurrently, retry")
		}
		logging.Fatal().Err(err).Str("username", *username).Msg("set password failed")
	}

	logging.Info().Str("username", *username).Bool("created", created).Msg("admin password updated")
}
