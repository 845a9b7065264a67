package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	admin "github.com/avilamfg/exhibit-backend/internal/admins"
	"github.com/avilamfg/exhibit-backend/pkg/config"
	"github.com/avilamfg/exhibit-backend/pkg/db"
	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/migrate"
	"github.com/avilamfg/exhibit-backend/pkg/security"
)

const tempPasswordLength = 16

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	// Flags
	cmd := flag.String("cmd", "up", "command: up|down|status|version|create|validate|seed-admin")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")

	// Command-specific flags
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	email := flag.String("email", "", "admin email (for seed-admin)")
	password := flag.String("password", "", "admin password (for seed-admin, generated when empty)")
	role := flag.String("role", enums.AdminRoleSuperAdmin.String(), "admin role (for seed-admin)")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// Commands that do NOT require DB
	switch *cmd {
	case "create":
		if *name == "" {
			fmt.Fprintln(os.Stderr, "missing -name for create")
			os.Exit(1)
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create migration: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return

	case "seed-admin":
		seedAdmin(ctx, logg, cfg, *email, *password, *role)
		return
	}

	// The migrations are postgres SQL; sqlite is for package tests only.
	if cfg.DB.IsSQLite() {
		fmt.Fprintln(os.Stderr, "migrations require a postgres DSN")
		os.Exit(1)
	}

	sqlDB, err := sql.Open("postgres", cfg.DB.DSN)
	requireResource(ctx, logg, "database", err)
	defer sqlDB.Close()

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up":
		if err := migrate.Run(ctx, sqlDB, *dir, "up"); err != nil {
			fmt.Fprintf(os.Stderr, "goose up failed: %v\n", err)
			os.Exit(1)
		}

	case "down":
		if err := migrate.Run(ctx, sqlDB, *dir, "down"); err != nil {
			fmt.Fprintf(os.Stderr, "goose down failed: %v\n", err)
			os.Exit(1)
		}

	case "status":
		if err := migrate.Run(ctx, sqlDB, *dir, "status"); err != nil {
			fmt.Fprintf(os.Stderr, "goose status failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fmt.Fprintf(os.Stderr, "goose version migrate failed: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

// seedAdmin bootstraps a back-office account. The generated password is
// printed once and never stored anywhere but as an argon2id hash.
func seedAdmin(ctx context.Context, logg *logger.Logger, cfg *config.Config, email, password, role string) {
	if email == "" {
		fmt.Fprintln(os.Stderr, "missing -email for seed-admin")
		os.Exit(1)
	}
	adminRole, err := enums.ParseAdminRole(role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -role: %v\n", err)
		os.Exit(1)
	}

	generated := false
	if password == "" {
		password, err = security.GenerateTempPassword(tempPasswordLength)
		requireResource(ctx, logg, "password generator", err)
		generated = true
	}

	hash, err := security.HashPassword(password, cfg.Password)
	requireResource(ctx, logg, "password hash", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	record, err := admin.NewRepository(dbClient.DB()).Create(ctx, &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		Role:         adminRole,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			fmt.Fprintln(os.Stderr, "admin with that email already exists")
			os.Exit(1)
		}
		requireResource(ctx, logg, "admin account", err)
	}

	fmt.Println("created admin:", record.Email, "role:", record.Role)
	if generated {
		fmt.Println("temporary password:", password)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
