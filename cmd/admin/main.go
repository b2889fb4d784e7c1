// Command admin creates or promotes administrator accounts and can roll back
// the most recent schema migration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/config"
	"volunteerManagement/internal/db"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

func main() {
	username := flag.String("username", "", "administrator username")
	password := flag.String("password", "", "password for a new administrator (ignored when promoting)")
	email := flag.String("email", "", "email for a new administrator")
	rollback := flag.Bool("rollback", false, "roll back the last applied migration and exit")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fail("load .env", err)
	}
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		fail("load config", err)
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		fail("open db", err)
	}
	defer d.Close()

	if *rollback {
		if err := db.RollbackLast(d); err != nil {
			fail("rollback", err)
		}
		v, err := db.AppliedVersion(d)
		if err != nil {
			fail("read version", err)
		}
		slog.Info("rolled back last migration", "version", v)
		return
	}

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}
	g, err := db.NewGorm(d)
	if err != nil {
		fail("open gorm", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	created, err := ensureAdmin(ctx, repository.NewStore(g), auth.BcryptHasher{Cost: cfg.Auth.BcryptCost}, *username, *password, *email)
	if err != nil {
		fail("ensure admin", err)
	}
	if created {
		slog.Info("administrator created", "username", *username)
	} else {
		slog.Info("user promoted to administrator", "username", *username)
	}
}

// ensureAdmin promotes an existing user or creates a new staff user. It
// reports whether a user was created.
func ensureAdmin(ctx context.Context, s *repository.Store, hasher auth.PasswordHasher, username, password, email string) (bool, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if u != nil {
		return false, s.Users.SetStaffByUsername(ctx, username, true)
	}
	if password == "" {
		return false, fmt.Errorf("user %q does not exist; -password is required to create it", username)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return false, err
	}
	_, err = s.Users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
	}, nil)
	return err == nil, err
}

func fail(op string, err error) {
	slog.Error(op, "error", err)
	os.Exit(1)
}
