// seed-admin creates the first admin user from env:
//
//	ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_NAME (optional, default "Administrator")
//
// Existing admins are left untouched except for a password reset when
// ADMIN_RESET_PASSWORD=true.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/models"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/utils"
)

func main() {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	name := strings.TrimSpace(os.Getenv("ADMIN_NAME"))
	if name == "" {
		name = "Administrator"
	}
	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	existing, err := models.GetUserByEmail(ctx, email)
	if err == nil {
		if !strings.EqualFold(strings.TrimSpace(os.Getenv("ADMIN_RESET_PASSWORD")), "true") {
			fmt.Printf("admin %q already exists (id=%d); nothing to do\n", email, existing.ID)
			return
		}
		hashed, err := utils.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
			os.Exit(1)
		}
		if err := db.WithContext(ctx).Model(existing).Update("password", string(hashed)).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to reset password: %v\n", err)
			os.Exit(1)
		}
		_ = existing.RemoveInstanceRedis()
		fmt.Printf("admin %q password reset (id=%d)\n", email, existing.ID)
		return
	}

	user, err := models.CreateUser(ctx, &models.NewUser{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.UserRoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin %q created (id=%d)\n", email, user.ID)
}
