package auth

import (
	"context"
	"strings"

	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

// SeedAdmin ensures a bootstrap admin account exists. An empty password
// skips seeding so production boots cannot create a default credential.
func SeedAdmin(ctx context.Context, q db.Querier, email, displayName, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	store := NewStore(q)
	count, err := store.CountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = store.Insert(ctx, User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Role:         RoleAdmin,
		Permissions:  PermissionsForRole(RoleAdmin),
		Active:       true,
	})
	return err
}
