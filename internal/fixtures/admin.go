package fixtures

import (
	"context"
	"log"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
	"github.com/dom/xwing-campaign/internal/service"
)

// SeedAdmin creates the administrator account unless it exists. Nothing is
// created without a password.
func SeedAdmin(ctx context.Context, users repository.UserRepository, auth *service.AuthService, name, password string) error {
	if password == "" {
		log.Printf("ADMIN_PASSWORD not set, skipping admin account %s", name)
		return nil
	}

	admin := &domain.User{Name: name, DisplayName: "Admin"}
	if _, err := auth.SetPassword(admin, password); err != nil {
		return err
	}
	if _, err := users.Put(ctx, admin); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil
		}
		return err
	}
	log.Printf("Created admin account %s", name)
	return nil
}
