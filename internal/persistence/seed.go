package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/repository"
)

// DemoUser is a provisioning record with a plaintext secret that is hashed on seed.
type DemoUser struct {
	User   domain.User
	Secret string
}

// DemoUsers are the accounts available out of the box.
func DemoUsers() []DemoUser {
	return []DemoUser{
		{
			User:   domain.User{ID: "1", Email: "demo@flexoffice.com", DisplayName: "Amal Benjouida", Role: domain.RoleEmployee},
			Secret: "demo123",
		},
		{
			User:   domain.User{ID: "2", Email: "manager@flexoffice.com", DisplayName: "Marie Martin", Role: domain.RoleManager},
			Secret: "manager123",
		},
	}
}

// DemoSpaces is the default catalog, in display order.
func DemoSpaces() []domain.Space {
	return []domain.Space{
		{ID: "1", Name: "Bureau 101", Type: "Bureau individuel", Capacity: 1, Equipment: []string{`Écran 27"`, "Wifi", "Prise USB"}, Available: true},
		{ID: "2", Name: "Salle Réunion A", Type: "Salle de réunion", Capacity: 8, Equipment: []string{"Écran TV", "Visioconférence", "Tableau blanc"}, Available: true},
		{ID: "3", Name: "Bureau 205", Type: "Bureau individuel", Capacity: 1, Equipment: []string{`Écran 24"`, "Wifi"}, Available: true},
		{ID: "4", Name: "Espace Coworking", Type: "Open space", Capacity: 20, Equipment: []string{"Wifi", "Cuisine", "Café gratuit"}, Available: true},
		{ID: "5", Name: "Salle Créative", Type: "Salle de brainstorming", Capacity: 6, Equipment: []string{"Post-its", "Tableau blanc", "Feutres"}, Available: false},
	}
}

// Seed inserts users and spaces that do not exist yet.
func Seed(ctx context.Context, users repository.UserRepository, spaces repository.SpaceRepository,
	demoUsers []DemoUser, demoSpaces []domain.Space, bcryptCost int, logger *zap.Logger) error {
	for _, du := range demoUsers {
		hash, err := auth.HashPassword(du.Secret, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash secret for user %s: %w", du.User.ID, err)
		}
		user := du.User
		user.PasswordHash = hash
		if err := users.Save(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.ID, err)
		}
	}
	for i := range demoSpaces {
		if err := spaces.Save(ctx, &demoSpaces[i]); err != nil {
			return fmt.Errorf("seed space %s: %w", demoSpaces[i].ID, err)
		}
	}
	logger.Info("seed data applied", zap.Int("users", len(demoUsers)), zap.Int("spaces", len(demoSpaces)))
	return nil
}
