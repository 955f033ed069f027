package seed

import (
	"fmt"
	"log"

	"inmoplaza/internal/models"

	"gorm.io/gorm"
)

// Run populates the database with a small demo dataset: an admin, a handful
// of owners and visitors, rental and sale listings, availability calendars
// and rated comments.
func Run(db *gorm.DB) error {
	f := NewFactory(db)

	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@inmoplaza.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	owners := make([]*models.User, 0, 3)
	for i := 0; i < 3; i++ {
		owner, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to seed owner: %w", err)
		}
		owners = append(owners, owner)
	}

	visitor, err := f.CreateUser()
	if err != nil {
		return fmt.Errorf("failed to seed visitor: %w", err)
	}

	for _, owner := range owners {
		rental, err := f.CreateListing(owner, models.KindRental)
		if err != nil {
			return fmt.Errorf("failed to seed rental listing: %w", err)
		}
		if _, err := f.CreateWindows(rental, 3); err != nil {
			return fmt.Errorf("failed to seed availability: %w", err)
		}

		for _, rating := range []*int{intPtr(5), intPtr(4), nil} {
			if _, err := f.CreateComment(rental, visitor, rating); err != nil {
				return fmt.Errorf("failed to seed comment: %w", err)
			}
		}

		if _, err := f.CreateListing(owner, models.KindSale); err != nil {
			return fmt.Errorf("failed to seed sale listing: %w", err)
		}
	}

	log.Printf("Seeded demo data: admin user %q plus %d owners", admin.Username, len(owners))
	return nil
}

func intPtr(v int) *int {
	return &v
}
