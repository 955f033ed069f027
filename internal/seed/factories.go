// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inmoplaza/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with a hashed password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateListing persists a listing owned by the given user.
func (f *Factory) CreateListing(owner *models.User, kind models.ListingKind, overrides ...func(*models.Listing)) (*models.Listing, error) {
	price := gofakeit.Price(400, 1800)
	if kind == models.KindSale {
		price = gofakeit.Price(90000, 650000)
	}

	listing := &models.Listing{
		Title:       fmt.Sprintf("%s en %s", gofakeit.RandomString([]string{"Piso", "Ático", "Chalet", "Estudio"}), gofakeit.City()),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		City:        gofakeit.City(),
		Price:       price,
		Kind:        kind,
		OwnerID:     owner.ID,
	}
	for _, override := range overrides {
		override(listing)
	}

	if err := f.db.Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CreateWindows persists n consecutive non-overlapping availability windows
// for a rental listing, starting tomorrow.
func (f *Factory) CreateWindows(listing *models.Listing, n int) ([]*models.AvailabilityWindow, error) {
	start := time.Now().UTC().AddDate(0, 0, 1)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	windows := make([]*models.AvailabilityWindow, 0, n)
	for i := 0; i < n; i++ {
		length := 3 + f.rnd.Intn(10)
		window := &models.AvailabilityWindow{
			ListingID: listing.ID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, length),
		}
		if err := f.db.Create(window).Error; err != nil {
			return nil, err
		}
		windows = append(windows, window)
		// Leave a gap so closed intervals never touch.
		start = window.EndDate.AddDate(0, 0, 1+f.rnd.Intn(5))
	}
	return windows, nil
}

// CreateComment persists a comment by the given author, optionally rated.
func (f *Factory) CreateComment(listing *models.Listing, author *models.User, rating *int) (*models.Comment, error) {
	comment := &models.Comment{
		ListingID:  listing.ID,
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Body:       gofakeit.Sentence(12),
		Rating:     rating,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
