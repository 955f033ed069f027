// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"inmoplaza/internal/models"
	"inmoplaza/internal/observability"

	"gorm.io/gorm"
)

// AvailabilityRepository defines interface for availability window operations
type AvailabilityRepository interface {
	Create(ctx context.Context, window *models.AvailabilityWindow) error
	GetByID(ctx context.Context, id uint) (*models.AvailabilityWindow, error)
	ListByListing(ctx context.Context, listingID uint) ([]*models.AvailabilityWindow, error)
	DeleteByID(ctx context.Context, id, listingID uint) error
}

type availabilityRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{
		db:      db,
		log:     observability.NewRepoLogger("availability_windows"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *availabilityRepository) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	defer r.metrics.TrackQuery("create", "availability_windows")()

	if err := r.db.WithContext(ctx).Create(window).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"id":         window.ID,
		"listing_id": window.ListingID,
	})
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uint) (*models.AvailabilityWindow, error) {
	defer r.metrics.TrackQuery("read", "availability_windows")()

	var window models.AvailabilityWindow
	if err := r.db.WithContext(ctx).First(&window, id).Error; err != nil {
		return nil, err
	}
	return &window, nil
}

func (r *availabilityRepository) ListByListing(
	ctx context.Context,
	listingID uint,
) ([]*models.AvailabilityWindow, error) {
	defer r.metrics.TrackQuery("read", "availability_windows")()

	var windows []*models.AvailabilityWindow
	err := readDB(r.db).WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date asc").
		Find(&windows).Error
	return windows, err
}

// DeleteByID removes the window only if it belongs to listingID. Filtering by
// both keys keeps a forged window ID from touching another listing's calendar.
func (r *availabilityRepository) DeleteByID(ctx context.Context, id, listingID uint) error {
	defer r.metrics.TrackQuery("delete", "availability_windows")()

	result := r.db.WithContext(ctx).
		Where("id = ? AND listing_id = ?", id, listingID).
		Delete(&models.AvailabilityWindow{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.log.LogDelete(ctx, map[string]interface{}{
		"id":         id,
		"listing_id": listingID,
	})
	return nil
}
