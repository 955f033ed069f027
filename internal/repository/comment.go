package repository

import (
	"context"

	"inmoplaza/internal/models"
	"inmoplaza/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByListing(ctx context.Context, listingID uint) ([]*models.Comment, error)
	DeleteByID(ctx context.Context, id, listingID uint) error
}

type commentRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		db:      db,
		log:     observability.NewRepoLogger("comments"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer r.metrics.TrackQuery("create", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"id":         comment.ID,
		"listing_id": comment.ListingID,
		"author_id":  comment.AuthorID,
	})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer r.metrics.TrackQuery("read", "comments")()

	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByListing(
	ctx context.Context,
	listingID uint,
) ([]*models.Comment, error) {
	defer r.metrics.TrackQuery("read", "comments")()

	var comments []*models.Comment
	err := readDB(r.db).WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

// DeleteByID soft-deletes the comment only if it belongs to listingID.
func (r *commentRepository) DeleteByID(ctx context.Context, id, listingID uint) error {
	defer r.metrics.TrackQuery("delete", "comments")()

	result := r.db.WithContext(ctx).
		Where("id = ? AND listing_id = ?", id, listingID).
		Delete(&models.Comment{})
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
