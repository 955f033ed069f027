package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"inmoplaza/internal/cache"
	"inmoplaza/internal/middleware"
	"inmoplaza/internal/models"
	"inmoplaza/internal/observability"
	"inmoplaza/internal/repository"

	"gorm.io/gorm"
)

// Comment body bounds, counted in runes after trimming.
const (
	minCommentLen = 10
	maxCommentLen = 1000
)

const (
	msgCommentTooShort  = "el comentario debe tener al menos 10 caracteres"
	msgCommentTooLong   = "el comentario no puede superar los 1000 caracteres"
	msgRatingOutOfRange = "la valoración debe estar entre 1 y 5"
	msgAccountBlocked   = "tu cuenta está bloqueada"
	msgNotCommentAuthor = "no puedes eliminar comentarios de otros usuarios"
	msgCommentMismatch  = "el comentario no pertenece a este inmueble"
)

// CommentService validates and authorizes comment mutation and computes
// rating aggregates.
type CommentService struct {
	comments repository.CommentRepository
	listings repository.ListingRepository
	users    repository.UserRepository
	ratings  *cache.RatingCache
}

// AddCommentInput carries the caller-supplied data for comment creation.
// Rating is optional; some entry points in the frontend never send one.
type AddCommentInput struct {
	ListingID uint
	AuthorID  uint
	Body      string
	Rating    *int
}

// NewCommentService creates a new CommentService. The rating cache may be
// nil, in which case aggregates are recomputed on every call.
func NewCommentService(
	comments repository.CommentRepository,
	listings repository.ListingRepository,
	users repository.UserRepository,
	ratings *cache.RatingCache,
) *CommentService {
	return &CommentService{
		comments: comments,
		listings: listings,
		users:    users,
		ratings:  ratings,
	}
}

// AddComment validates and persists a comment on a listing.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	span, ctx := observability.NewSpan(ctx, "comments.AddComment")
	defer span.End()

	if _, err := s.listings.GetByID(ctx, in.ListingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("el inmueble", in.ListingID)
		}
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	author, err := s.users.GetByID(ctx, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("el usuario", in.AuthorID)
		}
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	if author.Blocked {
		return nil, models.NewForbiddenError(msgAccountBlocked)
	}

	body := strings.TrimSpace(in.Body)
	switch n := utf8.RuneCountInString(body); {
	case n < minCommentLen:
		return nil, models.NewInvalidInputError(msgCommentTooShort)
	case n > maxCommentLen:
		return nil, models.NewInvalidInputError(msgCommentTooLong)
	}

	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, models.NewInvalidInputError(msgRatingOutOfRange)
	}

	comment := &models.Comment{
		ListingID:  in.ListingID,
		AuthorID:   in.AuthorID,
		AuthorName: author.Username,
		Body:       body,
		Rating:     in.Rating,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	middleware.CommentsCreated.WithLabelValues(ratedLabel(in.Rating)).Inc()
	s.ratings.Invalidate(ctx, in.ListingID)

	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author or an
// administrator may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, listingID, commentID, requesterID uint) error {
	span, ctx := observability.NewSpan(ctx, "comments.DeleteComment")
	defer span.End()

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("el comentario", commentID)
		}
		span.SetError(err)
		return models.NewInternalError(err)
	}
	if comment.ListingID != listingID {
		return models.NewInvalidInputError(msgCommentMismatch)
	}

	deletedBy := "author"
	if comment.AuthorID != requesterID {
		requester, err := s.users.GetByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("el usuario", requesterID)
			}
			span.SetError(err)
			return models.NewInternalError(err)
		}
		if !requester.IsAdmin() {
			return models.NewForbiddenError(msgNotCommentAuthor)
		}
		deletedBy = "admin"
	}

	if err := s.comments.DeleteByID(ctx, commentID, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("el comentario", commentID)
		}
		span.SetError(err)
		return models.NewInternalError(err)
	}

	middleware.CommentsDeleted.WithLabelValues(deletedBy).Inc()
	s.ratings.Invalidate(ctx, listingID)

	return nil
}

// ListComments returns a listing's comments newest first. Public, no
// authorization.
func (s *CommentService) ListComments(ctx context.Context, listingID uint) ([]*models.Comment, error) {
	comments, err := s.comments.ListByListing(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ComputeAggregate derives the rating summary for a listing from its rated
// comments. The mean is rounded half-up to one decimal; Stars is the mean
// rounded half-up to a whole star. A listing without rated comments yields
// count 0 and a nil mean.
func (s *CommentService) ComputeAggregate(ctx context.Context, listingID uint) (*models.RatingAggregate, error) {
	if agg, ok := s.ratings.Get(ctx, listingID); ok {
		return agg, nil
	}

	comments, err := s.comments.ListByListing(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	count := 0
	sum := 0
	for _, c := range comments {
		if c.Rating != nil {
			count++
			sum += *c.Rating
		}
	}

	agg := &models.RatingAggregate{Count: count}
	if count > 0 {
		mean := roundHalfUp(float64(sum)/float64(count), 1)
		agg.Mean = &mean
		agg.Stars = int(roundHalfUp(mean, 0))
	}

	s.ratings.Set(ctx, listingID, agg)
	return agg, nil
}

// roundHalfUp rounds v half-up to the given number of decimals.
// Ratings are always positive, so the negative case does not arise.
func roundHalfUp(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Floor(v*shift+0.5) / shift
}

func ratedLabel(rating *int) string {
	if rating != nil {
		return "true"
	}
	return "false"
}
