package server

import (
	"inmoplaza/internal/models"
	"inmoplaza/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments returns all comments for a listing, newest first (public).
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	return c.JSON(comments)
}

// CreateComment creates a comment on a listing (protected). Rating is
// optional; the browse page posts comments without one.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body   string `json:"body"`
		Rating *int   `json:"rating"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidInputError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(ctx, service.AddCommentInput{
		ListingID: listingID,
		AuthorID:  userID,
		Body:      req.Body,
		Rating:    req.Rating,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment deletes a comment (author or admin).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, listingID, commentID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "comentario eliminado"})
}

// GetRating returns the aggregate rating for a listing (public).
func (s *Server) GetRating(c *fiber.Ctx) error {
	ctx := c.UserContext()

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	agg, err := s.commentService.ComputeAggregate(ctx, listingID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(agg)
}
