package server

import (
	"inmoplaza/internal/models"
	"inmoplaza/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAvailability returns all availability windows for a listing (public).
// A listing without windows yields an empty array, never an error.
func (s *Server) GetAvailability(c *fiber.Ctx) error {
	ctx := c.UserContext()

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	windows, err := s.availabilityService.ListWindows(ctx, listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if windows == nil {
		windows = []*models.AvailabilityWindow{}
	}

	return c.JSON(windows)
}

// CreateAvailability creates an availability window for a listing (owner only).
func (s *Server) CreateAvailability(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidInputError("Invalid request body"))
	}

	window, err := s.availabilityService.AddWindow(ctx, service.AddWindowInput{
		ListingID:   listingID,
		RequesterID: userID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(window)
}

// DeleteAvailability removes an availability window (owner only).
func (s *Server) DeleteAvailability(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	windowID, err := s.parseID(c, "windowId")
	if err != nil {
		return nil
	}

	if err := s.availabilityService.RemoveWindow(ctx, listingID, windowID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "disponibilidad eliminada"})
}
