// Package service implements the business rules of the marketplace core.
package service

import (
	"context"
	"errors"
	"time"

	"inmoplaza/internal/database"
	"inmoplaza/internal/middleware"
	"inmoplaza/internal/models"
	"inmoplaza/internal/observability"
	"inmoplaza/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// DateLayout is the wire format for availability dates.
const DateLayout = "2006-01-02"

// User-facing messages, surfaced verbatim by the frontend.
const (
	msgInvalidDates    = "las fechas no son válidas"
	msgStartAfterEnd   = "la fecha de inicio debe ser anterior a la fecha de fin"
	msgStartInPast     = "la fecha de inicio no puede estar en el pasado"
	msgDatesOverlap    = "las fechas se solapan con una disponibilidad existente"
	msgNotRental       = "la disponibilidad solo aplica a inmuebles en alquiler"
	msgNotListingOwner = "solo el propietario puede gestionar la disponibilidad"
)

// AvailabilityService is the sole entry point for mutating a listing's
// availability calendar. Authorization and temporal invariants are enforced
// here; the repository only adds the storage-level exclusion constraint as a
// second line of defense.
type AvailabilityService struct {
	windows  repository.AvailabilityRepository
	listings repository.ListingRepository
	locks    *listingLocks
	now      func() time.Time
}

// AddWindowInput carries the raw caller-supplied data for window creation.
// Dates arrive as strings so that parse failures are part of the service's
// own precondition order.
type AddWindowInput struct {
	ListingID   uint
	RequesterID uint
	StartDate   string
	EndDate     string
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	windows repository.AvailabilityRepository,
	listings repository.ListingRepository,
) *AvailabilityService {
	return &AvailabilityService{
		windows:  windows,
		listings: listings,
		locks:    newListingLocks(),
		now:      time.Now,
	}
}

// AddWindow validates and persists a new availability window.
// Preconditions are checked in a fixed order; the first failure wins.
func (s *AvailabilityService) AddWindow(ctx context.Context, in AddWindowInput) (*models.AvailabilityWindow, error) {
	span, ctx := observability.NewSpan(ctx, "availability.AddWindow")
	defer span.End()
	span.AddAttributes(attribute.Int("listing.id", int(in.ListingID)))

	start, err := time.ParseInLocation(DateLayout, in.StartDate, time.UTC)
	if err != nil {
		return nil, s.reject("invalid_dates", models.NewInvalidInputError(msgInvalidDates))
	}
	end, err := time.ParseInLocation(DateLayout, in.EndDate, time.UTC)
	if err != nil {
		return nil, s.reject("invalid_dates", models.NewInvalidInputError(msgInvalidDates))
	}

	listing, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.reject("not_found", models.NewNotFoundError("el inmueble", in.ListingID))
		}
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	if listing.OwnerID != in.RequesterID {
		return nil, s.reject("forbidden", models.NewForbiddenError(msgNotListingOwner))
	}

	if !listing.IsRental() {
		return nil, s.reject("not_rental", models.NewInvalidOperationError(msgNotRental))
	}

	if !start.Before(end) {
		return nil, s.reject("invalid_dates", models.NewInvalidInputError(msgStartAfterEnd))
	}

	if start.Before(s.today()) {
		return nil, s.reject("invalid_dates", models.NewInvalidInputError(msgStartInPast))
	}

	// Hold the per-listing lock across check and insert so concurrent
	// requests cannot both pass the overlap check.
	unlock := s.locks.Acquire(in.ListingID)
	defer unlock()

	existing, err := s.windows.ListByListing(ctx, in.ListingID)
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}
	for _, w := range existing {
		if w.Overlaps(start, end) {
			return nil, s.reject("overlap", models.NewConflictError(msgDatesOverlap))
		}
	}

	window := &models.AvailabilityWindow{
		ListingID: in.ListingID,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.windows.Create(ctx, window); err != nil {
		// The exclusion constraint catches races the lock cannot see,
		// e.g. another instance of this process.
		if database.IsExclusionViolation(err) {
			return nil, s.reject("overlap", models.NewConflictError(msgDatesOverlap))
		}
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	middleware.AvailabilityWindowsCreated.Inc()
	return window, nil
}

// RemoveWindow deletes a window after verifying listing ownership.
func (s *AvailabilityService) RemoveWindow(ctx context.Context, listingID, windowID, requesterID uint) error {
	span, ctx := observability.NewSpan(ctx, "availability.RemoveWindow")
	defer span.End()

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("el inmueble", listingID)
		}
		span.SetError(err)
		return models.NewInternalError(err)
	}

	if listing.OwnerID != requesterID {
		return models.NewForbiddenError(msgNotListingOwner)
	}

	if err := s.windows.DeleteByID(ctx, windowID, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("la disponibilidad", windowID)
		}
		span.SetError(err)
		return models.NewInternalError(err)
	}

	return nil
}

// ListWindows returns a listing's windows ordered by start date. Availability
// is public information; a sale listing or an unknown listing simply yields
// an empty slice.
func (s *AvailabilityService) ListWindows(ctx context.Context, listingID uint) ([]*models.AvailabilityWindow, error) {
	windows, err := s.windows.ListByListing(ctx, listingID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return windows, nil
}

// today truncates the request clock to date granularity in UTC.
func (s *AvailabilityService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AvailabilityService) reject(reason string, err *models.AppError) *models.AppError {
	middleware.AvailabilityWindowsRejected.WithLabelValues(reason).Inc()
	return err
}
