package service

import (
	"context"
	"fmt"
	"time"

	"woki-api/core/errors"
	"woki-api/core/logger"
	"woki-api/core/params"
	bookingentity "woki-api/modules/booking/entity"
	"woki-api/modules/notification/dto"
	"woki-api/modules/notification/entity"
	"woki-api/modules/notification/repository"

	"github.com/google/uuid"
)

// NotificationService records booking lifecycle events. Writes are
// best-effort: a failed insert is logged and never propagated to the booking
// flow.
type NotificationService struct {
	repo *repository.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func (s *NotificationService) BookingCreated(ctx context.Context, booking *bookingentity.Booking) {
	msg := fmt.Sprintf("booking %s created for party of %d", booking.Reference, booking.PartySize)
	if booking.Status == bookingentity.BookingStatusPending && len(booking.TableIDs) == 0 {
		msg = fmt.Sprintf("party of %d placed on the waitlist", booking.PartySize)
	}
	s.record(ctx, booking, entity.TypeBookingCreated, msg)
}

func (s *NotificationService) BookingCancelled(ctx context.Context, booking *bookingentity.Booking) {
	s.record(ctx, booking, entity.TypeBookingCancelled,
		fmt.Sprintf("booking %s cancelled", booking.Reference))
}

func (s *NotificationService) BookingStatusChanged(ctx context.Context, booking *bookingentity.Booking) {
	s.record(ctx, booking, entity.TypeBookingStatus,
		fmt.Sprintf("booking %s is now %s", booking.Reference, booking.Status))
}

func (s *NotificationService) WaitlistPromoted(ctx context.Context, booking *bookingentity.Booking) {
	s.record(ctx, booking, entity.TypeWaitlistPromoted,
		fmt.Sprintf("waitlisted party of %d promoted to booking %s", booking.PartySize, booking.Reference))
}

func (s *NotificationService) record(ctx context.Context, booking *bookingentity.Booking, typ, msg string) {
	n := &entity.Notification{
		ID:        uuid.New(),
		VenueID:   booking.VenueID,
		SectorID:  booking.SectorID,
		BookingID: booking.ID,
		Type:      typ,
		Message:   msg,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Warn("NotificationService:Record:Error", "error", err, "type", typ, "booking_id", booking.ID)
	}
}

func (s *NotificationService) ListBySector(ctx context.Context, sectorID uuid.UUID, p params.QueryParams) (*dto.PaginatedNotifications, *errors.AppError) {
	items, total, err := s.repo.ListBySector(ctx, sectorID, p)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &dto.PaginatedNotifications{
		Items:      items,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}
