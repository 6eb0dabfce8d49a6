package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"woki-api/core/constants"
	"woki-api/core/errors"
	"woki-api/core/lock"
	"woki-api/core/logger"
	"woki-api/core/params"
	"woki-api/core/utils"
	"woki-api/modules/booking/dto"
	"woki-api/modules/booking/entity"
	venueentity "woki-api/modules/venue/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store is the booking-side storage contract. Every operation is atomic at
// single-call granularity; the service adds only the lock registry on top.
type Store interface {
	CreateBooking(ctx context.Context, booking *entity.Booking) error
	GetBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	// GetConfirmedBookingsForTables returns CONFIRMED bookings touching any
	// of the tables and overlapping [from, to).
	GetConfirmedBookingsForTables(ctx context.Context, tableIDs []string, from, to time.Time) ([]entity.Booking, error)
	ListBookingsForSector(ctx context.Context, sectorID uuid.UUID, from, to time.Time, p params.QueryParams) ([]entity.Booking, int, error)
	CreateWaitlistEntry(ctx context.Context, e *entity.WaitlistEntry) error
	// ListUnexpiredWaitlistEntries returns entries for the sector and date
	// with expires_at > now, ordered by creation time (FIFO).
	ListUnexpiredWaitlistEntries(ctx context.Context, sectorID uuid.UUID, date string, now time.Time) ([]entity.WaitlistEntry, error)
	DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error
	// DeleteExpiredWaitlistEntries removes entries with expires_at <= now and
	// returns the removed entries.
	DeleteExpiredWaitlistEntries(ctx context.Context, now time.Time) ([]entity.WaitlistEntry, error)
}

// VenueStore is the inventory read contract the engine consumes.
type VenueStore interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*venueentity.Venue, error)
	GetSector(ctx context.Context, id uuid.UUID) (*venueentity.Sector, error)
	GetTablesInSector(ctx context.Context, sectorID uuid.UUID) ([]venueentity.Table, error)
	GetBlackoutsForTables(ctx context.Context, tableIDs []string) ([]venueentity.Blackout, error)
}

// IdempotencyStore caches booking results by caller-supplied key.
type IdempotencyStore interface {
	GetResult(ctx context.Context, key string) (*entity.Booking, error)
	StoreResult(ctx context.Context, key string, booking *entity.Booking, ttl time.Duration) error
}

// Notifier records booking lifecycle events. Best-effort: implementations
// must not fail the booking flow.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *entity.Booking)
	BookingCancelled(ctx context.Context, booking *entity.Booking)
	BookingStatusChanged(ctx context.Context, booking *entity.Booking)
	WaitlistPromoted(ctx context.Context, booking *entity.Booking)
}

type BookingService interface {
	Discover(ctx context.Context, req dto.DiscoverRequest) ([]entity.Candidate, *errors.AppError)
	Book(ctx context.Context, req dto.BookRequest) (*entity.Booking, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError)
	List(ctx context.Context, sectorID uuid.UUID, date string, p params.QueryParams) (*dto.PaginatedBookings, *errors.AppError)
	Cancel(ctx context.Context, id uuid.UUID) *errors.AppError
	Approve(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError)
	Reject(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError)
	PurgeExpiredWaitlist(ctx context.Context) (int, *errors.AppError)
}

type bookingService struct {
	store    Store
	venues   VenueStore
	idem     IdempotencyStore
	locks    *lock.Registry
	brain    *WokiBrain
	notifier Notifier

	largeGroupThreshold int
	waitlistTTL         time.Duration
	idempotencyTTL      time.Duration
	now                 func() time.Time
}

type Option func(*bookingService)

func WithLargeGroupThreshold(n int) Option {
	return func(s *bookingService) {
		if n > 0 {
			s.largeGroupThreshold = n
		}
	}
}

func WithWaitlistTTL(d time.Duration) Option {
	return func(s *bookingService) {
		if d > 0 {
			s.waitlistTTL = d
		}
	}
}

func WithIdempotencyTTL(d time.Duration) Option {
	return func(s *bookingService) {
		if d > 0 {
			s.idempotencyTTL = d
		}
	}
}

func WithResultLimit(n int) Option {
	return func(s *bookingService) {
		if n > 0 {
			s.brain.ResultLimit = n
		}
	}
}

// WithClock injects the time source, useful in tests.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewBookingService(store Store, venues VenueStore, idem IdempotencyStore, locks *lock.Registry, notifier Notifier, opts ...Option) BookingService {
	s := &bookingService{
		store:               store,
		venues:              venues,
		idem:                idem,
		locks:               locks,
		brain:               NewWokiBrain(),
		notifier:            notifier,
		largeGroupThreshold: constants.DefaultLargeGroupThreshold,
		waitlistTTL:         constants.DefaultWaitlistTTL,
		idempotencyTTL:      constants.DefaultIdempotencyTTL,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// bookParams is a validated request, also the frozen form kept on the
// waitlist.
type bookParams struct {
	venueID        uuid.UUID
	sectorID       uuid.UUID
	partySize      int
	duration       time.Duration
	date           string
	windowStart    *string
	windowEnd      *string
	idempotencyKey string
}

// requestContext is everything resolved against the venue: timezone, the
// absolute service windows for the date, and the requested sub-window.
type requestContext struct {
	venue     *venueentity.Venue
	sector    *venueentity.Sector
	windows   []entity.Gap
	requested *entity.Gap
	dayStart  time.Time
	dayEnd    time.Time
}

func (s *bookingService) Discover(ctx context.Context, req dto.DiscoverRequest) ([]entity.Candidate, *errors.AppError) {
	p, appErr := validateParams(req.VenueID, req.SectorID, req.Date, req.PartySize, req.DurationMinutes, req.WindowStart, req.WindowEnd)
	if appErr != nil {
		return nil, appErr
	}

	rc, appErr := s.resolve(ctx, p)
	if appErr != nil {
		return nil, appErr
	}
	// Absence of candidates is meaningful, not an error: a requested window
	// outside service hours simply yields nothing here.
	in, appErr := s.brainInput(ctx, rc, p, req.Limit)
	if appErr != nil {
		return nil, appErr
	}

	candidates := s.brain.FindCandidates(*in)
	logger.Info("BookingService:Discover:Done",
		"sector_id", p.sectorID, "date", p.date, "party_size", p.partySize, "candidates", len(candidates))
	return candidates, nil
}

func (s *bookingService) Book(ctx context.Context, req dto.BookRequest) (*entity.Booking, *errors.AppError) {
	p, appErr := validateParams(req.VenueID, req.SectorID, req.Date, req.PartySize, req.DurationMinutes, req.WindowStart, req.WindowEnd)
	if appErr != nil {
		return nil, appErr
	}
	p.idempotencyKey = req.IdempotencyKey
	return s.book(ctx, p, true)
}

// book runs the transaction. allowWaitlist is false during replay so a
// failed attempt leaves the entry queued instead of re-enqueuing it.
func (s *bookingService) book(ctx context.Context, p bookParams, allowWaitlist bool) (*entity.Booking, *errors.AppError) {
	// Fast-path idempotency check. Optimization only: the authoritative
	// check happens again inside the lock.
	if p.idempotencyKey != "" {
		if hit, err := s.idem.GetResult(ctx, p.idempotencyKey); err != nil {
			logger.Warn("BookingService:Book:IdempotencyLookup:Error", "error", err)
		} else if hit != nil {
			logger.Info("BookingService:Book:IdempotentHit", "booking_id", hit.ID, "key", p.idempotencyKey)
			return hit, nil
		}
	}

	rc, appErr := s.resolve(ctx, p)
	if appErr != nil {
		return nil, appErr
	}
	if rc.requested != nil && len(rc.venue.ServiceWindows) > 0 {
		intersects := false
		for _, w := range rc.windows {
			if w.Overlaps(*rc.requested) {
				intersects = true
				break
			}
		}
		if !intersects {
			return nil, errors.NewAppError(errors.ErrOutsideServiceWindow, "requested window is outside service hours", nil)
		}
	}

	in, appErr := s.brainInput(ctx, rc, p, 1)
	if appErr != nil {
		return nil, appErr
	}
	candidates := s.brain.FindCandidates(*in)

	if len(candidates) == 0 {
		if !allowWaitlist {
			return nil, errors.NewAppError(errors.ErrNoCapacity, "no feasible seating", nil)
		}
		return s.enqueueWaitlist(ctx, p, rc)
	}

	cand := candidates[0]
	key := lockKey(p.venueID, p.sectorID, cand.TableIDs, cand.StartsAt)
	if err := s.locks.Acquire(ctx, key); err != nil {
		return nil, errors.Internal(err)
	}
	defer s.locks.Release(key)

	// Re-check idempotency inside the lock: two callers with the same key
	// can both miss the fast path.
	if p.idempotencyKey != "" {
		if hit, err := s.idem.GetResult(ctx, p.idempotencyKey); err != nil {
			logger.Warn("BookingService:Book:IdempotencyRecheck:Error", "error", err)
		} else if hit != nil {
			logger.Info("BookingService:Book:IdempotentHitLocked", "booking_id", hit.ID, "key", p.idempotencyKey)
			return hit, nil
		}
	}

	// Double-check: the candidate was computed outside the lock, so another
	// writer may have taken the slot since.
	existing, err := s.store.GetConfirmedBookingsForTables(ctx, cand.TableIDs, rc.dayStart, rc.dayEnd)
	if err != nil {
		return nil, errors.Internal(err)
	}
	candidateGap := entity.Gap{Start: cand.StartsAt, End: cand.EndsAt}
	for _, b := range existing {
		if candidateGap.Overlaps(entity.Gap{Start: b.StartsAt, End: b.EndsAt}) {
			logger.Info("BookingService:Book:LostRace", "lock_key", key, "conflicting_booking", b.ID)
			return nil, errors.NewAppError(errors.ErrNoCapacity, "slot was taken by a concurrent booking", nil)
		}
	}

	status := entity.BookingStatusConfirmed
	if p.partySize >= s.largeGroupThreshold {
		status = entity.BookingStatusPending
	}
	now := s.now().UTC()
	booking := &entity.Booking{
		ID:        uuid.New(),
		VenueID:   p.venueID,
		SectorID:  p.sectorID,
		TableIDs:  pq.StringArray(cand.TableIDs),
		PartySize: p.partySize,
		StartsAt:  cand.StartsAt,
		EndsAt:    cand.EndsAt,
		Status:    status,
		Reference: utils.GenerateID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, errors.Internal(err)
	}
	if p.idempotencyKey != "" {
		if err := s.idem.StoreResult(ctx, p.idempotencyKey, booking, s.idempotencyTTL); err != nil {
			logger.Warn("BookingService:Book:IdempotencyStore:Error", "error", err, "key", p.idempotencyKey)
		}
	}
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking)
	}

	logger.Info("BookingService:Book:Committed",
		"booking_id", booking.ID, "status", booking.Status, "tables", strings.Join(cand.TableIDs, "+"),
		"starts_at", booking.StartsAt, "party_size", booking.PartySize)
	return booking, nil
}

// enqueueWaitlist is the implicit-waitlist path: the caller gets a PENDING
// placeholder booking (success, not a failure) while the frozen request
// waits for resources. The idempotency contract holds here too: retries with
// the same key get the same placeholder back.
func (s *bookingService) enqueueWaitlist(ctx context.Context, p bookParams, rc *requestContext) (*entity.Booking, *errors.AppError) {
	if p.idempotencyKey != "" {
		// There is no candidate to key the gate on, so serialize on the
		// idempotency key itself and re-check, mirroring the commit path.
		idemLock := "idem:" + p.idempotencyKey
		if err := s.locks.Acquire(ctx, idemLock); err != nil {
			return nil, errors.Internal(err)
		}
		defer s.locks.Release(idemLock)
		if hit, err := s.idem.GetResult(ctx, p.idempotencyKey); err != nil {
			logger.Warn("BookingService:Waitlist:IdempotencyRecheck:Error", "error", err)
		} else if hit != nil {
			logger.Info("BookingService:Waitlist:IdempotentHit", "booking_id", hit.ID, "key", p.idempotencyKey)
			return hit, nil
		}
	}

	now := s.now().UTC()

	// Provisional interval: the requested window, or the first service
	// window. No tables are assigned.
	provisional := rc.windows[0]
	if rc.requested != nil {
		provisional = *rc.requested
	}
	placeholder := &entity.Booking{
		ID:        uuid.New(),
		VenueID:   p.venueID,
		SectorID:  p.sectorID,
		TableIDs:  pq.StringArray{},
		PartySize: p.partySize,
		StartsAt:  provisional.Start,
		EndsAt:    provisional.End,
		Status:    entity.BookingStatusPending,
		Reference: utils.GenerateID(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	entry := &entity.WaitlistEntry{
		ID:                   uuid.New(),
		VenueID:              p.venueID,
		SectorID:             p.sectorID,
		PlaceholderBookingID: placeholder.ID,
		PartySize:            p.partySize,
		DurationMinutes:      int(p.duration / time.Minute),
		Date:                 p.date,
		WindowStart:          p.windowStart,
		WindowEnd:            p.windowEnd,
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.waitlistTTL),
	}
	if err := s.store.CreateWaitlistEntry(ctx, entry); err != nil {
		return nil, errors.Internal(err)
	}
	if err := s.store.CreateBooking(ctx, placeholder); err != nil {
		return nil, errors.Internal(err)
	}
	if p.idempotencyKey != "" {
		if err := s.idem.StoreResult(ctx, p.idempotencyKey, placeholder, s.idempotencyTTL); err != nil {
			logger.Warn("BookingService:Waitlist:IdempotencyStore:Error", "error", err, "key", p.idempotencyKey)
		}
	}
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, placeholder)
	}

	logger.Info("BookingService:Book:Waitlisted",
		"entry_id", entry.ID, "placeholder_id", placeholder.ID, "sector_id", p.sectorID, "date", p.date)
	return placeholder, nil
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, sectorID uuid.UUID, date string, p params.QueryParams) (*dto.PaginatedBookings, *errors.AppError) {
	sector, err := s.venues.GetSector(ctx, sectorID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if sector == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "sector not found", nil)
	}
	venue, err := s.venues.GetVenue(ctx, sector.VenueID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if venue == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "venue not found", nil)
	}
	loc, err := venue.Location()
	if err != nil {
		return nil, errors.Internal(err)
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", date)
	}

	items, total, err := s.store.ListBookingsForSector(ctx, sectorID, day, day.AddDate(0, 0, 1), p)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &dto.PaginatedBookings{
		Items:      items,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

// Cancel removes the booking and replays the waitlist for the freed
// sector/date. One promotion at most per cancellation.
func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID) *errors.AppError {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return errors.Internal(err)
	}
	if booking == nil {
		return errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return errors.Internal(err)
	}
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}
	logger.Info("BookingService:Cancel:Success", "booking_id", id)

	s.replayWaitlist(ctx, booking)
	return nil
}

func (s *bookingService) replayWaitlist(ctx context.Context, freed *entity.Booking) {
	venue, err := s.venues.GetVenue(ctx, freed.VenueID)
	if err != nil || venue == nil {
		logger.Error("BookingService:Replay:GetVenue:Error", "error", err, "venue_id", freed.VenueID)
		return
	}
	loc, err := venue.Location()
	if err != nil {
		logger.Error("BookingService:Replay:Timezone:Error", "error", err, "venue_id", freed.VenueID)
		return
	}
	date := freed.StartsAt.In(loc).Format("2006-01-02")

	entries, err := s.store.ListUnexpiredWaitlistEntries(ctx, freed.SectorID, date, s.now())
	if err != nil {
		logger.Error("BookingService:Replay:List:Error", "error", err, "sector_id", freed.SectorID)
		return
	}

	for _, e := range entries {
		p := bookParams{
			venueID:     e.VenueID,
			sectorID:    e.SectorID,
			partySize:   e.PartySize,
			duration:    time.Duration(e.DurationMinutes) * time.Minute,
			date:        e.Date,
			windowStart: e.WindowStart,
			windowEnd:   e.WindowEnd,
		}
		promoted, appErr := s.book(ctx, p, false)
		if appErr != nil || promoted == nil {
			continue
		}
		if err := s.store.DeleteWaitlistEntry(ctx, e.ID); err != nil {
			logger.Error("BookingService:Replay:DeleteEntry:Error", "error", err, "entry_id", e.ID)
		}
		// The promoted booking supersedes the no-table placeholder.
		if e.PlaceholderBookingID != uuid.Nil {
			if err := s.store.DeleteBooking(ctx, e.PlaceholderBookingID); err != nil {
				logger.Error("BookingService:Replay:DeletePlaceholder:Error", "error", err, "booking_id", e.PlaceholderBookingID)
			}
		}
		if s.notifier != nil {
			s.notifier.WaitlistPromoted(ctx, promoted)
		}
		logger.Info("BookingService:Replay:Promoted", "entry_id", e.ID, "booking_id", promoted.ID)
		// One promotion per release event: a single freed slot must not
		// cascade into reallocation of the whole queue.
		return
	}
}

// Approve confirms a PENDING booking. Because PENDING bookings hold no
// capacity, approval re-checks the tables against CONFIRMED bookings under
// the gate before the transition, so two overlapping pending large groups
// cannot both become CONFIRMED.
func (s *bookingService) Approve(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only pending bookings can be approved or rejected", string(booking.Status))
	}
	if len(booking.TableIDs) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "waitlisted booking has no assigned tables", nil)
	}

	key := lockKey(booking.VenueID, booking.SectorID, booking.TableIDs, booking.StartsAt)
	if err := s.locks.Acquire(ctx, key); err != nil {
		return nil, errors.Internal(err)
	}
	defer s.locks.Release(key)

	existing, err := s.store.GetConfirmedBookingsForTables(ctx, booking.TableIDs, booking.StartsAt, booking.EndsAt)
	if err != nil {
		return nil, errors.Internal(err)
	}
	interval := entity.Gap{Start: booking.StartsAt, End: booking.EndsAt}
	for _, b := range existing {
		if b.ID != booking.ID && interval.Overlaps(entity.Gap{Start: b.StartsAt, End: b.EndsAt}) {
			logger.Info("BookingService:Approve:Conflict", "booking_id", id, "conflicting_booking", b.ID)
			return nil, errors.NewAppError(errors.ErrNoCapacity, "tables were taken by a confirmed booking", nil)
		}
	}

	now := s.now().UTC()
	if err := s.store.UpdateBookingStatus(ctx, id, entity.BookingStatusConfirmed, now); err != nil {
		return nil, errors.Internal(err)
	}
	booking.Status = entity.BookingStatusConfirmed
	booking.UpdatedAt = now
	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, booking)
	}
	logger.Info("BookingService:Approve:Success", "booking_id", id)
	return booking, nil
}

func (s *bookingService) Reject(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError) {
	return s.transition(ctx, id, entity.BookingStatusCancelled)
}

func (s *bookingService) transition(ctx context.Context, id uuid.UUID, to entity.BookingStatus) (*entity.Booking, *errors.AppError) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "only pending bookings can be approved or rejected", string(booking.Status))
	}

	now := s.now().UTC()
	if err := s.store.UpdateBookingStatus(ctx, id, to, now); err != nil {
		return nil, errors.Internal(err)
	}
	booking.Status = to
	booking.UpdatedAt = now
	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, booking)
	}
	logger.Info("BookingService:Transition:Success", "booking_id", id, "status", to)
	return booking, nil
}

func (s *bookingService) PurgeExpiredWaitlist(ctx context.Context) (int, *errors.AppError) {
	expired, err := s.store.DeleteExpiredWaitlistEntries(ctx, s.now())
	if err != nil {
		return 0, errors.Internal(err)
	}
	for _, e := range expired {
		if e.PlaceholderBookingID == uuid.Nil {
			continue
		}
		if err := s.store.DeleteBooking(ctx, e.PlaceholderBookingID); err != nil {
			logger.Error("BookingService:PurgeExpiredWaitlist:DeletePlaceholder:Error",
				"error", err, "booking_id", e.PlaceholderBookingID)
		}
	}
	if len(expired) > 0 {
		logger.Info("BookingService:PurgeExpiredWaitlist:Done", "removed", len(expired))
	}
	return len(expired), nil
}

// resolve loads the venue and sector, checks ownership, and materializes the
// service windows and requested window as absolute instants for the date.
func (s *bookingService) resolve(ctx context.Context, p bookParams) (*requestContext, *errors.AppError) {
	venue, err := s.venues.GetVenue(ctx, p.venueID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if venue == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "venue not found", nil)
	}
	sector, err := s.venues.GetSector(ctx, p.sectorID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if sector == nil || sector.VenueID != venue.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "sector not found in venue", nil)
	}

	loc, err := venue.Location()
	if err != nil {
		return nil, errors.Internal(err)
	}
	day, err := time.ParseInLocation("2006-01-02", p.date, loc)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", p.date)
	}
	dayEnd := day.AddDate(0, 0, 1)

	var windows []entity.Gap
	if len(venue.ServiceWindows) == 0 {
		// No windows means the whole day is open.
		windows = []entity.Gap{{Start: day, End: dayEnd}}
	} else {
		for _, w := range venue.ServiceWindows {
			start, end, err := w.Resolve(day, loc)
			if err != nil {
				return nil, errors.Internal(err)
			}
			windows = append(windows, entity.Gap{Start: start, End: end})
		}
	}

	var requested *entity.Gap
	if p.windowStart != nil && p.windowEnd != nil {
		sw := venueentity.ServiceWindow{Start: *p.windowStart, End: *p.windowEnd}
		start, end, err := sw.Resolve(day, loc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid requested window", err.Error())
		}
		requested = &entity.Gap{Start: start, End: end}
	}

	return &requestContext{
		venue:     venue,
		sector:    sector,
		windows:   windows,
		requested: requested,
		dayStart:  day,
		dayEnd:    dayEnd,
	}, nil
}

// brainInput gathers tables, committed bookings and blackouts for the
// allocation strategy.
func (s *bookingService) brainInput(ctx context.Context, rc *requestContext, p bookParams, limit int) (*BrainInput, *errors.AppError) {
	tables, err := s.venues.GetTablesInSector(ctx, p.sectorID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	tableIDs := make([]string, 0, len(tables))
	for _, t := range tables {
		tableIDs = append(tableIDs, t.ID.String())
	}

	bookingsByTable := make(map[string][]entity.Booking)
	blackoutsByTable := make(map[string][]venueentity.Blackout)
	if len(tableIDs) > 0 {
		bookings, err := s.store.GetConfirmedBookingsForTables(ctx, tableIDs, rc.dayStart, rc.dayEnd)
		if err != nil {
			return nil, errors.Internal(err)
		}
		for _, b := range bookings {
			for _, id := range b.TableIDs {
				bookingsByTable[id] = append(bookingsByTable[id], b)
			}
		}
		blackouts, err := s.venues.GetBlackoutsForTables(ctx, tableIDs)
		if err != nil {
			return nil, errors.Internal(err)
		}
		for _, b := range blackouts {
			blackoutsByTable[b.TableID.String()] = append(blackoutsByTable[b.TableID.String()], b)
		}
	}

	return &BrainInput{
		Tables:           tables,
		Windows:          rc.windows,
		Requested:        rc.requested,
		PartySize:        p.partySize,
		Duration:         p.duration,
		Limit:            limit,
		BookingsByTable:  bookingsByTable,
		BlackoutsByTable: blackoutsByTable,
	}, nil
}

func validateParams(venueID, sectorID, date string, partySize, durationMinutes int, windowStart, windowEnd string) (bookParams, *errors.AppError) {
	var p bookParams
	if venueID == "" || sectorID == "" {
		return p, errors.NewAppError(errors.ErrInvalidInput, "venue_id and sector_id are required", nil)
	}
	vid, err := uuid.Parse(venueID)
	if err != nil {
		return p, errors.NewAppError(errors.ErrInvalidInput, "invalid venue_id", venueID)
	}
	sid, err := uuid.Parse(sectorID)
	if err != nil {
		return p, errors.NewAppError(errors.ErrInvalidInput, "invalid sector_id", sectorID)
	}
	if partySize < 1 {
		return p, errors.NewAppError(errors.ErrInvalidInput, "party_size must be a positive integer", partySize)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return p, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", date)
	}

	duration := constants.DefaultDurationForPartySize(partySize)
	if durationMinutes != 0 {
		if durationMinutes < 0 || durationMinutes%constants.GridUnitMinutes != 0 {
			return p, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("duration must be a positive multiple of %d minutes", constants.GridUnitMinutes), durationMinutes)
		}
		duration = time.Duration(durationMinutes) * time.Minute
	}

	if (windowStart == "") != (windowEnd == "") {
		return p, errors.NewAppError(errors.ErrInvalidInput, "window_start and window_end must be given together", nil)
	}
	if windowStart != "" {
		startClock, err := time.Parse("15:04", windowStart)
		if err != nil {
			return p, errors.NewAppError(errors.ErrInvalidInput, "window_start must be HH:MM", windowStart)
		}
		endClock, err := time.Parse("15:04", windowEnd)
		if err != nil {
			return p, errors.NewAppError(errors.ErrInvalidInput, "window_end must be HH:MM", windowEnd)
		}
		if !endClock.After(startClock) {
			return p, errors.NewAppError(errors.ErrInvalidInput, "window_start must be before window_end", nil)
		}
		p.windowStart = &windowStart
		p.windowEnd = &windowEnd
	}

	p.venueID = vid
	p.sectorID = sid
	p.partySize = partySize
	p.duration = duration
	p.date = date
	return p, nil
}

// lockKey serializes writers contending for the same resource-set/time slot.
// Table ids are sorted upstream, making the key order-independent.
func lockKey(venueID, sectorID uuid.UUID, tableIDs []string, start time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", venueID, sectorID, strings.Join(tableIDs, "+"), start.UTC().Format(time.RFC3339))
}
