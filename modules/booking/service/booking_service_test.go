package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"woki-api/core/errors"
	"woki-api/core/lock"
	"woki-api/core/params"
	"woki-api/modules/booking/dto"
	"woki-api/modules/booking/entity"
	venueentity "woki-api/modules/venue/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a mutex-backed in-memory Store, good enough to exercise the
// transaction logic without a database.
type memStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	waitlist []entity.WaitlistEntry
}

func newMemStore() *memStore {
	return &memStore{bookings: make(map[uuid.UUID]entity.Booking)}
}

func (m *memStore) CreateBooking(ctx context.Context, b *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) GetBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	m.bookings[id] = b
	return nil
}

func (m *memStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

func (m *memStore) GetConfirmedBookingsForTables(ctx context.Context, tableIDs []string, from, to time.Time) ([]entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(tableIDs))
	for _, id := range tableIDs {
		want[id] = true
	}
	var out []entity.Booking
	for _, b := range m.bookings {
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if !b.StartsAt.Before(to) || !b.EndsAt.After(from) {
			continue
		}
		for _, id := range b.TableIDs {
			if want[id] {
				out = append(out, b)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *memStore) ListBookingsForSector(ctx context.Context, sectorID uuid.UUID, from, to time.Time, p params.QueryParams) ([]entity.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Booking
	for _, b := range m.bookings {
		if b.SectorID == sectorID && b.StartsAt.Before(to) && b.EndsAt.After(from) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	total := len(out)
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (m *memStore) CreateWaitlistEntry(ctx context.Context, e *entity.WaitlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitlist = append(m.waitlist, *e)
	return nil
}

func (m *memStore) ListUnexpiredWaitlistEntries(ctx context.Context, sectorID uuid.UUID, date string, now time.Time) ([]entity.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.WaitlistEntry
	for _, e := range m.waitlist {
		if e.SectorID == sectorID && e.Date == date && e.ExpiresAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.waitlist {
		if e.ID == id {
			m.waitlist = append(m.waitlist[:i], m.waitlist[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) DeleteExpiredWaitlistEntries(ctx context.Context, now time.Time) ([]entity.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept, removed []entity.WaitlistEntry
	for _, e := range m.waitlist {
		if e.ExpiresAt.After(now) {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	m.waitlist = kept
	return removed, nil
}

func (m *memStore) bookingsWithTables() []entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Booking
	for _, b := range m.bookings {
		if len(b.TableIDs) > 0 {
			out = append(out, b)
		}
	}
	return out
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

type memVenues struct {
	venue     *venueentity.Venue
	sectors   map[uuid.UUID]*venueentity.Sector
	tables    []venueentity.Table
	blackouts []venueentity.Blackout
}

func (m *memVenues) GetVenue(ctx context.Context, id uuid.UUID) (*venueentity.Venue, error) {
	if m.venue != nil && m.venue.ID == id {
		return m.venue, nil
	}
	return nil, nil
}

func (m *memVenues) GetSector(ctx context.Context, id uuid.UUID) (*venueentity.Sector, error) {
	return m.sectors[id], nil
}

func (m *memVenues) GetTablesInSector(ctx context.Context, sectorID uuid.UUID) ([]venueentity.Table, error) {
	var out []venueentity.Table
	for _, t := range m.tables {
		if t.SectorID == sectorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memVenues) GetBlackoutsForTables(ctx context.Context, tableIDs []string) ([]venueentity.Blackout, error) {
	want := make(map[string]bool, len(tableIDs))
	for _, id := range tableIDs {
		want[id] = true
	}
	var out []venueentity.Blackout
	for _, b := range m.blackouts {
		if want[b.TableID.String()] {
			out = append(out, b)
		}
	}
	return out, nil
}

type memIdem struct {
	mu      sync.Mutex
	results map[string]entity.Booking
}

func newMemIdem() *memIdem {
	return &memIdem{results: make(map[string]entity.Booking)}
}

func (m *memIdem) GetResult(ctx context.Context, key string) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.results[key]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memIdem) StoreResult(ctx context.Context, key string, booking *entity.Booking, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[key] = *booking
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   int
	cancelled int
	changed   int
	promoted  int
}

func (n *recordingNotifier) BookingCreated(ctx context.Context, b *entity.Booking) {
	n.mu.Lock()
	n.created++
	n.mu.Unlock()
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, b *entity.Booking) {
	n.mu.Lock()
	n.cancelled++
	n.mu.Unlock()
}

func (n *recordingNotifier) BookingStatusChanged(ctx context.Context, b *entity.Booking) {
	n.mu.Lock()
	n.changed++
	n.mu.Unlock()
}

func (n *recordingNotifier) WaitlistPromoted(ctx context.Context, b *entity.Booking) {
	n.mu.Lock()
	n.promoted++
	n.mu.Unlock()
}

type fixture struct {
	store    *memStore
	venues   *memVenues
	idem     *memIdem
	notifier *recordingNotifier
	svc      BookingService

	venueID  uuid.UUID
	sectorID uuid.UUID

	mu  sync.Mutex
	now time.Time
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// newFixture builds a UTC venue with one service window [20:00, 23:45) on
// 2026-09-01 and the given tables, all in one sector.
func newFixture(t *testing.T, tables []venueentity.Table, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		store:    newMemStore(),
		idem:     newMemIdem(),
		notifier: &recordingNotifier{},
		venueID:  uuid.New(),
		sectorID: uuid.New(),
		now:      at(t, "10:00"),
	}

	for i := range tables {
		tables[i].SectorID = f.sectorID
	}
	f.venues = &memVenues{
		venue: &venueentity.Venue{
			ID:       f.venueID,
			Name:     "Test Venue",
			Timezone: "UTC",
			ServiceWindows: venueentity.ServiceWindows{
				{Start: "20:00", End: "23:45"},
			},
		},
		sectors: map[uuid.UUID]*venueentity.Sector{
			f.sectorID: {ID: f.sectorID, VenueID: f.venueID, Name: "Main"},
		},
		tables: tables,
	}

	opts = append([]Option{WithClock(f.clock)}, opts...)
	f.svc = NewBookingService(f.store, f.venues, f.idem, lock.NewRegistry(), f.notifier, opts...)
	return f
}

func (f *fixture) bookRequest(partySize int) dto.BookRequest {
	return dto.BookRequest{
		VenueID:   f.venueID.String(),
		SectorID:  f.sectorID.String(),
		Date:      "2026-09-01",
		PartySize: partySize,
	}
}

func TestBookHappyPath(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 4, 6)})

	booking, appErr := f.svc.Book(context.Background(), f.bookRequest(5))
	require.Nil(t, appErr)
	require.NotNil(t, booking)

	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Len(t, booking.TableIDs, 1)
	assert.Equal(t, at(t, "20:00"), booking.StartsAt)
	// Party of 5 defaults to 105 minutes.
	assert.Equal(t, at(t, "21:45"), booking.EndsAt)
	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, 1, f.notifier.created)
}

func TestBookExplicitDurationAndWindow(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "21:00"
	req.WindowEnd = "23:00"

	booking, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, at(t, "21:00"), booking.StartsAt)
	assert.Equal(t, at(t, "22:30"), booking.EndsAt)
}

func TestBookBackToBackHalfOpen(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90

	first, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, at(t, "20:00"), first.StartsAt)

	// [20:00,21:30) and [21:30,23:00) touch without conflict.
	second, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusConfirmed, second.Status)
	assert.Equal(t, at(t, "21:30"), second.StartsAt)
}

func TestBookLargeGroupIsPending(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 8, 12)})

	booking, appErr := f.svc.Book(context.Background(), f.bookRequest(10))
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusPending, booking.Status)
	assert.NotEmpty(t, booking.TableIDs)
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(0)
	_, appErr := f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = f.bookRequest(2)
	req.Date = "01-09-2026"
	_, appErr = f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = f.bookRequest(2)
	req.DurationMinutes = 100 // not on the 15-minute grid
	_, appErr = f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = f.bookRequest(2)
	req.WindowStart = "20:00" // end missing
	_, appErr = f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestBookUnknownVenue(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(2)
	req.VenueID = uuid.NewString()
	_, appErr := f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestBookOutsideServiceWindow(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(2)
	req.WindowStart = "08:00"
	req.WindowEnd = "10:00"
	_, appErr := f.svc.Book(context.Background(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrOutsideServiceWindow, appErr.Code)

	// Discover treats the same request as an empty result, not an error.
	candidates, appErr := f.svc.Discover(context.Background(), dto.DiscoverRequest{
		VenueID:     req.VenueID,
		SectorID:    req.SectorID,
		Date:        req.Date,
		PartySize:   req.PartySize,
		WindowStart: "08:00",
		WindowEnd:   "10:00",
	})
	require.Nil(t, appErr)
	assert.Empty(t, candidates)
}

func TestBookIdempotency(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(2)
	req.IdempotencyKey = "retry-abc"

	first, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	second, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.store.bookingsWithTables(), 1)
	assert.Equal(t, 1, f.notifier.created)
}

func TestBookConcurrentSingleSlot(t *testing.T) {
	// One table, one feasible start: duration fills the requested window
	// exactly, so only one of the racing bookings can hold it.
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := f.bookRequest(3)
			req.DurationMinutes = 90
			req.WindowStart = "20:00"
			req.WindowEnd = "21:30"
			f.svc.Book(context.Background(), req)
		}()
	}
	wg.Wait()

	winners := f.store.bookingsWithTables()
	require.Len(t, winners, 1)
	assert.Equal(t, entity.BookingStatusConfirmed, winners[0].Status)
	assert.Equal(t, at(t, "20:00"), winners[0].StartsAt)
}

func TestBookNoCapacityGoesToWaitlist(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"

	_, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)

	placeholder, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusPending, placeholder.Status)
	assert.Empty(t, placeholder.TableIDs)
	require.Len(t, f.store.waitlist, 1)
	assert.Equal(t, 3, f.store.waitlist[0].PartySize)
	assert.Equal(t, 90, f.store.waitlist[0].DurationMinutes)
	assert.Equal(t, placeholder.ID, f.store.waitlist[0].PlaceholderBookingID)
}

func TestBookIdempotentWaitlist(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"
	_, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)

	// Retrying a waitlisted request with the same key must not enqueue it
	// twice or mint a second placeholder.
	req.IdempotencyKey = "retry-waitlist"
	first, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	second, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.store.waitlist, 1)
	assert.Equal(t, 2, f.store.bookingCount()) // the confirmed booking plus one placeholder
	assert.Equal(t, 2, f.notifier.created)
}

func TestCancelReplaysWaitlist(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"

	first, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	_, appErr = f.svc.Book(context.Background(), req) // waitlisted
	require.Nil(t, appErr)
	require.Len(t, f.store.waitlist, 1)

	require.Nil(t, f.svc.Cancel(context.Background(), first.ID))

	// The freed slot goes to the queued request, and the promoted booking
	// supersedes its placeholder: exactly one booking remains.
	assert.Empty(t, f.store.waitlist)
	winners := f.store.bookingsWithTables()
	require.Len(t, winners, 1)
	assert.Equal(t, entity.BookingStatusConfirmed, winners[0].Status)
	assert.Equal(t, at(t, "20:00"), winners[0].StartsAt)
	assert.Equal(t, 1, f.store.bookingCount())
	assert.Equal(t, 1, f.notifier.promoted)
	assert.Equal(t, 1, f.notifier.cancelled)
}

func TestCancelPromotesAtMostOne(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"

	first, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	_, appErr = f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	_, appErr = f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	require.Len(t, f.store.waitlist, 2)

	require.Nil(t, f.svc.Cancel(context.Background(), first.ID))

	// FIFO: the older entry got the slot, the younger stays queued.
	assert.Len(t, f.store.waitlist, 1)
	assert.Equal(t, 1, f.notifier.promoted)
}

func TestCancelNotFound(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})
	appErr := f.svc.Cancel(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 8, 12), table("T2", 8, 12)})

	pending1, appErr := f.svc.Book(context.Background(), f.bookRequest(10))
	require.Nil(t, appErr)
	require.Equal(t, entity.BookingStatusPending, pending1.Status)
	pending2, appErr := f.svc.Book(context.Background(), f.bookRequest(10))
	require.Nil(t, appErr)

	approved, appErr := f.svc.Approve(context.Background(), pending1.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusConfirmed, approved.Status)

	rejected, appErr := f.svc.Reject(context.Background(), pending2.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusCancelled, rejected.Status)

	// Only PENDING bookings transition.
	_, appErr = f.svc.Approve(context.Background(), pending1.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	assert.Equal(t, 2, f.notifier.changed)
}

func TestApproveRechecksConflicts(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 8, 12)})

	// Pending bookings hold no capacity, so both large groups land on the
	// same table and interval.
	pending1, appErr := f.svc.Book(context.Background(), f.bookRequest(10))
	require.Nil(t, appErr)
	pending2, appErr := f.svc.Book(context.Background(), f.bookRequest(10))
	require.Nil(t, appErr)
	require.Equal(t, pending1.StartsAt, pending2.StartsAt)
	require.Equal(t, pending1.TableIDs, pending2.TableIDs)

	_, appErr = f.svc.Approve(context.Background(), pending1.ID)
	require.Nil(t, appErr)

	// The second approval must not produce overlapping CONFIRMED bookings.
	_, appErr = f.svc.Approve(context.Background(), pending2.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNoCapacity, appErr.Code)

	stillPending, appErr := f.svc.Get(context.Background(), pending2.ID)
	require.Nil(t, appErr)
	assert.Equal(t, entity.BookingStatusPending, stillPending.Status)
}

func TestApprovePlaceholderRejected(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"
	_, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)

	placeholder, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	require.Empty(t, placeholder.TableIDs)

	// A waitlist placeholder has no tables to confirm.
	_, appErr = f.svc.Approve(context.Background(), placeholder.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestPurgeExpiredWaitlist(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)}, WithWaitlistTTL(time.Hour))

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	req.WindowStart = "20:00"
	req.WindowEnd = "21:30"
	_, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	_, appErr = f.svc.Book(context.Background(), req) // waitlisted, expires in 1h
	require.Nil(t, appErr)

	removed, appErr := f.svc.PurgeExpiredWaitlist(context.Background())
	require.Nil(t, appErr)
	assert.Zero(t, removed)

	f.advance(2 * time.Hour)
	removed, appErr = f.svc.PurgeExpiredWaitlist(context.Background())
	require.Nil(t, appErr)
	assert.Equal(t, 1, removed)
	assert.Empty(t, f.store.waitlist)
	// The expired entry's placeholder goes with it.
	assert.Equal(t, 1, f.store.bookingCount())
	require.Len(t, f.store.bookingsWithTables(), 1)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})

	booking, appErr := f.svc.Book(context.Background(), f.bookRequest(2))
	require.Nil(t, appErr)

	got, appErr := f.svc.Get(context.Background(), booking.ID)
	require.Nil(t, appErr)
	assert.Equal(t, booking.ID, got.ID)

	_, appErr = f.svc.Get(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	page, appErr := f.svc.List(context.Background(), f.sectorID, "2026-09-01", params.New(1, 10))
	require.Nil(t, appErr)
	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, booking.ID, page.Items[0].ID)

	// A different day sees nothing.
	page, appErr = f.svc.List(context.Background(), f.sectorID, "2026-09-02", params.New(1, 10))
	require.Nil(t, appErr)
	assert.Zero(t, page.TotalItems)
}

func TestDiscoverRanksCandidates(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4), table("T2", 2, 4)})

	candidates, appErr := f.svc.Discover(context.Background(), dto.DiscoverRequest{
		VenueID:   f.venueID.String(),
		SectorID:  f.sectorID.String(),
		Date:      "2026-09-01",
		PartySize: 3,
		Limit:     5,
	})
	require.Nil(t, appErr)
	require.Len(t, candidates, 5)
	assert.Equal(t, entity.CandidateSingle, candidates[0].Kind)
	assert.Equal(t, at(t, "20:00"), candidates[0].StartsAt)
}

func TestBlackoutShiftsBooking(t *testing.T) {
	f := newFixture(t, []venueentity.Table{table("T1", 2, 4)})
	f.venues.blackouts = []venueentity.Blackout{{
		ID:       uuid.New(),
		TableID:  f.venues.tables[0].ID,
		StartsAt: at(t, "20:00"),
		EndsAt:   at(t, "22:00"),
	}}

	req := f.bookRequest(3)
	req.DurationMinutes = 90
	booking, appErr := f.svc.Book(context.Background(), req)
	require.Nil(t, appErr)
	assert.Equal(t, at(t, "22:00"), booking.StartsAt)
}
