package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// fakeShowStore implements ShowStore in memory.  Reserve holds a mutex
// across the check-and-mutate, giving the same all-or-nothing contract
// the Mongo conditional update provides.
type fakeShowStore struct {
	mu       sync.Mutex
	shows    map[primitive.ObjectID]*model.Show
	theatres map[primitive.ObjectID]*model.Theatre
}

func (f *fakeShowStore) GetWithTheatre(_ context.Context, showID primitive.ObjectID) (*model.Show, *model.Theatre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shows[showID]
	if !ok {
		return nil, nil, repository.ErrShowNotFound
	}
	t, ok := f.theatres[s.Theatre]
	if !ok {
		return nil, nil, repository.ErrTheatreNotFound
	}
	sc, tc := *s, *t
	sc.BookedSeats = append([]string(nil), s.BookedSeats...)
	return &sc, &tc, nil
}

func (f *fakeShowStore) Reserve(_ context.Context, showID primitive.ObjectID, seats []string) (*model.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shows[showID]
	if !ok {
		return nil, repository.ErrSeatsUnavailable
	}
	if s.AvailableSeats < len(seats) {
		return nil, repository.ErrSeatsUnavailable
	}
	taken := make(map[string]struct{}, len(s.BookedSeats))
	for _, b := range s.BookedSeats {
		taken[b] = struct{}{}
	}
	for _, l := range seats {
		if _, ok := taken[l]; ok {
			return nil, repository.ErrSeatsUnavailable
		}
	}
	s.BookedSeats = append(s.BookedSeats, seats...)
	s.AvailableSeats -= len(seats)
	sc := *s
	sc.BookedSeats = append([]string(nil), s.BookedSeats...)
	return &sc, nil
}

type fakeBookingStore struct {
	mu         sync.Mutex
	created    []model.Booking
	failCreate bool
}

func (f *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("ledger down")
	}
	b.ID = primitive.NewObjectID()
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.BookingDetail, 0)
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].User == userID {
			out = append(out, model.BookingDetail{Booking: f.created[i]})
		}
	}
	return out, nil
}

type fakeUserStore struct {
	mu         sync.Mutex
	history    map[primitive.ObjectID][]model.BookingHistoryEntry
	failAppend bool
}

func (f *fakeUserStore) PublicByID(_ context.Context, userID primitive.ObjectID) (*model.UserPublic, error) {
	return &model.UserPublic{ID: userID, Name: "Test User", Email: "test@example.com"}, nil
}

func (f *fakeUserStore) AppendBookingSummary(_ context.Context, userID, showID primitive.ObjectID, seats []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errors.New("users down")
	}
	if f.history == nil {
		f.history = make(map[primitive.ObjectID][]model.BookingHistoryEntry)
	}
	f.history[userID] = append(f.history[userID], model.BookingHistoryEntry{Show: showID, Seats: seats})
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fixture struct {
	svc      *ReservationService
	shows    *fakeShowStore
	bookings *fakeBookingStore
	users    *fakeUserStore
	events   *fakePublisher
	showID   primitive.ObjectID
	userID   primitive.ObjectID
	capacity int
}

func newFixture(t *testing.T, capacity, price int) *fixture {
	t.Helper()
	theatreID := primitive.NewObjectID()
	showID := primitive.NewObjectID()
	shows := &fakeShowStore{
		shows: map[primitive.ObjectID]*model.Show{
			showID: {
				ID:             showID,
				Movie:          primitive.NewObjectID(),
				Theatre:        theatreID,
				AvailableSeats: capacity,
				BookedSeats:    []string{},
				SeatPrice:      price,
			},
		},
		theatres: map[primitive.ObjectID]*model.Theatre{
			theatreID: {ID: theatreID, Name: "Central", City: "Pune", TotalSeats: capacity},
		},
	}
	bookings := &fakeBookingStore{}
	users := &fakeUserStore{}
	events := &fakePublisher{}
	return &fixture{
		svc:      NewReservationService(shows, bookings, users, events),
		shows:    shows,
		bookings: bookings,
		users:    users,
		events:   events,
		showID:   showID,
		userID:   primitive.NewObjectID(),
		capacity: capacity,
	}
}

// conservation asserts availableSeats = capacity - len(bookedSeats) and
// that bookedSeats has no duplicates.
func (f *fixture) conservation(t *testing.T) {
	t.Helper()
	f.shows.mu.Lock()
	defer f.shows.mu.Unlock()
	s := f.shows.shows[f.showID]
	require.Equal(t, f.capacity-len(s.BookedSeats), s.AvailableSeats)
	seen := make(map[string]struct{}, len(s.BookedSeats))
	for _, l := range s.BookedSeats {
		_, dup := seen[l]
		require.False(t, dup, "duplicate booked seat %s", l)
		seen[l] = struct{}{}
	}
}

func TestBookRejectsEmptySeats(t *testing.T) {
	f := newFixture(t, 12, 200)
	_, err := f.svc.Book(context.Background(), f.userID, f.showID, nil)
	assert.ErrorIs(t, err, ErrNoSeats)
	assert.Empty(t, f.bookings.created)
	f.conservation(t)
}

func TestBookRejectsDuplicateSeats(t *testing.T) {
	f := newFixture(t, 12, 200)
	_, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1", "A1"})
	assert.ErrorIs(t, err, ErrDuplicateSeat)
	assert.Empty(t, f.bookings.created)
}

func TestBookRejectsUnknownLabels(t *testing.T) {
	f := newFixture(t, 12, 200)
	// Capacity 12 ends at B2; B3 is outside the generated universe.
	_, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1", "B3"})
	assert.ErrorIs(t, err, ErrUnknownSeat)
	assert.Empty(t, f.bookings.created)
	f.conservation(t)
}

func TestBookMissingShowIsUndifferentiatedConflict(t *testing.T) {
	f := newFixture(t, 12, 200)
	_, err := f.svc.Book(context.Background(), f.userID, primitive.NewObjectID(), []string{"A1"})
	assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)
}

func TestBookSuccess(t *testing.T) {
	f := newFixture(t, 12, 200)
	detail, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1", "A2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A1", "A2"}, detail.Seats)
	assert.Equal(t, 400, detail.TotalAmount)
	assert.Equal(t, model.BookingStatusConfirmed, detail.Status)
	assert.NotEmpty(t, detail.ReservationRef)
	require.NotNil(t, detail.UserDetail)
	assert.Equal(t, "test@example.com", detail.UserDetail.Email)
	require.NotNil(t, detail.ShowDetail)
	assert.Equal(t, 200, detail.ShowDetail.SeatPrice)

	require.Len(t, f.bookings.created, 1)
	assert.Equal(t, f.userID, f.bookings.created[0].User)

	require.Len(t, f.users.history[f.userID], 1)
	assert.Equal(t, []string{"A1", "A2"}, f.users.history[f.userID][0].Seats)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, detail.ReservationRef, f.events.events[0].ReservationRef)

	assert.Equal(t, 10, f.shows.shows[f.showID].AvailableSeats)
	f.conservation(t)
}

func TestBookConflictLeavesNoTrace(t *testing.T) {
	f := newFixture(t, 12, 200)
	_, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1", "A2"})
	require.NoError(t, err)

	// A2 is taken; the overlapping request must fail without touching
	// anything.
	_, err = f.svc.Book(context.Background(), f.userID, f.showID, []string{"A2", "A3"})
	assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)

	assert.Len(t, f.bookings.created, 1)
	assert.Len(t, f.events.events, 1)
	assert.Equal(t, 10, f.shows.shows[f.showID].AvailableSeats)
	assert.Equal(t, []string{"A1", "A2"}, f.shows.shows[f.showID].BookedSeats)
	f.conservation(t)
}

func TestBookCapacityScenario(t *testing.T) {
	// The full capacity-12 walk: A1..A10, B1, B2.
	f := newFixture(t, 12, 200)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.userID, f.showID, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.shows.shows[f.showID].AvailableSeats)

	_, err = f.svc.Book(ctx, f.userID, f.showID, []string{"A2", "A3"})
	assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)
	assert.Equal(t, 10, f.shows.shows[f.showID].AvailableSeats)

	rest := []string{"A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10", "B1", "B2"}
	_, err = f.svc.Book(ctx, f.userID, f.showID, rest)
	require.NoError(t, err)
	assert.Equal(t, 0, f.shows.shows[f.showID].AvailableSeats)

	_, err = f.svc.Book(ctx, f.userID, f.showID, []string{"A1"})
	assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)
	f.conservation(t)
}

func TestBookPriceFrozenAfterPriceChange(t *testing.T) {
	f := newFixture(t, 12, 200)
	detail, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1"})
	require.NoError(t, err)
	require.Equal(t, 200, detail.TotalAmount)

	// Admin edits the price; the existing ledger entry must not move.
	f.shows.shows[f.showID].SeatPrice = 500
	assert.Equal(t, 200, f.bookings.created[0].TotalAmount)

	second, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A2"})
	require.NoError(t, err)
	assert.Equal(t, 500, second.TotalAmount)
	assert.Equal(t, 200, f.bookings.created[0].TotalAmount)
}

func TestBookLedgerFailureKeepsSeatsReserved(t *testing.T) {
	f := newFixture(t, 12, 200)
	f.bookings.failCreate = true

	_, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrSeatsUnavailable)

	// The accepted inconsistency window: seats reserved, no ledger
	// entry, and no downstream effects.
	assert.Equal(t, []string{"A1"}, f.shows.shows[f.showID].BookedSeats)
	assert.Empty(t, f.users.history)
	assert.Empty(t, f.events.events)
}

func TestBookHistoryFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t, 12, 200)
	f.users.failAppend = true

	detail, err := f.svc.Book(context.Background(), f.userID, f.showID, []string{"A1"})
	require.NoError(t, err)
	assert.NotNil(t, detail)
	assert.Len(t, f.bookings.created, 1)
	assert.Len(t, f.events.events, 1)
}

func TestBookMutualExclusionUnderConcurrency(t *testing.T) {
	f := newFixture(t, 12, 200)
	const workers = 16

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every worker fights over A5 plus a shared neighbour.
			_, results[i] = f.svc.Book(context.Background(), primitive.NewObjectID(), f.showID, []string{"A5", "A6"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, repository.ErrSeatsUnavailable)
		}
	}
	assert.Equal(t, 1, wins, "exactly one of the overlapping requests may succeed")
	assert.Len(t, f.bookings.created, 1)
	assert.Equal(t, 10, f.shows.shows[f.showID].AvailableSeats)
	f.conservation(t)
}

func TestBookConcurrentDisjointSeatsAllSucceed(t *testing.T) {
	f := newFixture(t, 20, 150)
	seats := [][]string{{"A1", "A2"}, {"A3"}, {"B1", "B2", "B3"}, {"A10"}}

	var wg sync.WaitGroup
	errs := make([]error, len(seats))
	for i, sel := range seats {
		wg.Add(1)
		go func(i int, sel []string) {
			defer wg.Done()
			_, errs[i] = f.svc.Book(context.Background(), primitive.NewObjectID(), f.showID, sel)
		}(i, sel)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "disjoint selection %d must succeed", i)
	}
	assert.Equal(t, 13, f.shows.shows[f.showID].AvailableSeats)
	f.conservation(t)
}

func TestSeatMapMatchesReserveUniverse(t *testing.T) {
	f := newFixture(t, 12, 200)
	ctx := context.Background()

	sm, err := f.svc.SeatMapFor(ctx, f.showID)
	require.NoError(t, err)
	assert.Equal(t, 12, sm.TotalSeats)
	assert.Len(t, sm.AvailableSeats, 12)
	assert.Empty(t, sm.BookedSeats)

	// Every label the projection offers must be reservable.
	for _, l := range sm.AvailableSeats {
		g := newFixture(t, 12, 200)
		_, err := g.svc.Book(ctx, g.userID, g.showID, []string{l})
		assert.NoError(t, err, "projected label %s rejected by reserve", l)
	}
}

func TestSeatMapAfterBooking(t *testing.T) {
	f := newFixture(t, 12, 200)
	ctx := context.Background()
	_, err := f.svc.Book(ctx, f.userID, f.showID, []string{"A1", "B2"})
	require.NoError(t, err)

	sm, err := f.svc.SeatMapFor(ctx, f.showID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2"}, sm.BookedSeats)
	assert.Len(t, sm.AvailableSeats, 10)
	assert.NotContains(t, sm.AvailableSeats, "A1")
	assert.NotContains(t, sm.AvailableSeats, "B2")
	assert.Equal(t, 10, sm.AvailableSeatsCount)
	assert.Equal(t, 200, sm.SeatPrice)
}

func TestSeatMapMissingShow(t *testing.T) {
	f := newFixture(t, 12, 200)
	_, err := f.svc.SeatMapFor(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestListBookingsNewestFirst(t *testing.T) {
	f := newFixture(t, 20, 100)
	ctx := context.Background()
	_, err := f.svc.Book(ctx, f.userID, f.showID, []string{"A1"})
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, f.userID, f.showID, []string{"A2"})
	require.NoError(t, err)

	list, err := f.svc.ListBookings(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"A2"}, list[0].Seats)
	assert.Equal(t, []string{"A1"}, list[1].Seats)
}
