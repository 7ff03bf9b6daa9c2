package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

type stubShowStore struct {
	mu      sync.Mutex
	show    model.Show
	theatre model.Theatre
}

func (s *stubShowStore) GetWithTheatre(_ context.Context, showID primitive.ObjectID) (*model.Show, *model.Theatre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if showID != s.show.ID {
		return nil, nil, repository.ErrShowNotFound
	}
	sc, tc := s.show, s.theatre
	return &sc, &tc, nil
}

func (s *stubShowStore) Reserve(_ context.Context, showID primitive.ObjectID, seats []string) (*model.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if showID != s.show.ID || s.show.AvailableSeats < len(seats) {
		return nil, repository.ErrSeatsUnavailable
	}
	for _, l := range seats {
		for _, b := range s.show.BookedSeats {
			if l == b {
				return nil, repository.ErrSeatsUnavailable
			}
		}
	}
	s.show.BookedSeats = append(s.show.BookedSeats, seats...)
	s.show.AvailableSeats -= len(seats)
	sc := s.show
	return &sc, nil
}

type stubBookingStore struct {
	created []model.Booking
}

func (s *stubBookingStore) Create(_ context.Context, b *model.Booking) error {
	b.ID = primitive.NewObjectID()
	s.created = append(s.created, *b)
	return nil
}

func (s *stubBookingStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	out := []model.BookingDetail{}
	for _, b := range s.created {
		if b.User == userID {
			out = append(out, model.BookingDetail{Booking: b})
		}
	}
	return out, nil
}

type stubUserStore struct{}

func (stubUserStore) PublicByID(_ context.Context, id primitive.ObjectID) (*model.UserPublic, error) {
	return &model.UserPublic{ID: id, Name: "Stub", Email: "stub@example.com"}, nil
}

func (stubUserStore) AppendBookingSummary(context.Context, primitive.ObjectID, primitive.ObjectID, []string) error {
	return nil
}

type bookingFixture struct {
	handler  *BookingHandler
	shows    *stubShowStore
	bookings *stubBookingStore
	showID   primitive.ObjectID
	userID   primitive.ObjectID
}

func newBookingFixture() *bookingFixture {
	showID := primitive.NewObjectID()
	theatreID := primitive.NewObjectID()
	shows := &stubShowStore{
		show: model.Show{
			ID:             showID,
			Theatre:        theatreID,
			AvailableSeats: 12,
			BookedSeats:    []string{},
			SeatPrice:      200,
		},
		theatre: model.Theatre{ID: theatreID, Name: "Central", City: "Pune", TotalSeats: 12},
	}
	bookings := &stubBookingStore{}
	svc := service.NewReservationService(shows, bookings, stubUserStore{}, nil)
	return &bookingFixture{
		handler:  NewBookingHandler(svc),
		shows:    shows,
		bookings: bookings,
		showID:   showID,
		userID:   primitive.NewObjectID(),
	}
}

func (f *bookingFixture) postBook(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", f.userID.Hex())
	require.NoError(t, f.handler.Book(c))
	return rec
}

func TestBookEndpointCreatesBooking(t *testing.T) {
	f := newBookingFixture()
	body := `{"showId":"` + f.showID.Hex() + `","seats":["A1","A2"]}`
	rec := f.postBook(t, body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var detail model.BookingDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, []string{"A1", "A2"}, detail.Seats)
	assert.Equal(t, 400, detail.TotalAmount)
	assert.Equal(t, model.BookingStatusConfirmed, detail.Status)
	require.Len(t, f.bookings.created, 1)
}

func TestBookEndpointRejectsEmptySeats(t *testing.T) {
	f := newBookingFixture()
	rec := f.postBook(t, `{"showId":"`+f.showID.Hex()+`","seats":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookEndpointRejectsBadShowID(t *testing.T) {
	f := newBookingFixture()
	rec := f.postBook(t, `{"showId":"not-hex","seats":["A1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid showId")
}

func TestBookEndpointConflict(t *testing.T) {
	f := newBookingFixture()
	rec := f.postBook(t, `{"showId":"`+f.showID.Hex()+`","seats":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.postBook(t, `{"showId":"`+f.showID.Hex()+`","seats":["A1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
	assert.Len(t, f.bookings.created, 1)
}

func TestSeatMapEndpoint(t *testing.T) {
	f := newBookingFixture()
	f.postBook(t, `{"showId":"`+f.showID.Hex()+`","seats":["A1","B2"]}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/show/:showId/seats")
	c.SetParamNames("showId")
	c.SetParamValues(f.showID.Hex())
	require.NoError(t, f.handler.SeatMap(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var sm service.SeatMap
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sm))
	assert.Equal(t, 12, sm.TotalSeats)
	assert.Equal(t, []string{"A1", "B2"}, sm.BookedSeats)
	assert.Len(t, sm.AvailableSeats, 10)
	assert.Equal(t, 10, sm.AvailableSeatsCount)
}

func TestSeatMapEndpointMissingShow(t *testing.T) {
	f := newBookingFixture()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("showId")
	c.SetParamValues(primitive.NewObjectID().Hex())
	require.NoError(t, f.handler.SeatMap(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyBookingsEndpoint(t *testing.T) {
	f := newBookingFixture()
	f.postBook(t, `{"showId":"`+f.showID.Hex()+`","seats":["A3"]}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/my-bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", f.userID.Hex())
	require.NoError(t, f.handler.MyBookings(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Bookings []model.BookingDetail `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, []string{"A3"}, resp.Bookings[0].Seats)
}
