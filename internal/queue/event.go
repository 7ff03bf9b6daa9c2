// Package queue contains the message payloads exchanged over the
// broker, the publisher used by the reservation flow and the background
// consumer that records confirmations.
package queue

// BookingConfirmedEvent is published after a reservation is confirmed
// and its ledger entry written.  It carries enough for downstream
// consumers to log or notify without querying the primary database.
// IDs are hex object IDs.
type BookingConfirmedEvent struct {
	BookingID      string   `json:"booking_id"`
	ReservationRef string   `json:"reservation_ref"`
	UserID         string   `json:"user_id"`
	ShowID         string   `json:"show_id"`
	Seats          []string `json:"seats"`
	TotalAmount    int      `json:"total_amount"`
	ConfirmedAt    string   `json:"confirmed_at"`
}
