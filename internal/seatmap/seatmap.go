// Package seatmap derives seat labels from a theatre's capacity.  Seats
// are laid out ten per row, rows lettered from 'A'; a capacity of 12
// yields A1..A10, B1, B2.  The write path (reservation validation) and
// the read path (seat-map projection) must agree on labels exactly, so
// both go through this package and nothing else generates labels.
package seatmap

import "strconv"

const seatsPerRow = 10

// Labels returns the full ordered seat-label universe for a theatre of
// the given capacity.  The last row may be partial.  Non-positive
// capacities yield an empty slice.
func Labels(totalSeats int) []string {
	if totalSeats <= 0 {
		return []string{}
	}
	labels := make([]string, 0, totalSeats)
	for i := 0; i < totalSeats; i++ {
		labels = append(labels, rowLetter(i/seatsPerRow)+strconv.Itoa(i%seatsPerRow+1))
	}
	return labels
}

// LabelSet returns the universe as a set for membership checks.
func LabelSet(totalSeats int) map[string]struct{} {
	labels := Labels(totalSeats)
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Available returns every label of the universe that is not in booked,
// preserving generation order.
func Available(totalSeats int, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}
	out := make([]string, 0, totalSeats)
	for _, l := range Labels(totalSeats) {
		if _, ok := taken[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// rowLetter converts a zero-based row index to its letter sequence
// (A..Z, then AA, AB, ...).  Capacities above 260 seats spill into
// two-letter rows.
func rowLetter(row int) string {
	if row < 26 {
		return string(rune('A' + row))
	}
	return rowLetter(row/26-1) + string(rune('A'+row%26))
}
