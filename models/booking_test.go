package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingForm_NormalizeTrims(t *testing.T) {
	f := BookingForm{FullName: "  Jane Doe ", Notes: "\tcall on arrival\n", Website: "  "}
	f.Normalize()

	assert.Equal(t, "Jane Doe", f.FullName)
	assert.Equal(t, "call on arrival", f.Notes)
	assert.False(t, f.IsSpam())
}

func TestBookingForm_IsSpam(t *testing.T) {
	assert.True(t, BookingForm{Website: "http://spam.example"}.IsSpam())
	assert.False(t, BookingForm{}.IsSpam())
}

func TestBookingForm_BookingCoercesPassengers(t *testing.T) {
	b := BookingForm{Passengers: "3"}.Booking()
	assert.Equal(t, 3, b.Passengers)

	b = BookingForm{Passengers: " 6 "}.Booking()
	assert.Equal(t, 6, b.Passengers)

	b = BookingForm{Passengers: "three"}.Booking()
	assert.Equal(t, 0, b.Passengers)
}

func TestOutcome_Succeeded(t *testing.T) {
	assert.True(t, OutcomeSpamSuppressed.Succeeded())
	assert.True(t, OutcomeMailSkipped.Succeeded())
	assert.True(t, OutcomeMailSent.Succeeded())
	assert.False(t, OutcomeMailFailed.Succeeded())
	assert.False(t, OutcomeRejected.Succeeded())
	assert.False(t, OutcomeRateLimited.Succeeded())
}
