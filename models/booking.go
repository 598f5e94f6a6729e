package models

import (
	"strconv"
	"strings"
)

// BookingForm is a taxi reservation as submitted through the booking form.
// Every field is kept as text so the form can be echoed back verbatim when
// validation fails.
type BookingForm struct {
	FullName       string `form:"fullName" validate:"required,min=2,max=100"`
	Email          string `form:"email" validate:"required,email"`
	Phone          string `form:"phone" validate:"required,min=7,max=20"`
	PickupAddress  string `form:"pickupAddress" validate:"required,min=5,max=200"`
	DropoffAddress string `form:"dropoffAddress" validate:"required,min=5,max=200"`
	PickupDate     string `form:"pickupDate" validate:"required,isodate"`
	PickupTime     string `form:"pickupTime" validate:"required,hhmm"`
	Passengers     string `form:"passengers" validate:"intrange=1-6"`
	Notes          string `form:"notes" validate:"omitempty,max=500"`

	// Website is the honeypot. Humans never see it, so any value marks spam.
	Website string `form:"website"`
}

// Normalize trims surrounding whitespace from every field.
func (f *BookingForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.PickupAddress = strings.TrimSpace(f.PickupAddress)
	f.DropoffAddress = strings.TrimSpace(f.DropoffAddress)
	f.PickupDate = strings.TrimSpace(f.PickupDate)
	f.PickupTime = strings.TrimSpace(f.PickupTime)
	f.Passengers = strings.TrimSpace(f.Passengers)
	f.Notes = strings.TrimSpace(f.Notes)
	f.Website = strings.TrimSpace(f.Website)
}

// IsSpam reports whether the honeypot field was filled in.
func (f BookingForm) IsSpam() bool {
	return strings.TrimSpace(f.Website) != ""
}

// Booking is a validated reservation with passengers coerced to an integer.
// It lives for a single request and is never persisted.
type Booking struct {
	FullName       string
	Email          string
	Phone          string
	PickupAddress  string
	DropoffAddress string
	PickupDate     string
	PickupTime     string
	Passengers     int
	Notes          string
}

// Booking converts the form into a Booking. Passengers that do not parse
// become 0; callers validate first.
func (f BookingForm) Booking() Booking {
	passengers, err := strconv.Atoi(strings.TrimSpace(f.Passengers))
	if err != nil {
		passengers = 0
	}
	return Booking{
		FullName:       strings.TrimSpace(f.FullName),
		Email:          strings.TrimSpace(f.Email),
		Phone:          strings.TrimSpace(f.Phone),
		PickupAddress:  strings.TrimSpace(f.PickupAddress),
		DropoffAddress: strings.TrimSpace(f.DropoffAddress),
		PickupDate:     strings.TrimSpace(f.PickupDate),
		PickupTime:     strings.TrimSpace(f.PickupTime),
		Passengers:     passengers,
		Notes:          strings.TrimSpace(f.Notes),
	}
}
