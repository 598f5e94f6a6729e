package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joy095/taxibooking/models"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// fieldMessages holds the text shown for a field: one message when the
// value is missing, one for every other failed rule.
type fieldMessages struct {
	required string
	invalid  string
}

var bookingMessages = map[string]fieldMessages{
	"fullName":       {"Full Name is required", "Full Name must be 2-100 characters"},
	"email":          {"Please enter a valid email", "Please enter a valid email"},
	"phone":          {"Phone is required", "Phone must be 7-20 characters"},
	"pickupAddress":  {"Pickup Address is required", "Pickup Address must be 5-200 characters"},
	"dropoffAddress": {"Dropoff Address is required", "Dropoff Address must be 5-200 characters"},
	"pickupDate":     {"Pickup Date is required", "Pickup Date must be a valid date"},
	"pickupTime":     {"Pickup Time is required", "Pickup Time must be in HH:MM format"},
	"passengers":     {"Passengers must be between 1 and 6", "Passengers must be between 1 and 6"},
	"notes":          {"", "Notes must be 500 characters or less"},
}

// BookingValidator checks a BookingForm against the rules declared in its
// struct tags. It is safe for concurrent use.
type BookingValidator struct {
	validate *validator.Validate
}

// NewBookingValidator registers the custom rules used by the booking form.
func NewBookingValidator() *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so errors line up with the inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	must(v.RegisterValidation("isodate", isISODate))
	must(v.RegisterValidation("hhmm", isHHMM))
	must(v.RegisterValidation("intrange", isIntInRange))

	return &BookingValidator{validate: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate runs every field rule and returns the first failing message per
// field. An empty result means the form is acceptable. The form is trimmed
// before checking; the caller's copy is left untouched.
func (bv *BookingValidator) Validate(form models.BookingForm) models.ValidationErrors {
	form.Normalize()

	result := models.ValidationErrors{}
	err := bv.validate.Struct(form)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error (e.g. a bad tag); fail closed.
		result["form"] = "The booking could not be checked. Please try again."
		return result
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := result[field]; seen {
			continue
		}
		result[field] = messageFor(field, fe.Tag())
	}
	return result
}

func messageFor(field, tag string) string {
	msgs, ok := bookingMessages[field]
	if !ok {
		return "Invalid value"
	}
	if tag == "required" && msgs.required != "" {
		return msgs.required
	}
	return msgs.invalid
}

// isISODate accepts a calendar date in YYYY-MM-DD form. time.Parse rejects
// impossible days such as 2025-02-30.
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// isHHMM accepts a 24-hour clock time, 00:00 through 23:59.
func isHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

// isIntInRange coerces the field to an integer and checks it against an
// inclusive "lo-hi" parameter, e.g. intrange=1-6.
func isIntInRange(fl validator.FieldLevel) bool {
	lo, hi, ok := parseRange(fl.Param())
	if !ok {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return n >= lo && n <= hi
}

func parseRange(param string) (int, int, bool) {
	parts := strings.SplitN(param, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
