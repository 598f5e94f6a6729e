package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/metrics"
	"github.com/joy095/taxibooking/models"
	"github.com/joy095/taxibooking/ratelimit"
	"github.com/joy095/taxibooking/utils/mail"
	"github.com/joy095/taxibooking/validators"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRateLimited means the client used up its submissions for the window.
	ErrRateLimited = errors.New("too many booking attempts")
	// ErrMailTransport wraps any failure to verify or send the notification.
	ErrMailTransport = errors.New("booking notification could not be sent")
)

// Result is what the booking pipeline decided for one submission.
type Result struct {
	Outcome models.Outcome
	// Form is the trimmed submission, echoed back on the booking page.
	Form    models.BookingForm
	Booking models.Booking
	Errors  models.ValidationErrors
	// Err is set for RateLimited (ErrRateLimited) and MailFailed (wraps
	// ErrMailTransport). It may hold transport detail and is for logs and
	// development diagnostics only.
	Err error
}

// BookingService runs a submission through rate limiting, validation, the
// honeypot check and, when mail is enabled, one delivery attempt.
type BookingService struct {
	limiter   ratelimit.Limiter
	validator *validators.BookingValidator
	sender    mail.Sender
	metrics   *metrics.Metrics
}

// NewBookingService wires the pipeline. A nil sender behaves like
// mail.NoopSender and nil metrics are skipped.
func NewBookingService(l ratelimit.Limiter, v *validators.BookingValidator, s mail.Sender, m *metrics.Metrics) *BookingService {
	if s == nil {
		s = mail.NoopSender{}
	}
	return &BookingService{limiter: l, validator: v, sender: s, metrics: m}
}

// Submit processes one booking from clientKey.
func (s *BookingService) Submit(ctx context.Context, clientKey string, form models.BookingForm) Result {
	form.Normalize()
	res := s.submit(ctx, clientKey, form)

	if s.metrics != nil {
		s.metrics.BookingOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	}
	entry := logger.InfoLogger.WithFields(logrus.Fields{
		"outcome": res.Outcome,
		"client":  clientKey,
	})
	if res.Errors != nil {
		entry = entry.WithField("invalid_fields", len(res.Errors))
	}
	entry.Info("Booking submission handled")

	return res
}

func (s *BookingService) submit(ctx context.Context, clientKey string, form models.BookingForm) Result {
	if !s.admit(ctx, clientKey) {
		return Result{Outcome: models.OutcomeRateLimited, Form: form, Err: ErrRateLimited}
	}

	if errs := s.validator.Validate(form); len(errs) > 0 {
		return Result{Outcome: models.OutcomeRejected, Form: form, Errors: errs}
	}

	booking := form.Booking()
	res := Result{Form: form, Booking: booking}

	switch {
	case form.IsSpam():
		res.Outcome = models.OutcomeSpamSuppressed
	case !s.sender.Enabled():
		res.Outcome = models.OutcomeMailSkipped
	default:
		start := time.Now()
		err := s.sender.Send(ctx, booking)
		if s.metrics != nil {
			s.metrics.MailSendDuration.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to send booking notification: %v", err)
			res.Outcome = models.OutcomeMailFailed
			res.Err = fmt.Errorf("%w: %w", ErrMailTransport, err)
			return res
		}
		res.Outcome = models.OutcomeMailSent
	}
	return res
}

// admit consults the limiter. A failing shared store lets the request
// through so an outage there does not take bookings down with it.
func (s *BookingService) admit(ctx context.Context, clientKey string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Admit(ctx, clientKey)
	if err != nil {
		logger.WarnLogger.Warnf("Rate limiter unavailable, admitting %s: %v", clientKey, err)
		return true
	}
	if !ok && s.metrics != nil {
		s.metrics.Throttled.WithLabelValues("client").Inc()
	}
	return ok
}
