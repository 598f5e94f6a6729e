package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/models"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/booking.html"))
	textTemplate = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/booking.txt"))
)

// EmptyNotes is shown in place of blank notes.
const EmptyNotes = "—"

// ErrNotConfigured is returned by NoopSender.Send; the pipeline never calls
// it because Enabled reports false.
var ErrNotConfigured = errors.New("mail transport not configured")

// Message is a rendered booking notification.
type Message struct {
	Subject string
	HTML    string
	Text    string

	// Cc is the submitter's address when they asked to be copied, else empty.
	Cc          string
	Attachments []Attachment
}

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Row is one label/value line of the booking summary.
type Row struct {
	Label string
	Value string
}

// Rows lists every booking field in display order.
func Rows(b models.Booking) []Row {
	notes := b.Notes
	if strings.TrimSpace(notes) == "" {
		notes = EmptyNotes
	}
	return []Row{
		{"Full Name", b.FullName},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"Pickup Address", b.PickupAddress},
		{"Dropoff Address", b.DropoffAddress},
		{"Pickup Date", b.PickupDate},
		{"Pickup Time", b.PickupTime},
		{"Passengers", strconv.Itoa(b.Passengers)},
		{"Notes", notes},
	}
}

// Subject names the passenger and the pickup slot.
func Subject(b models.Booking) string {
	return fmt.Sprintf("New Taxi Booking - %s - %s %s", b.FullName, b.PickupDate, b.PickupTime)
}

// BuildMessage renders the subject and both bodies. Values in the HTML body
// are escaped by html/template.
func BuildMessage(b models.Booking) (Message, error) {
	data := struct{ Rows []Row }{Rows: Rows(b)}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("failed to execute html email template: %w", err)
	}

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("failed to execute text email template: %w", err)
	}

	return Message{
		Subject: Subject(b),
		HTML:    html.String(),
		Text:    strings.TrimRight(text.String(), "\n"),
	}, nil
}

// Sender delivers a booking notification. The booking pipeline only calls
// Send when Enabled reports true.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, b models.Booking) error
}

// NoopSender stands in when the SMTP settings are incomplete.
type NoopSender struct{}

func (NoopSender) Enabled() bool { return false }

func (NoopSender) Send(context.Context, models.Booking) error { return ErrNotConfigured }

// Transport hands a rendered message to a mail server. Send verifies the
// connection before delivering and makes exactly one attempt.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher turns bookings into messages and passes them to a Transport.
type Dispatcher struct {
	transport  Transport
	ccCustomer bool
	attachPDF  bool
}

type DispatcherOption func(*Dispatcher)

// WithCCCustomer copies the submitter on the notification.
func WithCCCustomer(cc bool) DispatcherOption {
	return func(d *Dispatcher) { d.ccCustomer = cc }
}

// WithPDFSummary attaches a PDF rendering of the booking.
func WithPDFSummary(attach bool) DispatcherOption {
	return func(d *Dispatcher) { d.attachPDF = attach }
}

func NewDispatcher(t Transport, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{transport: t}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Enabled() bool { return d.transport != nil }

// Send builds the notification for b and delivers it once. Errors carry
// transport detail for logs; they are never shown to submitters.
func (d *Dispatcher) Send(ctx context.Context, b models.Booking) error {
	msg, err := BuildMessage(b)
	if err != nil {
		return err
	}
	if d.ccCustomer {
		msg.Cc = b.Email
	}
	if d.attachPDF {
		pdf, err := RenderPDF(b)
		if err != nil {
			return err
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:        "booking.pdf",
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		return err
	}
	logger.InfoLogger.Infof("Booking notification sent for pickup %s %s", b.PickupDate, b.PickupTime)
	return nil
}
