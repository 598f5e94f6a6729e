// Command cmd checks the SMTP settings from the environment (and .env) by
// connecting and authenticating, without sending anything. With -send it
// also delivers a sample booking to ADMIN_EMAIL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joy095/taxibooking/config"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/models"
	"github.com/joy095/taxibooking/utils/mail"
)

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

func main() {
	send := flag.Bool("send", false, "send a sample booking notification after verifying")
	flag.Parse()

	if err := run(context.Background(), config.Load().Mail, *send); err != nil {
		logger.ErrorLogger.Error(err)
		fmt.Fprintln(os.Stderr, "SMTP check failed:", err)
		os.Exit(1)
	}
	fmt.Println("SMTP check passed")
}

func run(ctx context.Context, cfg config.MailConfig, send bool) error {
	transport, err := mail.NewSMTPTransport(cfg)
	if err != nil {
		return err
	}
	if err := transport.Verify(ctx); err != nil {
		return err
	}
	logger.InfoLogger.Infof("SMTP login to %s:%s succeeded", cfg.Host, cfg.Port)

	if !send {
		return nil
	}
	return mail.NewDispatcher(transport, mail.WithPDFSummary(cfg.AttachPDF)).Send(ctx, sampleBooking())
}

func sampleBooking() models.Booking {
	return models.Booking{
		FullName:       "SMTP Check",
		Email:          "smtp-check@example.com",
		Phone:          "555-0100",
		PickupAddress:  "1 Test Street",
		DropoffAddress: "2 Test Avenue",
		PickupDate:     time.Now().Format(time.DateOnly),
		PickupTime:     time.Now().Format("15:04"),
		Passengers:     1,
	}
}
