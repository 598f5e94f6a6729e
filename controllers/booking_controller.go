package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/models"
	"github.com/joy095/taxibooking/services"
	"github.com/joy095/taxibooking/utils/mail"
	"github.com/joy095/taxibooking/views"
)

const (
	formTitle         = "Book a Taxi"
	receivedTitle     = "Booking Received"
	mailFailedMessage = "We could not send your booking right now. Please try again later."
	badFormMessage    = "Your booking could not be read. Please try again."
)

type BookingController struct {
	*PageController
	Service *services.BookingService
}

func NewBookingController(pc *PageController, svc *services.BookingService) *BookingController {
	return &BookingController{PageController: pc, Service: svc}
}

// ShowForm renders the empty booking form.
func (bc *BookingController) ShowForm(c *gin.Context) {
	bc.Render(c, http.StatusOK, views.Index, views.FormPage{Page: bc.page(formTitle)})
}

// Book handles a form submission. The client IP (as resolved through the
// trusted proxies) is the rate-limit key.
func (bc *BookingController) Book(c *gin.Context) {
	var form models.BookingForm
	if err := c.ShouldBind(&form); err != nil {
		logger.WarnLogger.Warnf("Failed to bind booking form: %v", err)
		bc.RenderError(c, http.StatusBadRequest, "Error", badFormMessage, err)
		return
	}

	res := bc.Service.Submit(c.Request.Context(), c.ClientIP(), form)

	switch res.Outcome {
	case models.OutcomeRejected:
		bc.Render(c, http.StatusOK, views.Index, views.FormPage{
			Page:   bc.page(formTitle),
			Form:   res.Form,
			Errors: res.Errors,
		})
	case models.OutcomeRateLimited:
		bc.TooManyRequests(c)
	case models.OutcomeMailFailed:
		if !errors.Is(res.Err, services.ErrMailTransport) {
			logger.ErrorLogger.Errorf("Unexpected booking failure: %v", res.Err)
		}
		bc.RenderError(c, http.StatusInternalServerError, "Error", mailFailedMessage, res.Err)
	default:
		bc.Render(c, http.StatusOK, views.Success, views.SuccessPage{
			Page:    bc.page(receivedTitle),
			Summary: summary(res.Booking),
		})
	}
}

func summary(b models.Booking) []views.SummaryRow {
	rows := mail.Rows(b)
	out := make([]views.SummaryRow, len(rows))
	for i, r := range rows {
		out[i] = views.SummaryRow{Label: r.Label, Value: r.Value}
	}
	return out
}
