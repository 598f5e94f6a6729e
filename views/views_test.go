package views

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/joy095/taxibooking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_IndexEchoesFormAndErrors(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Execute(&buf, Index, FormPage{
		Page:   Page{Title: "Book a Taxi"},
		Form:   models.BookingForm{FullName: "Jane <Doe>", Passengers: "3"},
		Errors: models.ValidationErrors{"email": "Please enter a valid email"},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Book a Taxi</title>")
	assert.Contains(t, html, `value="Jane &lt;Doe&gt;"`)
	assert.Contains(t, html, `value="3"`)
	assert.Contains(t, html, "Please enter a valid email")
	assert.NotContains(t, html, "/assets/canva.js")
}

func TestRenderer_EmptyFormDefaultsPassengers(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, Index, FormPage{Page: Page{Title: "Book a Taxi"}}))
	assert.Contains(t, buf.String(), `name="passengers" type="number" min="1" max="6" value="1"`)
	assert.NotContains(t, buf.String(), `class="error"`)
}

func TestRenderer_SuccessListsSummary(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Execute(&buf, Success, SuccessPage{
		Page:    Page{Title: "Booking Received", DesignEnabled: true},
		Summary: []SummaryRow{{"Full Name", "Jane Doe"}, {"Passengers", "2"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<th>Full Name</th><td>Jane Doe</td>")
	assert.Contains(t, buf.String(), "/assets/canva.js")
}

func TestRenderer_ErrorHidesEmptyDetail(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, Error, ErrorPage{Page: Page{Title: "Error"}, Message: "Something went wrong"}))
	assert.Contains(t, buf.String(), "Something went wrong")
	assert.NotContains(t, buf.String(), "diagnostic")
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Error(t, r.Execute(&bytes.Buffer{}, "missing", nil))
}

func TestRenderer_BadDataDoesNotWritePartialPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Execute(&buf, Index, struct{ Title string }{"x"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRenderer_InstanceSetsContentType(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance(Error, ErrorPage{Page: Page{Title: "Not Found"}, Message: "gone"}).Render(w))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "gone")
}
