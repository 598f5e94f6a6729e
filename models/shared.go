package models

// Outcome is the terminal state of one booking submission.
type Outcome string

const (
	OutcomeRateLimited    Outcome = "rate_limited"
	OutcomeRejected       Outcome = "rejected"
	OutcomeSpamSuppressed Outcome = "spam_suppressed"
	OutcomeMailSkipped    Outcome = "mail_skipped"
	OutcomeMailSent       Outcome = "mail_sent"
	OutcomeMailFailed     Outcome = "mail_failed"
)

// Succeeded reports whether the submitter sees the ordinary success page.
// Spam, skipped and sent bookings are indistinguishable from the outside.
func (o Outcome) Succeeded() bool {
	switch o {
	case OutcomeSpamSuppressed, OutcomeMailSkipped, OutcomeMailSent:
		return true
	}
	return false
}

// ValidationErrors maps a form field name to its first failing rule message.
type ValidationErrors map[string]string
