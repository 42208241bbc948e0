// Package mail delivers notification mail for the marketplace. The reset
// flow treats delivery as best-effort: the token is durably issued before
// the mailer runs, and a delivery failure never retracts it.
package mail

// Mailer sends a password-reset link for the given token to an address.
// Implementations own formatting; callers pass only the raw token.
type Mailer interface {
	SendPasswordReset(to string, token string) error
}

// NopMailer discards mail. Used in tests and local setups without SMTP.
type NopMailer struct{}

func (NopMailer) SendPasswordReset(string, string) error { return nil }
