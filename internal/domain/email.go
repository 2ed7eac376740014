package domain

// EmailSender delivers transactional mail such as the sign-up welcome.
// Implementations live in internal/email.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}
