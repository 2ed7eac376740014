package email

import (
	"fmt"

	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/domain"
)

// NewEmailService returns the sender selected by EMAIL_PROVIDER.
func NewEmailService(cfg config.Provider) (domain.EmailSender, error) {
	switch cfg.GetEmailProvider() {
	case "log", "":
		return NewLogSender(cfg.GetEmailSender(), nil), nil
	case "resend":
		if cfg.GetEmailAPIKey() == "" {
			return nil, fmt.Errorf("email provider is 'resend' but EMAIL_API_KEY is not set")
		}
		return NewResendSender(cfg.GetEmailAPIKey(), cfg.GetEmailSender()), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.GetEmailProvider())
	}
}
