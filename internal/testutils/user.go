package testutils

import (
	"github.com/google/uuid"
	"github.com/nfrund/biodex/internal/domain"
)

// TestPassword satisfies the sign-up password rules.
const TestPassword = "correct-horse"

// NewSignUpRequest returns a valid sign-up with an email no other test
// will use.
func NewSignUpRequest(displayName string) domain.SignUpRequest {
	return domain.SignUpRequest{
		Email:       uuid.NewString() + "@example.com",
		Password:    TestPassword,
		DisplayName: displayName,
	}
}
