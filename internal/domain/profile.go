package domain

import "context"

// Profile is the public face of a user. It is read-only in this application.
type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Biography   *string `json:"biography,omitempty"`
}

// ProfileRepository lists profiles.
type ProfileRepository interface {
	// List returns every profile ordered by ID descending.
	List(ctx context.Context) ([]Profile, error)
}
