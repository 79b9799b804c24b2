package models

import "time"

// Consent stores the cookie choices of a user. Necessary cookies cannot be refused.
type Consent struct {
	UserID    int        `json:"user_id"`
	Necessary bool       `json:"necessary"`
	Analytics bool       `json:"analytics"`
	Marketing bool       `json:"marketing"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ConsentRequest struct {
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}
