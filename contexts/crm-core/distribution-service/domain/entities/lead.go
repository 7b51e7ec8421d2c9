package entities

import "time"

// Lead is one external customer identity. ExternalID is supplied by the
// originating system and is globally unique; repeated registrations from the
// same identity reuse the existing row.
type Lead struct {
	ID         string
	ExternalID string
	Name       string
	Phone      string
	CreatedAt  time.Time
}
