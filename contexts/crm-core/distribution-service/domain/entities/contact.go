package entities

import "time"

type ContactStatus string

const (
	// ContactStatusActive counts against the assigned operator's cap.
	ContactStatusActive ContactStatus = "ACTIVE"
	// ContactStatusClosed is reserved for conversation wrap-up flows; the
	// distribution path never writes it.
	ContactStatusClosed ContactStatus = "CLOSED"
)

// Contact is one inbound interaction tied to a lead and a source. OperatorID
// is empty when registration found no eligible operator.
type Contact struct {
	ID         string
	LeadID     string
	SourceID   string
	OperatorID string
	Status     ContactStatus
	CreatedAt  time.Time
}

// IsActive reports whether the contact currently occupies operator capacity.
func (c Contact) IsActive() bool {
	return c.Status == ContactStatusActive
}

// Assigned reports whether an operator was chosen for this contact.
func (c Contact) Assigned() bool {
	return c.OperatorID != ""
}
