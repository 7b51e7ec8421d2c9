package entities

import "time"

// DefaultMaxActiveLeads applies when an operator is created without an
// explicit concurrent-contact cap.
const DefaultMaxActiveLeads = 5

type Operator struct {
	ID             string
	Name           string
	IsActive       bool
	MaxActiveLeads int
	CreatedAt      time.Time
}

// HasCapacity reports whether the operator may take one more active contact
// given its currently observed load.
func (o Operator) HasCapacity(activeLoad int64) bool {
	return activeLoad < int64(o.MaxActiveLeads)
}
