package ports

import (
	"context"
	"time"

	"leadflow/contexts/crm-core/distribution-service/domain/entities"
)

// OperatorRepository owns operator rows and their management writes.
type OperatorRepository interface {
	CreateOperator(ctx context.Context, operator entities.Operator) error
	UpdateOperator(ctx context.Context, operator entities.Operator) error
	GetOperator(ctx context.Context, operatorID string) (entities.Operator, error)
	ListOperators(ctx context.Context) ([]entities.Operator, error)
	// CountOperatorsByIDs reports how many of the given ids exist, as one
	// query over the whole set.
	CountOperatorsByIDs(ctx context.Context, operatorIDs []string) (int64, error)
}

// SourceRepository owns source rows and each source's weight set.
type SourceRepository interface {
	// CreateSource fails with ErrSourceNameTaken when the name is in use.
	CreateSource(ctx context.Context, source entities.Source) error
	GetSource(ctx context.Context, sourceID string) (entities.Source, error)
	GetSourceByName(ctx context.Context, name string) (entities.Source, error)
	ListSources(ctx context.Context) ([]entities.Source, error)
	// ReplaceWeightConfigs atomically deletes the source's previous weight
	// set and inserts the new one; a failure leaves the old set intact.
	ReplaceWeightConfigs(ctx context.Context, sourceID string, configs []entities.WeightConfig) error
	ListWeightConfigsBySource(ctx context.Context, sourceID string) ([]entities.WeightConfig, error)
}

// AssignmentRepository serves the read side of the distribution decision.
type AssignmentRepository interface {
	// ListCandidates returns the source's configured operators filtered to
	// active ones, each with its configured weight, ordered by operator name
	// then id.
	ListCandidates(ctx context.Context, sourceID string) ([]entities.WeightedOperator, error)
	// CountActiveContacts returns ACTIVE contact counts grouped by operator
	// id, computed as one aggregate query over all given ids. Operators with
	// no active contacts are absent from the result.
	CountActiveContacts(ctx context.Context, operatorIDs []string) (map[string]int64, error)
}

// LeadRepository owns lead and contact persistence.
type LeadRepository interface {
	// CreateLead fails with ErrLeadExternalIDTaken when another row already
	// holds the external id, so callers can re-read after losing a race.
	CreateLead(ctx context.Context, lead entities.Lead) error
	GetLead(ctx context.Context, leadID string) (entities.Lead, error)
	GetLeadByExternalID(ctx context.Context, externalID string) (entities.Lead, error)
	CreateContact(ctx context.Context, contact entities.Contact) error
	ListContactsByLead(ctx context.Context, leadID string) ([]entities.Contact, error)
}

// StatusRow is one aggregate row of the distribution summary. OperatorID and
// OperatorName are empty for contacts registered without an assignment.
type StatusRow struct {
	SourceID       string
	SourceName     string
	OperatorID     string
	OperatorName   string
	TotalContacts  int64
	ActiveContacts int64
}

// StatusRepository serves the read-only load summary.
type StatusRepository interface {
	// ListStatusRows aggregates contacts grouped by (source, operator),
	// ordered by source name then operator name.
	ListStatusRows(ctx context.Context) ([]StatusRow, error)
}

// Repository bundles every persistence concern of the module; the postgres
// and memory adapters satisfy all of it.
type Repository interface {
	OperatorRepository
	SourceRepository
	AssignmentRepository
	LeadRepository
	StatusRepository
}

// Clock allows deterministic timestamps in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts row identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// MetricsPublisher records distribution outcomes for the operations scrape.
// Implementations must be safe for concurrent use; a nil publisher disables
// recording.
type MetricsPublisher interface {
	RecordRegistration(sourceName string, assigned bool)
	SetOperatorLoad(operatorName string, activeContacts int64)
}
