package queries

import (
	"context"
	"log/slog"
	"strings"

	application "leadflow/contexts/crm-core/distribution-service/application"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	"leadflow/contexts/crm-core/distribution-service/ports"
)

// OperatorLimit is one operator's configured cap as reported by the status
// aggregate.
type OperatorLimit struct {
	OperatorID     string
	Name           string
	IsActive       bool
	MaxActiveLeads int
}

// StatusReport combines per-operator limits with the per-(source, operator)
// contact summary.
type StatusReport struct {
	OperatorLimits []OperatorLimit
	Summary        []ports.StatusRow
}

type UseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc UseCase) ListOperators(ctx context.Context) ([]entities.Operator, error) {
	logger := application.ResolveLogger(uc.Logger)
	operators, err := uc.Repository.ListOperators(ctx)
	if err != nil {
		logger.Warn("operator list failed",
			"event", "distribution_query_list_operators_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return operators, nil
}

func (uc UseCase) ListSources(ctx context.Context) ([]entities.Source, error) {
	logger := application.ResolveLogger(uc.Logger)
	sources, err := uc.Repository.ListSources(ctx)
	if err != nil {
		logger.Warn("source list failed",
			"event", "distribution_query_list_sources_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}
	return sources, nil
}

// GetLead returns the lead and its full contact history, newest first.
func (uc UseCase) GetLead(ctx context.Context, leadID string) (entities.Lead, []entities.Contact, error) {
	logger := application.ResolveLogger(uc.Logger)
	normalizedLeadID := strings.TrimSpace(leadID)
	lead, err := uc.Repository.GetLead(ctx, normalizedLeadID)
	if err != nil {
		logger.Warn("lead lookup failed",
			"event", "distribution_query_get_lead_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"lead_id", normalizedLeadID,
			"error", err.Error(),
		)
		return entities.Lead{}, nil, err
	}
	contacts, err := uc.Repository.ListContactsByLead(ctx, lead.ID)
	if err != nil {
		logger.Warn("lead contact history failed",
			"event", "distribution_query_lead_contacts_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"lead_id", lead.ID,
			"error", err.Error(),
		)
		return entities.Lead{}, nil, err
	}
	return lead, contacts, nil
}

// DistributionStatus aggregates current assignment load for observability.
// The summary is grouped by (source, operator) and sorted by source name then
// operator name; contacts without an assignment are grouped under an empty
// operator.
func (uc UseCase) DistributionStatus(ctx context.Context) (StatusReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	operators, err := uc.Repository.ListOperators(ctx)
	if err != nil {
		logger.Warn("status operator list failed",
			"event", "distribution_query_status_operators_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"error", err.Error(),
		)
		return StatusReport{}, err
	}
	rows, err := uc.Repository.ListStatusRows(ctx)
	if err != nil {
		logger.Warn("status aggregation failed",
			"event", "distribution_query_status_rows_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"error", err.Error(),
		)
		return StatusReport{}, err
	}

	limits := make([]OperatorLimit, 0, len(operators))
	for _, operator := range operators {
		limits = append(limits, OperatorLimit{
			OperatorID:     operator.ID,
			Name:           operator.Name,
			IsActive:       operator.IsActive,
			MaxActiveLeads: operator.MaxActiveLeads,
		})
	}
	return StatusReport{OperatorLimits: limits, Summary: rows}, nil
}
