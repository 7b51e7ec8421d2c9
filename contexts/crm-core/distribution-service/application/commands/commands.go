package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "leadflow/contexts/crm-core/distribution-service/application"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
	"leadflow/contexts/crm-core/distribution-service/domain/services"
	"leadflow/contexts/crm-core/distribution-service/ports"
)

type CreateOperatorCommand struct {
	Name           string
	IsActive       bool
	MaxActiveLeads int
}

type UpdateOperatorCommand struct {
	OperatorID     string
	Name           string
	IsActive       bool
	MaxActiveLeads int
}

type CreateSourceCommand struct {
	Name string
}

// WeightAssignment is one (operator, weight) entry of a submitted weight set.
type WeightAssignment struct {
	OperatorID string
	Weight     int
}

type ReplaceDistributionCommand struct {
	SourceID    string
	Assignments []WeightAssignment
}

type RegisterContactCommand struct {
	ExternalID string
	SourceName string
	LeadName   string
	LeadPhone  string
}

// RegistrationResult is the outcome of one contact registration. Operator is
// nil when no configured operator was active and under its cap.
type RegistrationResult struct {
	Contact  entities.Contact
	Operator *entities.Operator
}

type UseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Rand       services.Rand
	Metrics    ports.MetricsPublisher
	Logger     *slog.Logger
}

func (uc UseCase) CreateOperator(ctx context.Context, cmd CreateOperatorCommand) (entities.Operator, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" || cmd.MaxActiveLeads <= 0 {
		logger.Warn("operator create invalid input",
			"event", "distribution_operator_create_invalid_input",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"name", name,
			"max_active_leads", cmd.MaxActiveLeads,
		)
		return entities.Operator{}, domainerrors.ErrInvalidOperatorInput
	}
	operatorID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("operator create id generation failed",
			"event", "distribution_operator_create_id_generation_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Operator{}, err
	}
	operator := entities.Operator{
		ID:             operatorID,
		Name:           name,
		IsActive:       cmd.IsActive,
		MaxActiveLeads: cmd.MaxActiveLeads,
		CreatedAt:      uc.now(),
	}
	if err := uc.Repository.CreateOperator(ctx, operator); err != nil {
		logger.Error("operator create failed",
			"event", "distribution_operator_create_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"operator_id", operator.ID,
			"name", name,
			"error", err.Error(),
		)
		return entities.Operator{}, err
	}
	logger.Info("operator created",
		"event", "distribution_operator_created",
		"module", "crm-core/distribution-service",
		"layer", "application",
		"operator_id", operator.ID,
		"name", operator.Name,
		"is_active", operator.IsActive,
		"max_active_leads", operator.MaxActiveLeads,
	)
	return operator, nil
}

func (uc UseCase) UpdateOperator(ctx context.Context, cmd UpdateOperatorCommand) (entities.Operator, error) {
	logger := application.ResolveLogger(uc.Logger)
	operatorID := strings.TrimSpace(cmd.OperatorID)
	name := strings.TrimSpace(cmd.Name)
	if operatorID == "" || name == "" || cmd.MaxActiveLeads <= 0 {
		logger.Warn("operator update invalid input",
			"event", "distribution_operator_update_invalid_input",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"operator_id", operatorID,
			"name", name,
			"max_active_leads", cmd.MaxActiveLeads,
		)
		return entities.Operator{}, domainerrors.ErrInvalidOperatorInput
	}
	operator, err := uc.Repository.GetOperator(ctx, operatorID)
	if err != nil {
		if err == domainerrors.ErrOperatorNotFound {
			logger.Warn("operator update target missing",
				"event", "distribution_operator_update_not_found",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"operator_id", operatorID,
			)
			return entities.Operator{}, err
		}
		logger.Error("operator update lookup failed",
			"event", "distribution_operator_update_lookup_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"operator_id", operatorID,
			"error", err.Error(),
		)
		return entities.Operator{}, err
	}
	operator.Name = name
	operator.IsActive = cmd.IsActive
	operator.MaxActiveLeads = cmd.MaxActiveLeads
	if err := uc.Repository.UpdateOperator(ctx, operator); err != nil {
		logger.Error("operator update failed",
			"event", "distribution_operator_update_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"operator_id", operator.ID,
			"error", err.Error(),
		)
		return entities.Operator{}, err
	}
	logger.Info("operator updated",
		"event", "distribution_operator_updated",
		"module", "crm-core/distribution-service",
		"layer", "application",
		"operator_id", operator.ID,
		"name", operator.Name,
		"is_active", operator.IsActive,
		"max_active_leads", operator.MaxActiveLeads,
	)
	return operator, nil
}

func (uc UseCase) CreateSource(ctx context.Context, cmd CreateSourceCommand) (entities.Source, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		logger.Warn("source create invalid input",
			"event", "distribution_source_create_invalid_input",
			"module", "crm-core/distribution-service",
			"layer", "application",
		)
		return entities.Source{}, domainerrors.ErrInvalidSourceInput
	}
	sourceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("source create id generation failed",
			"event", "distribution_source_create_id_generation_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"name", name,
			"error", err.Error(),
		)
		return entities.Source{}, err
	}
	source := entities.Source{
		ID:        sourceID,
		Name:      name,
		CreatedAt: uc.now(),
	}
	if err := uc.Repository.CreateSource(ctx, source); err != nil {
		if err == domainerrors.ErrSourceNameTaken {
			logger.Warn("source create name taken",
				"event", "distribution_source_create_name_taken",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"name", name,
			)
			return entities.Source{}, err
		}
		logger.Error("source create failed",
			"event", "distribution_source_create_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"source_id", source.ID,
			"name", name,
			"error", err.Error(),
		)
		return entities.Source{}, err
	}
	logger.Info("source created",
		"event", "distribution_source_created",
		"module", "crm-core/distribution-service",
		"layer", "application",
		"source_id", source.ID,
		"name", source.Name,
	)
	return source, nil
}

// ReplaceDistribution swaps a source's entire weight set. The submitted set
// is validated before any mutation so a rejected call leaves the previous
// configuration untouched.
func (uc UseCase) ReplaceDistribution(ctx context.Context, cmd ReplaceDistributionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	sourceID := strings.TrimSpace(cmd.SourceID)
	if sourceID == "" {
		logger.Warn("distribution replace invalid input",
			"event", "distribution_replace_invalid_input",
			"module", "crm-core/distribution-service",
			"layer", "application",
		)
		return domainerrors.ErrInvalidWeightInput
	}

	configs := make([]entities.WeightConfig, 0, len(cmd.Assignments))
	operatorIDs := make([]string, 0, len(cmd.Assignments))
	seen := map[string]struct{}{}
	for _, assignment := range cmd.Assignments {
		operatorID := strings.TrimSpace(assignment.OperatorID)
		if operatorID == "" || assignment.Weight <= 0 {
			logger.Warn("distribution replace invalid assignment",
				"event", "distribution_replace_invalid_assignment",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"source_id", sourceID,
				"operator_id", operatorID,
				"weight", assignment.Weight,
			)
			return domainerrors.ErrInvalidWeightInput
		}
		if _, exists := seen[operatorID]; exists {
			logger.Warn("distribution replace duplicate operator",
				"event", "distribution_replace_duplicate_operator",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"source_id", sourceID,
				"operator_id", operatorID,
			)
			return domainerrors.ErrDuplicateConfigOperator
		}
		seen[operatorID] = struct{}{}
		operatorIDs = append(operatorIDs, operatorID)
		configs = append(configs, entities.WeightConfig{
			SourceID:   sourceID,
			OperatorID: operatorID,
			Weight:     assignment.Weight,
		})
	}

	if _, err := uc.Repository.GetSource(ctx, sourceID); err != nil {
		if err == domainerrors.ErrSourceNotFound {
			logger.Warn("distribution replace source missing",
				"event", "distribution_replace_source_not_found",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"source_id", sourceID,
			)
			return err
		}
		logger.Error("distribution replace source lookup failed",
			"event", "distribution_replace_source_lookup_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"source_id", sourceID,
			"error", err.Error(),
		)
		return err
	}

	if len(operatorIDs) > 0 {
		known, err := uc.Repository.CountOperatorsByIDs(ctx, operatorIDs)
		if err != nil {
			logger.Error("distribution replace operator check failed",
				"event", "distribution_replace_operator_check_failed",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"source_id", sourceID,
				"operator_count", len(operatorIDs),
				"error", err.Error(),
			)
			return err
		}
		if known != int64(len(operatorIDs)) {
			logger.Warn("distribution replace operator missing",
				"event", "distribution_replace_operator_not_found",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"source_id", sourceID,
				"submitted", len(operatorIDs),
				"known", known,
			)
			return domainerrors.ErrOperatorNotFound
		}
	}

	if err := uc.Repository.ReplaceWeightConfigs(ctx, sourceID, configs); err != nil {
		logger.Error("distribution replace persistence failed",
			"event", "distribution_replace_persistence_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"source_id", sourceID,
			"config_count", len(configs),
			"error", err.Error(),
		)
		return err
	}
	logger.Info("distribution configuration replaced",
		"event", "distribution_configuration_replaced",
		"module", "crm-core/distribution-service",
		"layer", "application",
		"source_id", sourceID,
		"config_count", len(configs),
	)
	return nil
}

// RegisterContact runs the full distribution decision for one inbound
// contact: resolve-or-create the lead, resolve the source by name, pick an
// operator by weight among those under their cap, and persist the contact.
func (uc UseCase) RegisterContact(ctx context.Context, cmd RegisterContactCommand) (RegistrationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	externalID := strings.TrimSpace(cmd.ExternalID)
	sourceName := strings.TrimSpace(cmd.SourceName)
	if externalID == "" || sourceName == "" {
		logger.Warn("contact registration invalid input",
			"event", "distribution_register_contact_invalid_input",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"source_name", sourceName,
		)
		return RegistrationResult{}, domainerrors.ErrInvalidContactInput
	}

	lead, err := uc.resolveLead(ctx, externalID, cmd.LeadName, cmd.LeadPhone)
	if err != nil {
		logger.Error("contact registration lead resolution failed",
			"event", "distribution_register_contact_lead_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"error", err.Error(),
		)
		return RegistrationResult{}, err
	}

	source, err := uc.Repository.GetSourceByName(ctx, sourceName)
	if err != nil {
		if err == domainerrors.ErrSourceNotFound {
			logger.Warn("contact registration source unknown",
				"event", "distribution_register_contact_source_unknown",
				"module", "crm-core/distribution-service",
				"layer", "application",
				"external_id", externalID,
				"source_name", sourceName,
			)
			return RegistrationResult{}, err
		}
		logger.Error("contact registration source lookup failed",
			"event", "distribution_register_contact_source_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"source_name", sourceName,
			"error", err.Error(),
		)
		return RegistrationResult{}, err
	}

	operator, err := uc.selectOperator(ctx, source)
	if err != nil {
		logger.Error("contact registration selection failed",
			"event", "distribution_register_contact_selection_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"source_id", source.ID,
			"error", err.Error(),
		)
		return RegistrationResult{}, err
	}

	contactID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("contact registration id generation failed",
			"event", "distribution_register_contact_id_generation_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"source_id", source.ID,
			"error", err.Error(),
		)
		return RegistrationResult{}, err
	}
	contact := entities.Contact{
		ID:        contactID,
		LeadID:    lead.ID,
		SourceID:  source.ID,
		Status:    entities.ContactStatusActive,
		CreatedAt: uc.now(),
	}
	if operator != nil {
		contact.OperatorID = operator.ID
	}
	if err := uc.Repository.CreateContact(ctx, contact); err != nil {
		logger.Error("contact registration persistence failed",
			"event", "distribution_register_contact_persistence_failed",
			"module", "crm-core/distribution-service",
			"layer", "application",
			"external_id", externalID,
			"contact_id", contact.ID,
			"source_id", source.ID,
			"error", err.Error(),
		)
		return RegistrationResult{}, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordRegistration(source.Name, operator != nil)
	}
	attrs := []any{
		"event", "distribution_contact_registered",
		"module", "crm-core/distribution-service",
		"layer", "application",
		"external_id", externalID,
		"contact_id", contact.ID,
		"lead_id", lead.ID,
		"source_id", source.ID,
		"assigned", operator != nil,
	}
	if operator != nil {
		attrs = append(attrs, "operator_id", operator.ID)
	}
	logger.Info("contact registered", attrs...)
	return RegistrationResult{Contact: contact, Operator: operator}, nil
}

// resolveLead looks up the lead by external id and creates it when absent.
// Two registrations racing on a fresh external id are settled by the store's
// uniqueness guarantee: the loser re-reads the winner's row.
func (uc UseCase) resolveLead(ctx context.Context, externalID string, name string, phone string) (entities.Lead, error) {
	lead, err := uc.Repository.GetLeadByExternalID(ctx, externalID)
	if err == nil {
		return lead, nil
	}
	if err != domainerrors.ErrLeadNotFound {
		return entities.Lead{}, err
	}
	leadID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Lead{}, err
	}
	lead = entities.Lead{
		ID:         leadID,
		ExternalID: externalID,
		Name:       strings.TrimSpace(name),
		Phone:      strings.TrimSpace(phone),
		CreatedAt:  uc.now(),
	}
	err = uc.Repository.CreateLead(ctx, lead)
	if err == nil {
		return lead, nil
	}
	if err == domainerrors.ErrLeadExternalIDTaken {
		return uc.Repository.GetLeadByExternalID(ctx, externalID)
	}
	return entities.Lead{}, err
}

// selectOperator computes the eligible set and draws one operator by weight.
// A nil operator with nil error means no candidate was active and under its
// cap, which is a normal outcome.
func (uc UseCase) selectOperator(ctx context.Context, source entities.Source) (*entities.Operator, error) {
	candidates, err := uc.Repository.ListCandidates(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	operatorIDs := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		operatorIDs = append(operatorIDs, candidate.Operator.ID)
	}
	loads, err := uc.Repository.CountActiveContacts(ctx, operatorIDs)
	if err != nil {
		return nil, err
	}
	eligible := services.FilterEligible(candidates, loads)
	chosenID, ok := services.PickWeighted(eligible, uc.rng())
	if !ok {
		return nil, nil
	}
	// Re-read the winner so a deactivation between the candidate fetch and
	// the draw cannot hand out a stale operator.
	operator, err := uc.Repository.GetOperator(ctx, chosenID)
	if err != nil {
		if err == domainerrors.ErrOperatorNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !operator.IsActive {
		return nil, nil
	}
	return &operator, nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc UseCase) rng() services.Rand {
	if uc.Rand == nil {
		return services.SystemRand()
	}
	return uc.Rand
}
