package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "leadflow/contexts/crm-core/distribution-service/application"
	"leadflow/contexts/crm-core/distribution-service/application/commands"
	"leadflow/contexts/crm-core/distribution-service/application/queries"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	httptransport "leadflow/contexts/crm-core/distribution-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

// CreateOperatorHandler godoc
// @Summary Create an operator
// @Description Registers a new operator; is_active defaults to true and max_active_leads to 5.
// @Tags crm-distribution
// @Accept json
// @Produce json
// @Param request body httptransport.CreateOperatorRequest true "Operator payload"
// @Success 201 {object} httptransport.OperatorDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /operators [post]
func (h Handler) CreateOperatorHandler(ctx context.Context, req httptransport.CreateOperatorRequest) (httptransport.OperatorDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	cmd := commands.CreateOperatorCommand{
		Name:           req.Name,
		IsActive:       true,
		MaxActiveLeads: entities.DefaultMaxActiveLeads,
	}
	if req.IsActive != nil {
		cmd.IsActive = *req.IsActive
	}
	if req.MaxActiveLeads != nil {
		cmd.MaxActiveLeads = *req.MaxActiveLeads
	}
	operator, err := h.Commands.CreateOperator(ctx, cmd)
	if err != nil {
		logger.Warn("distribution http create operator failed",
			"event", "distribution_http_create_operator_failed",
			"module", "crm-core/distribution-service",
			"layer", "adapter",
			"name", strings.TrimSpace(req.Name),
			"error", err.Error(),
		)
		return httptransport.OperatorDTO{}, err
	}
	return mapOperator(operator), nil
}

// ListOperatorsHandler godoc
// @Summary List operators
// @Description Returns every operator in creation order.
// @Tags crm-distribution
// @Produce json
// @Success 200 {array} httptransport.OperatorDTO
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /operators [get]
func (h Handler) ListOperatorsHandler(ctx context.Context) ([]httptransport.OperatorDTO, error) {
	operators, err := h.Queries.ListOperators(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]httptransport.OperatorDTO, 0, len(operators))
	for _, operator := range operators {
		dtos = append(dtos, mapOperator(operator))
	}
	return dtos, nil
}

// UpdateOperatorHandler godoc
// @Summary Update an operator
// @Description Replaces the operator's name, active flag, and concurrent-contact cap.
// @Tags crm-distribution
// @Accept json
// @Produce json
// @Param operator_id path string true "Operator id"
// @Param request body httptransport.UpdateOperatorRequest true "Operator payload"
// @Success 200 {object} httptransport.OperatorDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /operators/{operator_id} [put]
func (h Handler) UpdateOperatorHandler(ctx context.Context, operatorID string, req httptransport.UpdateOperatorRequest) (httptransport.OperatorDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	cmd := commands.UpdateOperatorCommand{
		OperatorID:     operatorID,
		Name:           req.Name,
		IsActive:       true,
		MaxActiveLeads: entities.DefaultMaxActiveLeads,
	}
	if req.IsActive != nil {
		cmd.IsActive = *req.IsActive
	}
	if req.MaxActiveLeads != nil {
		cmd.MaxActiveLeads = *req.MaxActiveLeads
	}
	operator, err := h.Commands.UpdateOperator(ctx, cmd)
	if err != nil {
		logger.Warn("distribution http update operator failed",
			"event", "distribution_http_update_operator_failed",
			"module", "crm-core/distribution-service",
			"layer", "adapter",
			"operator_id", strings.TrimSpace(operatorID),
			"error", err.Error(),
		)
		return httptransport.OperatorDTO{}, err
	}
	return mapOperator(operator), nil
}

// CreateSourceHandler godoc
// @Summary Create a source
// @Description Registers a new inbound channel; names are globally unique.
// @Tags crm-distribution
// @Accept json
// @Produce json
// @Param request body httptransport.CreateSourceRequest true "Source payload"
// @Success 201 {object} httptransport.SourceDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /sources [post]
func (h Handler) CreateSourceHandler(ctx context.Context, req httptransport.CreateSourceRequest) (httptransport.SourceDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	source, err := h.Commands.CreateSource(ctx, commands.CreateSourceCommand{Name: req.Name})
	if err != nil {
		logger.Warn("distribution http create source failed",
			"event", "distribution_http_create_source_failed",
			"module", "crm-core/distribution-service",
			"layer", "adapter",
			"name", strings.TrimSpace(req.Name),
			"error", err.Error(),
		)
		return httptransport.SourceDTO{}, err
	}
	return mapSource(source), nil
}

// ListSourcesHandler godoc
// @Summary List sources
// @Description Returns every source in creation order.
// @Tags crm-distribution
// @Produce json
// @Success 200 {array} httptransport.SourceDTO
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /sources [get]
func (h Handler) ListSourcesHandler(ctx context.Context) ([]httptransport.SourceDTO, error) {
	sources, err := h.Queries.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]httptransport.SourceDTO, 0, len(sources))
	for _, source := range sources {
		dtos = append(dtos, mapSource(source))
	}
	return dtos, nil
}

// SetDistributionHandler godoc
// @Summary Replace a source's weight set
// @Description Atomically swaps the full operator weight configuration for one source; omitted weights default to 10.
// @Tags crm-distribution
// @Accept json
// @Produce json
// @Param source_id path string true "Source id"
// @Param request body httptransport.SetDistributionRequest true "Weight set"
// @Success 200 {object} httptransport.SetDistributionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /sources/{source_id}/distribution [post]
func (h Handler) SetDistributionHandler(ctx context.Context, sourceID string, req httptransport.SetDistributionRequest) (httptransport.SetDistributionResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	assignments := make([]commands.WeightAssignment, 0, len(req.Assignments))
	for _, assignment := range req.Assignments {
		weight := entities.DefaultWeight
		if assignment.Weight != nil {
			weight = *assignment.Weight
		}
		assignments = append(assignments, commands.WeightAssignment{
			OperatorID: assignment.OperatorID,
			Weight:     weight,
		})
	}
	if err := h.Commands.ReplaceDistribution(ctx, commands.ReplaceDistributionCommand{
		SourceID:    sourceID,
		Assignments: assignments,
	}); err != nil {
		logger.Warn("distribution http set distribution failed",
			"event", "distribution_http_set_distribution_failed",
			"module", "crm-core/distribution-service",
			"layer", "adapter",
			"source_id", strings.TrimSpace(sourceID),
			"assignment_count", len(req.Assignments),
			"error", err.Error(),
		)
		return httptransport.SetDistributionResponse{}, err
	}
	logger.Info("distribution http set distribution completed",
		"event", "distribution_http_set_distribution_completed",
		"module", "crm-core/distribution-service",
		"layer", "adapter",
		"source_id", strings.TrimSpace(sourceID),
		"assignment_count", len(assignments),
	)
	return httptransport.SetDistributionResponse{
		SourceID:    strings.TrimSpace(sourceID),
		ConfigCount: len(assignments),
	}, nil
}

// RegisterContactHandler godoc
// @Summary Register an inbound contact
// @Description Resolves or creates the lead, then assigns an operator by configured weights among those under their cap; assigned_operator is null when none qualify.
// @Tags crm-distribution
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterContactRequest true "Contact payload"
// @Success 201 {object} httptransport.RegisterContactResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /contacts [post]
func (h Handler) RegisterContactHandler(ctx context.Context, req httptransport.RegisterContactRequest) (httptransport.RegisterContactResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Commands.RegisterContact(ctx, commands.RegisterContactCommand{
		ExternalID: req.ExternalID,
		SourceName: req.SourceName,
		LeadName:   req.Name,
		LeadPhone:  req.Phone,
	})
	if err != nil {
		logger.Warn("distribution http register contact failed",
			"event", "distribution_http_register_contact_failed",
			"module", "crm-core/distribution-service",
			"layer", "adapter",
			"external_id", strings.TrimSpace(req.ExternalID),
			"source_name", strings.TrimSpace(req.SourceName),
			"error", err.Error(),
		)
		return httptransport.RegisterContactResponse{}, err
	}
	response := httptransport.RegisterContactResponse{Contact: mapContact(result.Contact)}
	if result.Operator != nil {
		operator := mapOperator(*result.Operator)
		response.AssignedOperator = &operator
	}
	return response, nil
}

// GetLeadHandler godoc
// @Summary Get a lead with its contacts
// @Description Returns the lead and its full contact history, newest first.
// @Tags crm-distribution
// @Produce json
// @Param lead_id path string true "Lead id"
// @Success 200 {object} httptransport.LeadResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /leads/{lead_id} [get]
func (h Handler) GetLeadHandler(ctx context.Context, leadID string) (httptransport.LeadResponse, error) {
	lead, contacts, err := h.Queries.GetLead(ctx, leadID)
	if err != nil {
		return httptransport.LeadResponse{}, err
	}
	response := httptransport.LeadResponse{
		ID:         lead.ID,
		ExternalID: lead.ExternalID,
		Name:       lead.Name,
		Phone:      lead.Phone,
		CreatedAt:  lead.CreatedAt.Format(time.RFC3339),
		Contacts:   make([]httptransport.ContactDTO, 0, len(contacts)),
	}
	for _, contact := range contacts {
		response.Contacts = append(response.Contacts, mapContact(contact))
	}
	return response, nil
}

// StatusHandler godoc
// @Summary Distribution status
// @Description Reports per-operator caps and contact totals grouped by source and operator; unassigned contacts appear with an empty operator.
// @Tags crm-distribution
// @Produce json
// @Success 200 {object} httptransport.StatusResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /distribution/status [get]
func (h Handler) StatusHandler(ctx context.Context) (httptransport.StatusResponse, error) {
	report, err := h.Queries.DistributionStatus(ctx)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	response := httptransport.StatusResponse{
		OperatorLimits: make([]httptransport.OperatorLimitDTO, 0, len(report.OperatorLimits)),
		Distribution:   make([]httptransport.StatusRowDTO, 0, len(report.Summary)),
	}
	for _, limit := range report.OperatorLimits {
		response.OperatorLimits = append(response.OperatorLimits, httptransport.OperatorLimitDTO{
			OperatorID:     limit.OperatorID,
			Name:           limit.Name,
			IsActive:       limit.IsActive,
			MaxActiveLeads: limit.MaxActiveLeads,
		})
	}
	for _, row := range report.Summary {
		response.Distribution = append(response.Distribution, httptransport.StatusRowDTO{
			SourceID:       row.SourceID,
			SourceName:     row.SourceName,
			OperatorID:     row.OperatorID,
			OperatorName:   row.OperatorName,
			TotalContacts:  row.TotalContacts,
			ActiveContacts: row.ActiveContacts,
		})
	}
	return response, nil
}

func mapOperator(operator entities.Operator) httptransport.OperatorDTO {
	return httptransport.OperatorDTO{
		ID:             operator.ID,
		Name:           operator.Name,
		IsActive:       operator.IsActive,
		MaxActiveLeads: operator.MaxActiveLeads,
		CreatedAt:      operator.CreatedAt.Format(time.RFC3339),
	}
}

func mapSource(source entities.Source) httptransport.SourceDTO {
	return httptransport.SourceDTO{
		ID:        source.ID,
		Name:      source.Name,
		CreatedAt: source.CreatedAt.Format(time.RFC3339),
	}
}

func mapContact(contact entities.Contact) httptransport.ContactDTO {
	return httptransport.ContactDTO{
		ID:         contact.ID,
		LeadID:     contact.LeadID,
		SourceID:   contact.SourceID,
		OperatorID: contact.OperatorID,
		Status:     string(contact.Status),
		CreatedAt:  contact.CreatedAt.Format(time.RFC3339),
	}
}
