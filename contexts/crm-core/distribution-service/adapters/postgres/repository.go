package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
	"leadflow/contexts/crm-core/distribution-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateOperator(ctx context.Context, operator entities.Operator) error {
	if strings.TrimSpace(operator.ID) == "" || strings.TrimSpace(operator.Name) == "" || operator.MaxActiveLeads <= 0 {
		r.logWarn("distribution_repo_create_operator_invalid_input",
			"operator_id", strings.TrimSpace(operator.ID),
			"name", strings.TrimSpace(operator.Name),
			"max_active_leads", operator.MaxActiveLeads,
		)
		return domainerrors.ErrInvalidOperatorInput
	}
	row := operatorModelFromEntity(operator)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("distribution_repo_create_operator_failed", err,
			"operator_id", row.ID,
			"name", row.Name,
		)
	}
	return nil
}

func (r *Repository) UpdateOperator(ctx context.Context, operator entities.Operator) error {
	result := r.db.WithContext(ctx).
		Model(&operatorModel{}).
		Where("id = ?", strings.TrimSpace(operator.ID)).
		Updates(map[string]any{
			"name":             strings.TrimSpace(operator.Name),
			"is_active":        operator.IsActive,
			"max_active_leads": operator.MaxActiveLeads,
		})
	if result.Error != nil {
		return r.logError("distribution_repo_update_operator_failed", result.Error,
			"operator_id", strings.TrimSpace(operator.ID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("distribution_repo_update_operator_not_found",
			"operator_id", strings.TrimSpace(operator.ID),
		)
		return domainerrors.ErrOperatorNotFound
	}
	return nil
}

func (r *Repository) GetOperator(ctx context.Context, operatorID string) (entities.Operator, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(operatorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Operator{}, domainerrors.ErrOperatorNotFound
		}
		return entities.Operator{}, r.logError("distribution_repo_get_operator_failed", err,
			"operator_id", strings.TrimSpace(operatorID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOperators(ctx context.Context) ([]entities.Operator, error) {
	var rows []operatorModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_operators_failed", err)
	}
	operators := make([]entities.Operator, 0, len(rows))
	for _, row := range rows {
		operators = append(operators, row.toEntity())
	}
	return operators, nil
}

func (r *Repository) CountOperatorsByIDs(ctx context.Context, operatorIDs []string) (int64, error) {
	if len(operatorIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&operatorModel{}).
		Where("id IN ?", operatorIDs).
		Count(&count).Error; err != nil {
		return 0, r.logError("distribution_repo_count_operators_failed", err,
			"operator_count", len(operatorIDs),
		)
	}
	return count, nil
}

func (r *Repository) CreateSource(ctx context.Context, source entities.Source) error {
	if strings.TrimSpace(source.ID) == "" || strings.TrimSpace(source.Name) == "" {
		r.logWarn("distribution_repo_create_source_invalid_input",
			"source_id", strings.TrimSpace(source.ID),
			"name", strings.TrimSpace(source.Name),
		)
		return domainerrors.ErrInvalidSourceInput
	}
	row := sourceModelFromEntity(source)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("distribution_repo_create_source_name_conflict",
				"source_id", row.ID,
				"name", row.Name,
			)
			return domainerrors.ErrSourceNameTaken
		}
		return r.logError("distribution_repo_create_source_failed", err,
			"source_id", row.ID,
			"name", row.Name,
		)
	}
	return nil
}

func (r *Repository) GetSource(ctx context.Context, sourceID string) (entities.Source, error) {
	var row sourceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sourceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Source{}, domainerrors.ErrSourceNotFound
		}
		return entities.Source{}, r.logError("distribution_repo_get_source_failed", err,
			"source_id", strings.TrimSpace(sourceID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetSourceByName(ctx context.Context, name string) (entities.Source, error) {
	var row sourceModel
	err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Source{}, domainerrors.ErrSourceNotFound
		}
		return entities.Source{}, r.logError("distribution_repo_get_source_by_name_failed", err,
			"name", strings.TrimSpace(name),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSources(ctx context.Context) ([]entities.Source, error) {
	var rows []sourceModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_sources_failed", err)
	}
	sources := make([]entities.Source, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, row.toEntity())
	}
	return sources, nil
}

// ReplaceWeightConfigs swaps the source's weight set inside one transaction
// so a failed insert keeps the previous configuration.
func (r *Repository) ReplaceWeightConfigs(ctx context.Context, sourceID string, configs []entities.WeightConfig) error {
	normalizedSourceID := strings.TrimSpace(sourceID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("source_id = ?", normalizedSourceID).
			Delete(&weightConfigModel{}).Error; err != nil {
			return err
		}
		if len(configs) == 0 {
			return nil
		}
		rows := make([]weightConfigModel, 0, len(configs))
		for _, config := range configs {
			rows = append(rows, weightConfigModel{
				SourceID:   normalizedSourceID,
				OperatorID: strings.TrimSpace(config.OperatorID),
				Weight:     config.Weight,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return r.logError("distribution_repo_replace_weight_configs_failed", err,
			"source_id", normalizedSourceID,
			"config_count", len(configs),
		)
	}
	return nil
}

func (r *Repository) ListWeightConfigsBySource(ctx context.Context, sourceID string) ([]entities.WeightConfig, error) {
	var rows []weightConfigModel
	if err := r.db.WithContext(ctx).
		Where("source_id = ?", strings.TrimSpace(sourceID)).
		Order("operator_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_weight_configs_failed", err,
			"source_id", strings.TrimSpace(sourceID),
		)
	}
	configs := make([]entities.WeightConfig, 0, len(rows))
	for _, row := range rows {
		configs = append(configs, entities.WeightConfig{
			SourceID:   row.SourceID,
			OperatorID: row.OperatorID,
			Weight:     row.Weight,
		})
	}
	return configs, nil
}

func (r *Repository) ListCandidates(ctx context.Context, sourceID string) ([]entities.WeightedOperator, error) {
	var rows []candidateRow
	if err := r.db.WithContext(ctx).
		Table("weight_configs").
		Select("operators.id AS operator_id, operators.name AS operator_name, operators.is_active AS is_active, operators.max_active_leads AS max_active_leads, operators.created_at AS operator_created_at, weight_configs.weight AS weight").
		Joins("JOIN operators ON operators.id = weight_configs.operator_id").
		Where("weight_configs.source_id = ?", strings.TrimSpace(sourceID)).
		Where("operators.is_active = ?", true).
		Order("operators.name ASC, operators.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_candidates_failed", err,
			"source_id", strings.TrimSpace(sourceID),
		)
	}
	candidates := make([]entities.WeightedOperator, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, entities.WeightedOperator{
			Operator: entities.Operator{
				ID:             row.OperatorID,
				Name:           row.OperatorName,
				IsActive:       row.IsActive,
				MaxActiveLeads: row.MaxActiveLeads,
				CreatedAt:      row.OperatorCreatedAt.UTC(),
			},
			Weight: row.Weight,
		})
	}
	return candidates, nil
}

// CountActiveContacts is the one aggregate read of the assignment hot path:
// a single grouped count over every candidate id.
func (r *Repository) CountActiveContacts(ctx context.Context, operatorIDs []string) (map[string]int64, error) {
	loads := make(map[string]int64, len(operatorIDs))
	if len(operatorIDs) == 0 {
		return loads, nil
	}
	var rows []operatorLoadRow
	if err := r.db.WithContext(ctx).
		Table("contacts").
		Select("operator_id AS operator_id, COUNT(*) AS active_contacts").
		Where("operator_id IN ?", operatorIDs).
		Where("status = ?", string(entities.ContactStatusActive)).
		Group("operator_id").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_count_active_contacts_failed", err,
			"operator_count", len(operatorIDs),
		)
	}
	for _, row := range rows {
		loads[row.OperatorID] = row.ActiveContacts
	}
	return loads, nil
}

func (r *Repository) CreateLead(ctx context.Context, lead entities.Lead) error {
	if strings.TrimSpace(lead.ID) == "" || strings.TrimSpace(lead.ExternalID) == "" {
		r.logWarn("distribution_repo_create_lead_invalid_input",
			"lead_id", strings.TrimSpace(lead.ID),
			"external_id", strings.TrimSpace(lead.ExternalID),
		)
		return domainerrors.ErrInvalidContactInput
	}
	row := leadModelFromEntity(lead)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			r.logWarn("distribution_repo_create_lead_external_id_conflict",
				"lead_id", row.ID,
				"external_id", row.ExternalID,
			)
			return domainerrors.ErrLeadExternalIDTaken
		}
		return r.logError("distribution_repo_create_lead_failed", err,
			"lead_id", row.ID,
			"external_id", row.ExternalID,
		)
	}
	return nil
}

func (r *Repository) GetLead(ctx context.Context, leadID string) (entities.Lead, error) {
	var row leadModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(leadID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Lead{}, domainerrors.ErrLeadNotFound
		}
		return entities.Lead{}, r.logError("distribution_repo_get_lead_failed", err,
			"lead_id", strings.TrimSpace(leadID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetLeadByExternalID(ctx context.Context, externalID string) (entities.Lead, error) {
	var row leadModel
	err := r.db.WithContext(ctx).
		Where("external_id = ?", strings.TrimSpace(externalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Lead{}, domainerrors.ErrLeadNotFound
		}
		return entities.Lead{}, r.logError("distribution_repo_get_lead_by_external_id_failed", err,
			"external_id", strings.TrimSpace(externalID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateContact(ctx context.Context, contact entities.Contact) error {
	if strings.TrimSpace(contact.ID) == "" ||
		strings.TrimSpace(contact.LeadID) == "" ||
		strings.TrimSpace(contact.SourceID) == "" {
		r.logWarn("distribution_repo_create_contact_invalid_input",
			"contact_id", strings.TrimSpace(contact.ID),
			"lead_id", strings.TrimSpace(contact.LeadID),
			"source_id", strings.TrimSpace(contact.SourceID),
		)
		return domainerrors.ErrInvalidContactInput
	}
	row := contactModelFromEntity(contact)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("distribution_repo_create_contact_failed", err,
			"contact_id", row.ID,
			"lead_id", row.LeadID,
			"source_id", row.SourceID,
		)
	}
	return nil
}

func (r *Repository) ListContactsByLead(ctx context.Context, leadID string) ([]entities.Contact, error) {
	var rows []contactModel
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", strings.TrimSpace(leadID)).
		Order("created_at DESC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_contacts_by_lead_failed", err,
			"lead_id", strings.TrimSpace(leadID),
		)
	}
	contacts := make([]entities.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toEntity())
	}
	return contacts, nil
}

// ListStatusRows aggregates contact totals per (source, operator) in one
// grouped query. Unassigned contacts keep their source grouping and surface
// with an empty operator id and name via the LEFT JOIN.
func (r *Repository) ListStatusRows(ctx context.Context) ([]ports.StatusRow, error) {
	var rows []statusRowModel
	if err := r.db.WithContext(ctx).
		Table("contacts").
		Select(
			"contacts.source_id AS source_id, "+
				"sources.name AS source_name, "+
				"COALESCE(contacts.operator_id, '') AS operator_id, "+
				"COALESCE(operators.name, '') AS operator_name, "+
				"COUNT(*) AS total_contacts, "+
				"SUM(CASE WHEN contacts.status = ? THEN 1 ELSE 0 END) AS active_contacts",
			string(entities.ContactStatusActive),
		).
		Joins("JOIN sources ON sources.id = contacts.source_id").
		Joins("LEFT JOIN operators ON operators.id = contacts.operator_id").
		Group("contacts.source_id, sources.name, contacts.operator_id, operators.name").
		Order("sources.name ASC, COALESCE(operators.name, '') ASC, COALESCE(contacts.operator_id, '') ASC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_list_status_rows_failed", err)
	}
	result := make([]ports.StatusRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.StatusRow{
			SourceID:       row.SourceID,
			SourceName:     row.SourceName,
			OperatorID:     row.OperatorID,
			OperatorName:   row.OperatorName,
			TotalContacts:  row.TotalContacts,
			ActiveContacts: row.ActiveContacts,
		})
	}
	return result, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "crm-core/distribution-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("distribution repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "crm-core/distribution-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("distribution repository warning", fields...)
}

type operatorModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name"`
	IsActive       bool      `gorm:"column:is_active"`
	MaxActiveLeads int       `gorm:"column:max_active_leads"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (operatorModel) TableName() string {
	return "operators"
}

func operatorModelFromEntity(operator entities.Operator) operatorModel {
	return operatorModel{
		ID:             strings.TrimSpace(operator.ID),
		Name:           strings.TrimSpace(operator.Name),
		IsActive:       operator.IsActive,
		MaxActiveLeads: operator.MaxActiveLeads,
		CreatedAt:      operator.CreatedAt.UTC(),
	}
}

func (m operatorModel) toEntity() entities.Operator {
	return entities.Operator{
		ID:             m.ID,
		Name:           m.Name,
		IsActive:       m.IsActive,
		MaxActiveLeads: m.MaxActiveLeads,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type sourceModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex:ux_sources_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sourceModel) TableName() string {
	return "sources"
}

func sourceModelFromEntity(source entities.Source) sourceModel {
	return sourceModel{
		ID:        strings.TrimSpace(source.ID),
		Name:      strings.TrimSpace(source.Name),
		CreatedAt: source.CreatedAt.UTC(),
	}
}

func (m sourceModel) toEntity() entities.Source {
	return entities.Source{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type weightConfigModel struct {
	SourceID   string `gorm:"column:source_id;primaryKey"`
	OperatorID string `gorm:"column:operator_id;primaryKey"`
	Weight     int    `gorm:"column:weight"`
}

func (weightConfigModel) TableName() string {
	return "weight_configs"
}

type leadModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ExternalID string    `gorm:"column:external_id;uniqueIndex:ux_leads_external_id"`
	Name       string    `gorm:"column:name"`
	Phone      string    `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (leadModel) TableName() string {
	return "leads"
}

func leadModelFromEntity(lead entities.Lead) leadModel {
	return leadModel{
		ID:         strings.TrimSpace(lead.ID),
		ExternalID: strings.TrimSpace(lead.ExternalID),
		Name:       strings.TrimSpace(lead.Name),
		Phone:      strings.TrimSpace(lead.Phone),
		CreatedAt:  lead.CreatedAt.UTC(),
	}
}

func (m leadModel) toEntity() entities.Lead {
	return entities.Lead{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Phone:      m.Phone,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type contactModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	LeadID     string    `gorm:"column:lead_id;index:ix_contacts_lead"`
	SourceID   string    `gorm:"column:source_id;index:ix_contacts_source"`
	OperatorID *string   `gorm:"column:operator_id;index:ix_contacts_operator_status"`
	Status     string    `gorm:"column:status;index:ix_contacts_operator_status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (contactModel) TableName() string {
	return "contacts"
}

func contactModelFromEntity(contact entities.Contact) contactModel {
	row := contactModel{
		ID:        strings.TrimSpace(contact.ID),
		LeadID:    strings.TrimSpace(contact.LeadID),
		SourceID:  strings.TrimSpace(contact.SourceID),
		Status:    string(contact.Status),
		CreatedAt: contact.CreatedAt.UTC(),
	}
	if operatorID := strings.TrimSpace(contact.OperatorID); operatorID != "" {
		row.OperatorID = &operatorID
	}
	return row
}

func (m contactModel) toEntity() entities.Contact {
	contact := entities.Contact{
		ID:        m.ID,
		LeadID:    m.LeadID,
		SourceID:  m.SourceID,
		Status:    entities.ContactStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.OperatorID != nil {
		contact.OperatorID = *m.OperatorID
	}
	return contact
}

type candidateRow struct {
	OperatorID        string
	OperatorName      string
	IsActive          bool
	MaxActiveLeads    int
	OperatorCreatedAt time.Time
	Weight            int
}

type operatorLoadRow struct {
	OperatorID     string
	ActiveContacts int64
}

type statusRowModel struct {
	SourceID       string
	SourceName     string
	OperatorID     string
	OperatorName   string
	TotalContacts  int64
	ActiveContacts int64
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
