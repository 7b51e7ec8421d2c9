package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
	"leadflow/contexts/crm-core/distribution-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory repository used by tests and local runs. Its
// ordering and error semantics mirror the postgres adapter.
type Store struct {
	mu sync.RWMutex

	operators map[string]entities.Operator
	sources   map[string]entities.Source
	weights   map[string]map[string]int
	leads     map[string]entities.Lead
	contacts  map[string]entities.Contact
}

func NewStore() *Store {
	return &Store{
		operators: make(map[string]entities.Operator),
		sources:   make(map[string]entities.Source),
		weights:   make(map[string]map[string]int),
		leads:     make(map[string]entities.Lead),
		contacts:  make(map[string]entities.Contact),
	}
}

func (s *Store) CreateOperator(_ context.Context, operator entities.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(operator.ID) == "" || strings.TrimSpace(operator.Name) == "" || operator.MaxActiveLeads <= 0 {
		return domainerrors.ErrInvalidOperatorInput
	}
	s.operators[operator.ID] = operator
	return nil
}

func (s *Store) UpdateOperator(_ context.Context, operator entities.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.operators[operator.ID]; !exists {
		return domainerrors.ErrOperatorNotFound
	}
	s.operators[operator.ID] = operator
	return nil
}

func (s *Store) GetOperator(_ context.Context, operatorID string) (entities.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	operator, exists := s.operators[strings.TrimSpace(operatorID)]
	if !exists {
		return entities.Operator{}, domainerrors.ErrOperatorNotFound
	}
	return operator, nil
}

func (s *Store) ListOperators(_ context.Context) ([]entities.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	operators := make([]entities.Operator, 0, len(s.operators))
	for _, operator := range s.operators {
		operators = append(operators, operator)
	}
	sort.Slice(operators, func(i, j int) bool {
		if operators[i].CreatedAt.Equal(operators[j].CreatedAt) {
			return operators[i].ID < operators[j].ID
		}
		return operators[i].CreatedAt.Before(operators[j].CreatedAt)
	})
	return operators, nil
}

func (s *Store) CountOperatorsByIDs(_ context.Context, operatorIDs []string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, operatorID := range operatorIDs {
		if _, exists := s.operators[strings.TrimSpace(operatorID)]; exists {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateSource(_ context.Context, source entities.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(source.ID) == "" || strings.TrimSpace(source.Name) == "" {
		return domainerrors.ErrInvalidSourceInput
	}
	for _, existing := range s.sources {
		if existing.Name == source.Name {
			return domainerrors.ErrSourceNameTaken
		}
	}
	s.sources[source.ID] = source
	return nil
}

func (s *Store) GetSource(_ context.Context, sourceID string) (entities.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source, exists := s.sources[strings.TrimSpace(sourceID)]
	if !exists {
		return entities.Source{}, domainerrors.ErrSourceNotFound
	}
	return source, nil
}

func (s *Store) GetSourceByName(_ context.Context, name string) (entities.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := strings.TrimSpace(name)
	for _, source := range s.sources {
		if source.Name == normalized {
			return source, nil
		}
	}
	return entities.Source{}, domainerrors.ErrSourceNotFound
}

func (s *Store) ListSources(_ context.Context) ([]entities.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]entities.Source, 0, len(s.sources))
	for _, source := range s.sources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].CreatedAt.Equal(sources[j].CreatedAt) {
			return sources[i].ID < sources[j].ID
		}
		return sources[i].CreatedAt.Before(sources[j].CreatedAt)
	})
	return sources, nil
}

func (s *Store) ReplaceWeightConfigs(_ context.Context, sourceID string, configs []entities.WeightConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := strings.TrimSpace(sourceID)
	weights := make(map[string]int, len(configs))
	for _, config := range configs {
		weights[strings.TrimSpace(config.OperatorID)] = config.Weight
	}
	s.weights[normalized] = weights
	return nil
}

func (s *Store) ListWeightConfigsBySource(_ context.Context, sourceID string) ([]entities.WeightConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := strings.TrimSpace(sourceID)
	configs := make([]entities.WeightConfig, 0, len(s.weights[normalized]))
	for operatorID, weight := range s.weights[normalized] {
		configs = append(configs, entities.WeightConfig{
			SourceID:   normalized,
			OperatorID: operatorID,
			Weight:     weight,
		})
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].OperatorID < configs[j].OperatorID
	})
	return configs, nil
}

func (s *Store) ListCandidates(_ context.Context, sourceID string) ([]entities.WeightedOperator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]entities.WeightedOperator, 0)
	for operatorID, weight := range s.weights[strings.TrimSpace(sourceID)] {
		operator, exists := s.operators[operatorID]
		if !exists || !operator.IsActive {
			continue
		}
		candidates = append(candidates, entities.WeightedOperator{
			Operator: operator,
			Weight:   weight,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Operator.Name == candidates[j].Operator.Name {
			return candidates[i].Operator.ID < candidates[j].Operator.ID
		}
		return candidates[i].Operator.Name < candidates[j].Operator.Name
	})
	return candidates, nil
}

func (s *Store) CountActiveContacts(_ context.Context, operatorIDs []string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(operatorIDs))
	for _, operatorID := range operatorIDs {
		wanted[strings.TrimSpace(operatorID)] = struct{}{}
	}
	loads := make(map[string]int64, len(operatorIDs))
	for _, contact := range s.contacts {
		if !contact.IsActive() || contact.OperatorID == "" {
			continue
		}
		if _, ok := wanted[contact.OperatorID]; !ok {
			continue
		}
		loads[contact.OperatorID]++
	}
	return loads, nil
}

func (s *Store) CreateLead(_ context.Context, lead entities.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(lead.ID) == "" || strings.TrimSpace(lead.ExternalID) == "" {
		return domainerrors.ErrInvalidContactInput
	}
	for _, existing := range s.leads {
		if existing.ExternalID == lead.ExternalID {
			return domainerrors.ErrLeadExternalIDTaken
		}
	}
	s.leads[lead.ID] = lead
	return nil
}

func (s *Store) GetLead(_ context.Context, leadID string) (entities.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, exists := s.leads[strings.TrimSpace(leadID)]
	if !exists {
		return entities.Lead{}, domainerrors.ErrLeadNotFound
	}
	return lead, nil
}

func (s *Store) GetLeadByExternalID(_ context.Context, externalID string) (entities.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := strings.TrimSpace(externalID)
	for _, lead := range s.leads {
		if lead.ExternalID == normalized {
			return lead, nil
		}
	}
	return entities.Lead{}, domainerrors.ErrLeadNotFound
}

func (s *Store) CreateContact(_ context.Context, contact entities.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(contact.ID) == "" {
		return domainerrors.ErrInvalidContactInput
	}
	if _, exists := s.leads[contact.LeadID]; !exists {
		return domainerrors.ErrLeadNotFound
	}
	if _, exists := s.sources[contact.SourceID]; !exists {
		return domainerrors.ErrSourceNotFound
	}
	s.contacts[contact.ID] = contact
	return nil
}

func (s *Store) ListContactsByLead(_ context.Context, leadID string) ([]entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := strings.TrimSpace(leadID)
	contacts := make([]entities.Contact, 0)
	for _, contact := range s.contacts {
		if contact.LeadID == normalized {
			contacts = append(contacts, contact)
		}
	}
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].CreatedAt.Equal(contacts[j].CreatedAt) {
			return contacts[i].ID < contacts[j].ID
		}
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	return contacts, nil
}

func (s *Store) ListStatusRows(_ context.Context) ([]ports.StatusRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type statusKey struct {
		sourceID   string
		operatorID string
	}
	totals := make(map[statusKey]*ports.StatusRow)
	for _, contact := range s.contacts {
		key := statusKey{sourceID: contact.SourceID, operatorID: contact.OperatorID}
		row, ok := totals[key]
		if !ok {
			row = &ports.StatusRow{
				SourceID:   contact.SourceID,
				OperatorID: contact.OperatorID,
			}
			if source, exists := s.sources[contact.SourceID]; exists {
				row.SourceName = source.Name
			}
			if operator, exists := s.operators[contact.OperatorID]; exists {
				row.OperatorName = operator.Name
			}
			totals[key] = row
		}
		row.TotalContacts++
		if contact.IsActive() {
			row.ActiveContacts++
		}
	}

	rows := make([]ports.StatusRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SourceName != rows[j].SourceName {
			return rows[i].SourceName < rows[j].SourceName
		}
		if rows[i].OperatorName != rows[j].OperatorName {
			return rows[i].OperatorName < rows[j].OperatorName
		}
		return rows[i].OperatorID < rows[j].OperatorID
	})
	return rows, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
