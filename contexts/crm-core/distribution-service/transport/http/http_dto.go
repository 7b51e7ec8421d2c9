package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateOperatorRequest struct {
	Name           string `json:"name"`
	IsActive       *bool  `json:"is_active"`
	MaxActiveLeads *int   `json:"max_active_leads"`
}

type UpdateOperatorRequest struct {
	Name           string `json:"name"`
	IsActive       *bool  `json:"is_active"`
	MaxActiveLeads *int   `json:"max_active_leads"`
}

type CreateSourceRequest struct {
	Name string `json:"name"`
}

type WeightAssignmentDTO struct {
	OperatorID string `json:"operator_id"`
	Weight     *int   `json:"weight"`
}

type SetDistributionRequest struct {
	Assignments []WeightAssignmentDTO `json:"assignments"`
}

type SetDistributionResponse struct {
	SourceID    string `json:"source_id"`
	ConfigCount int    `json:"config_count"`
}

type RegisterContactRequest struct {
	ExternalID string `json:"external_id"`
	SourceName string `json:"source_name"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type OperatorDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsActive       bool   `json:"is_active"`
	MaxActiveLeads int    `json:"max_active_leads"`
	CreatedAt      string `json:"created_at"`
}

type SourceDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type ContactDTO struct {
	ID         string `json:"id"`
	LeadID     string `json:"lead_id"`
	SourceID   string `json:"source_id"`
	OperatorID string `json:"operator_id,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type RegisterContactResponse struct {
	Contact          ContactDTO   `json:"contact"`
	AssignedOperator *OperatorDTO `json:"assigned_operator"`
}

type LeadResponse struct {
	ID         string       `json:"id"`
	ExternalID string       `json:"external_id"`
	Name       string       `json:"name,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	CreatedAt  string       `json:"created_at"`
	Contacts   []ContactDTO `json:"contacts"`
}

type OperatorLimitDTO struct {
	OperatorID     string `json:"operator_id"`
	Name           string `json:"name"`
	IsActive       bool   `json:"is_active"`
	MaxActiveLeads int    `json:"max_active_leads"`
}

type StatusRowDTO struct {
	SourceID       string `json:"source_id"`
	SourceName     string `json:"source_name"`
	OperatorID     string `json:"operator_id,omitempty"`
	OperatorName   string `json:"operator_name,omitempty"`
	TotalContacts  int64  `json:"total_contacts"`
	ActiveContacts int64  `json:"active_contacts"`
}

type StatusResponse struct {
	OperatorLimits []OperatorLimitDTO `json:"operator_limits"`
	Distribution   []StatusRowDTO     `json:"distribution_summary"`
}
