package errors

import "errors"

var (
	ErrOperatorNotFound        = errors.New("operator not found")
	ErrSourceNotFound          = errors.New("source not found")
	ErrLeadNotFound            = errors.New("lead not found")
	ErrSourceNameTaken         = errors.New("source name already exists")
	ErrLeadExternalIDTaken     = errors.New("lead external id already exists")
	ErrDuplicateConfigOperator = errors.New("duplicate operator in weight set")
	ErrInvalidOperatorInput    = errors.New("invalid operator input")
	ErrInvalidSourceInput      = errors.New("invalid source input")
	ErrInvalidWeightInput      = errors.New("invalid weight input")
	ErrInvalidContactInput     = errors.New("invalid contact input")
)
