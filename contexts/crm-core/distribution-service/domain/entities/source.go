package entities

import "time"

// DefaultWeight applies when a source-operator pairing is configured without
// an explicit weight.
const DefaultWeight = 10

type Source struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// WeightConfig grants an operator a relative share of one source's traffic.
// At most one row exists per (source, operator) pair.
type WeightConfig struct {
	SourceID   string
	OperatorID string
	Weight     int
}

// WeightedOperator pairs an operator with its configured weight for one
// source, as consumed by the assignment decision.
type WeightedOperator struct {
	Operator Operator
	Weight   int
}
