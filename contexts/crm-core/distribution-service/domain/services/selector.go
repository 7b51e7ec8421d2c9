package services

import (
	"math/rand/v2"

	"leadflow/contexts/crm-core/distribution-service/domain/entities"
)

// Rand is the randomness source for the weighted draw. The shared generator
// from math/rand/v2 satisfies it; tests substitute a seeded or scripted one.
type Rand interface {
	Int64N(n int64) int64
}

// SystemRand returns a Rand backed by the shared math/rand/v2 generator,
// which is safe for concurrent use.
func SystemRand() Rand { return systemRand{} }

type systemRand struct{}

func (systemRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// PickWeighted draws one candidate with probability proportional to its
// weight and returns the chosen operator id; ok is false for an empty set.
// Non-positive weights are rejected at configuration time and never reach
// the draw.
func PickWeighted(candidates []entities.WeightedOperator, rng Rand) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	var total int64
	for _, candidate := range candidates {
		total += int64(candidate.Weight)
	}
	if total <= 0 {
		return "", false
	}
	point := rng.Int64N(total)
	for _, candidate := range candidates {
		point -= int64(candidate.Weight)
		if point < 0 {
			return candidate.Operator.ID, true
		}
	}
	return candidates[len(candidates)-1].Operator.ID, true
}
