package services

import "leadflow/contexts/crm-core/distribution-service/domain/entities"

// FilterEligible retains candidates that are active and strictly under their
// concurrent-contact cap. Loads are keyed by operator id; a missing key means
// zero active contacts. Candidate order is preserved.
func FilterEligible(candidates []entities.WeightedOperator, loads map[string]int64) []entities.WeightedOperator {
	eligible := make([]entities.WeightedOperator, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.Operator.IsActive {
			continue
		}
		if !candidate.Operator.HasCapacity(loads[candidate.Operator.ID]) {
			continue
		}
		eligible = append(eligible, candidate)
	}
	return eligible
}
