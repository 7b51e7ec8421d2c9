package metrics

import "leadflow/contexts/crm-core/distribution-service/ports"

// Noop discards every metric. Used when METRICS_ENABLED is off.
type Noop struct{}

var _ ports.MetricsPublisher = Noop{}

func (Noop) RecordRegistration(string, bool) {}

func (Noop) SetOperatorLoad(string, int64) {}
