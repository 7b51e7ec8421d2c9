package workers

import (
	"context"
	"log/slog"

	application "leadflow/contexts/crm-core/distribution-service/application"
	"leadflow/contexts/crm-core/distribution-service/ports"
)

// LoadRefresher periodically republishes every operator's active-contact
// count to the metrics gauge so scrapes stay current between registrations.
type LoadRefresher struct {
	Repository ports.Repository
	Metrics    ports.MetricsPublisher
	Logger     *slog.Logger
}

func (j LoadRefresher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	if j.Metrics == nil {
		return nil
	}
	operators, err := j.Repository.ListOperators(ctx)
	if err != nil {
		logger.Error("load refresh operator list failed",
			"event", "distribution_load_refresh_list_failed",
			"module", "crm-core/distribution-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(operators) == 0 {
		return nil
	}
	operatorIDs := make([]string, 0, len(operators))
	for _, operator := range operators {
		operatorIDs = append(operatorIDs, operator.ID)
	}
	loads, err := j.Repository.CountActiveContacts(ctx, operatorIDs)
	if err != nil {
		logger.Error("load refresh count failed",
			"event", "distribution_load_refresh_count_failed",
			"module", "crm-core/distribution-service",
			"layer", "worker",
			"operator_count", len(operatorIDs),
			"error", err.Error(),
		)
		return err
	}
	for _, operator := range operators {
		j.Metrics.SetOperatorLoad(operator.Name, loads[operator.ID])
	}
	logger.Debug("load refresh cycle succeeded",
		"event", "distribution_load_refresh_succeeded",
		"module", "crm-core/distribution-service",
		"layer", "worker",
		"operator_count", len(operators),
	)
	return nil
}
