package distributionservice

import (
	"log/slog"

	httpadapter "leadflow/contexts/crm-core/distribution-service/adapters/http"
	"leadflow/contexts/crm-core/distribution-service/adapters/memory"
	"leadflow/contexts/crm-core/distribution-service/application/commands"
	"leadflow/contexts/crm-core/distribution-service/application/queries"
	"leadflow/contexts/crm-core/distribution-service/application/workers"
	"leadflow/contexts/crm-core/distribution-service/domain/services"
	"leadflow/contexts/crm-core/distribution-service/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	Commands      commands.UseCase
	Queries       queries.UseCase
	LoadRefresher workers.LoadRefresher
	Store         *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Rand       services.Rand
	Metrics    ports.MetricsPublisher
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Rand:       deps.Rand,
		Metrics:    deps.Metrics,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: commandUseCase,
		Queries:  queryUseCase,
		LoadRefresher: workers.LoadRefresher{
			Repository: deps.Repository,
			Metrics:    deps.Metrics,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
