package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	distributionservice "leadflow/contexts/crm-core/distribution-service"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
	distributionhttp "leadflow/contexts/crm-core/distribution-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "leadflow/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	server       *http.Server
	logger       *slog.Logger
	addr         string
	distribution distributionservice.Module
}

func New(
	distribution distributionservice.Module,
	metricsHandler http.Handler,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		distribution: distribution,
	}
	s.registerRoutes(metricsHandler)
	s.server = &http.Server{Addr: addr, Handler: s.mux}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(metricsHandler http.Handler) {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if metricsHandler != nil {
		s.mux.Handle("GET /metrics", metricsHandler)
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /operators", s.handleCreateOperator)
	s.mux.HandleFunc("GET /operators", s.handleListOperators)
	s.mux.HandleFunc("PUT /operators/{operator_id}", s.handleUpdateOperator)
	s.mux.HandleFunc("POST /sources", s.handleCreateSource)
	s.mux.HandleFunc("GET /sources", s.handleListSources)
	s.mux.HandleFunc("POST /sources/{source_id}/distribution", s.handleSetDistribution)
	s.mux.HandleFunc("POST /contacts", s.handleRegisterContact)
	s.mux.HandleFunc("GET /leads/{lead_id}", s.handleGetLead)
	s.mux.HandleFunc("GET /distribution/status", s.handleStatus)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateOperator(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.CreateOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.distribution.Handler.CreateOperatorHandler(r.Context(), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.ListOperatorsHandler(r.Context())
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOperator(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.UpdateOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	operatorID := r.PathValue("operator_id")
	resp, err := s.distribution.Handler.UpdateOperatorHandler(r.Context(), operatorID, req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.CreateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.distribution.Handler.CreateSourceHandler(r.Context(), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.ListSourcesHandler(r.Context())
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetDistribution(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.SetDistributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	sourceID := r.PathValue("source_id")
	resp, err := s.distribution.Handler.SetDistributionHandler(r.Context(), sourceID, req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterContact(w http.ResponseWriter, r *http.Request) {
	var req distributionhttp.RegisterContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDistributionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.distribution.Handler.RegisterContactHandler(r.Context(), req)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("lead_id")
	resp, err := s.distribution.Handler.GetLeadHandler(r.Context(), leadID)
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.StatusHandler(r.Context())
	if err != nil {
		writeDistributionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDistributionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrOperatorNotFound):
		writeDistributionError(w, http.StatusNotFound, "operator_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrSourceNotFound):
		writeDistributionError(w, http.StatusNotFound, "source_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrLeadNotFound):
		writeDistributionError(w, http.StatusNotFound, "lead_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrSourceNameTaken):
		writeDistributionError(w, http.StatusConflict, "source_name_taken", err.Error())
	case errors.Is(err, domainerrors.ErrLeadExternalIDTaken):
		writeDistributionError(w, http.StatusConflict, "lead_external_id_taken", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateConfigOperator):
		writeDistributionError(w, http.StatusBadRequest, "duplicate_config_operator", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidOperatorInput):
		writeDistributionError(w, http.StatusBadRequest, "invalid_operator_input", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidSourceInput):
		writeDistributionError(w, http.StatusBadRequest, "invalid_source_input", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidWeightInput):
		writeDistributionError(w, http.StatusBadRequest, "invalid_weight_input", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidContactInput):
		writeDistributionError(w, http.StatusBadRequest, "invalid_contact_input", err.Error())
	default:
		writeDistributionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDistributionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, distributionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
