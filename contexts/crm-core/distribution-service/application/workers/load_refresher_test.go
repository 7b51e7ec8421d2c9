package workers

import (
	"context"
	"testing"
	"time"

	"leadflow/contexts/crm-core/distribution-service/adapters/memory"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
)

type captureMetrics struct {
	loads map[string]int64
}

func (m *captureMetrics) RecordRegistration(string, bool) {}

func (m *captureMetrics) SetOperatorLoad(name string, active int64) {
	m.loads[name] = active
}

func TestLoadRefresherPublishesEveryOperatorLoad(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	if err := store.CreateOperator(ctx, entities.Operator{ID: "op-busy", Name: "Busy", IsActive: true, MaxActiveLeads: 5, CreatedAt: base}); err != nil {
		t.Fatalf("seed operator failed: %v", err)
	}
	if err := store.CreateOperator(ctx, entities.Operator{ID: "op-idle", Name: "Idle", IsActive: true, MaxActiveLeads: 5, CreatedAt: base}); err != nil {
		t.Fatalf("seed operator failed: %v", err)
	}
	if err := store.CreateSource(ctx, entities.Source{ID: "src-web", Name: "web", CreatedAt: base}); err != nil {
		t.Fatalf("seed source failed: %v", err)
	}
	if err := store.CreateLead(ctx, entities.Lead{ID: "lead-1", ExternalID: "tg-1", CreatedAt: base}); err != nil {
		t.Fatalf("seed lead failed: %v", err)
	}
	if err := store.CreateContact(ctx, entities.Contact{
		ID: "c-1", LeadID: "lead-1", SourceID: "src-web", OperatorID: "op-busy",
		Status: entities.ContactStatusActive, CreatedAt: base,
	}); err != nil {
		t.Fatalf("seed contact failed: %v", err)
	}

	metrics := &captureMetrics{loads: make(map[string]int64)}
	job := LoadRefresher{Repository: store, Metrics: metrics}
	if err := job.RunOnce(ctx); err != nil {
		t.Fatalf("run once failed: %v", err)
	}

	if metrics.loads["Busy"] != 1 {
		t.Fatalf("expected Busy load 1, got %d", metrics.loads["Busy"])
	}
	if load, ok := metrics.loads["Idle"]; !ok || load != 0 {
		t.Fatalf("expected Idle load published as 0, got %d (present=%v)", load, ok)
	}
}

func TestLoadRefresherNoMetricsIsNoop(t *testing.T) {
	job := LoadRefresher{Repository: memory.NewStore()}
	if err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("expected nil-metrics run to succeed, got %v", err)
	}
}
