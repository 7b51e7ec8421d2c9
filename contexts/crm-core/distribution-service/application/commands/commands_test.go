package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"leadflow/contexts/crm-core/distribution-service/adapters/memory"
	"leadflow/contexts/crm-core/distribution-service/domain/entities"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct {
	next int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id-%04d", g.next), nil
}

func newTestUseCase(store *memory.Store) UseCase {
	return UseCase{
		Repository: store,
		Clock:      fixedClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)},
		IDGen:      &seqIDGen{},
	}
}

func mustOperator(t *testing.T, uc UseCase, name string, active bool, maxLeads int) entities.Operator {
	t.Helper()
	operator, err := uc.CreateOperator(context.Background(), CreateOperatorCommand{
		Name:           name,
		IsActive:       active,
		MaxActiveLeads: maxLeads,
	})
	if err != nil {
		t.Fatalf("create operator %q failed: %v", name, err)
	}
	return operator
}

func mustSource(t *testing.T, uc UseCase, name string) entities.Source {
	t.Helper()
	source, err := uc.CreateSource(context.Background(), CreateSourceCommand{Name: name})
	if err != nil {
		t.Fatalf("create source %q failed: %v", name, err)
	}
	return source
}

func mustConfigure(t *testing.T, uc UseCase, sourceID string, assignments ...WeightAssignment) {
	t.Helper()
	if err := uc.ReplaceDistribution(context.Background(), ReplaceDistributionCommand{
		SourceID:    sourceID,
		Assignments: assignments,
	}); err != nil {
		t.Fatalf("replace distribution failed: %v", err)
	}
}

func TestCreateOperatorRejectsInvalidInput(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())

	if _, err := uc.CreateOperator(context.Background(), CreateOperatorCommand{Name: "   ", IsActive: true, MaxActiveLeads: 5}); err != domainerrors.ErrInvalidOperatorInput {
		t.Fatalf("expected invalid operator input for blank name, got %v", err)
	}
	if _, err := uc.CreateOperator(context.Background(), CreateOperatorCommand{Name: "Ana", IsActive: true, MaxActiveLeads: 0}); err != domainerrors.ErrInvalidOperatorInput {
		t.Fatalf("expected invalid operator input for zero cap, got %v", err)
	}
}

func TestUpdateOperatorMissingTarget(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())

	_, err := uc.UpdateOperator(context.Background(), UpdateOperatorCommand{
		OperatorID:     "missing",
		Name:           "Ana",
		IsActive:       true,
		MaxActiveLeads: 3,
	})
	if err != domainerrors.ErrOperatorNotFound {
		t.Fatalf("expected operator not found, got %v", err)
	}
}

func TestCreateSourceDuplicateName(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())
	mustSource(t, uc, "web")

	if _, err := uc.CreateSource(context.Background(), CreateSourceCommand{Name: "web"}); err != domainerrors.ErrSourceNameTaken {
		t.Fatalf("expected source name taken, got %v", err)
	}
}

func TestReplaceDistributionRejectsDuplicateOperatorAndKeepsPriorConfig(t *testing.T) {
	store := memory.NewStore()
	uc := newTestUseCase(store)
	operator := mustOperator(t, uc, "Ana", true, 5)
	other := mustOperator(t, uc, "Boris", true, 5)
	source := mustSource(t, uc, "web")
	mustConfigure(t, uc, source.ID, WeightAssignment{OperatorID: operator.ID, Weight: 4})

	err := uc.ReplaceDistribution(context.Background(), ReplaceDistributionCommand{
		SourceID: source.ID,
		Assignments: []WeightAssignment{
			{OperatorID: other.ID, Weight: 1},
			{OperatorID: other.ID, Weight: 2},
		},
	})
	if err != domainerrors.ErrDuplicateConfigOperator {
		t.Fatalf("expected duplicate config operator, got %v", err)
	}

	configs, err := store.ListWeightConfigsBySource(context.Background(), source.ID)
	if err != nil {
		t.Fatalf("list weight configs failed: %v", err)
	}
	if len(configs) != 1 || configs[0].OperatorID != operator.ID || configs[0].Weight != 4 {
		t.Fatalf("expected prior config untouched, got %+v", configs)
	}
}

func TestReplaceDistributionRejectsNonPositiveWeight(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())
	operator := mustOperator(t, uc, "Ana", true, 5)
	source := mustSource(t, uc, "web")

	err := uc.ReplaceDistribution(context.Background(), ReplaceDistributionCommand{
		SourceID:    source.ID,
		Assignments: []WeightAssignment{{OperatorID: operator.ID, Weight: 0}},
	})
	if err != domainerrors.ErrInvalidWeightInput {
		t.Fatalf("expected invalid weight input, got %v", err)
	}
}

func TestReplaceDistributionUnknownOperator(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())
	source := mustSource(t, uc, "web")

	err := uc.ReplaceDistribution(context.Background(), ReplaceDistributionCommand{
		SourceID:    source.ID,
		Assignments: []WeightAssignment{{OperatorID: "ghost", Weight: 1}},
	})
	if err != domainerrors.ErrOperatorNotFound {
		t.Fatalf("expected operator not found, got %v", err)
	}
}

func TestReplaceDistributionUnknownSource(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())

	err := uc.ReplaceDistribution(context.Background(), ReplaceDistributionCommand{SourceID: "ghost"})
	if err != domainerrors.ErrSourceNotFound {
		t.Fatalf("expected source not found, got %v", err)
	}
}

func TestRegisterContactReusesLeadAcrossRegistrations(t *testing.T) {
	store := memory.NewStore()
	uc := newTestUseCase(store)
	operator := mustOperator(t, uc, "Ana", true, 10)
	source := mustSource(t, uc, "web")
	mustConfigure(t, uc, source.ID, WeightAssignment{OperatorID: operator.ID, Weight: 1})

	first, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-100", SourceName: "web"})
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	second, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-100", SourceName: "web"})
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}

	if first.Contact.LeadID != second.Contact.LeadID {
		t.Fatalf("expected one lead for both contacts, got %q and %q", first.Contact.LeadID, second.Contact.LeadID)
	}
	contacts, err := store.ListContactsByLead(context.Background(), first.Contact.LeadID)
	if err != nil {
		t.Fatalf("list contacts failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected two contacts on the lead, got %d", len(contacts))
	}
}

func TestRegisterContactUnknownSource(t *testing.T) {
	uc := newTestUseCase(memory.NewStore())

	_, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-1", SourceName: "ghost"})
	if err != domainerrors.ErrSourceNotFound {
		t.Fatalf("expected source not found, got %v", err)
	}
}

func TestRegisterContactHonorsOperatorCap(t *testing.T) {
	store := memory.NewStore()
	uc := newTestUseCase(store)
	operator := mustOperator(t, uc, "Ana", true, 2)
	source := mustSource(t, uc, "web")
	mustConfigure(t, uc, source.ID, WeightAssignment{OperatorID: operator.ID, Weight: 1})

	for i := 0; i < 2; i++ {
		result, err := uc.RegisterContact(context.Background(), RegisterContactCommand{
			ExternalID: fmt.Sprintf("tg-%d", i),
			SourceName: "web",
		})
		if err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
		if result.Operator == nil || result.Operator.ID != operator.ID {
			t.Fatalf("registration %d: expected assignment to %q, got %+v", i, operator.ID, result.Operator)
		}
	}

	overflow, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-overflow", SourceName: "web"})
	if err != nil {
		t.Fatalf("overflow registration failed: %v", err)
	}
	if overflow.Operator != nil {
		t.Fatalf("expected unassigned contact once the cap is reached, got %+v", overflow.Operator)
	}
	if overflow.Contact.OperatorID != "" {
		t.Fatalf("expected empty operator id on overflow contact, got %q", overflow.Contact.OperatorID)
	}
}

func TestRegisterContactSkipsInactiveOperator(t *testing.T) {
	store := memory.NewStore()
	uc := newTestUseCase(store)
	operator := mustOperator(t, uc, "Ana", false, 5)
	source := mustSource(t, uc, "web")
	mustConfigure(t, uc, source.ID, WeightAssignment{OperatorID: operator.ID, Weight: 100})

	result, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-1", SourceName: "web"})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if result.Operator != nil {
		t.Fatalf("expected no assignment for inactive operator, got %+v", result.Operator)
	}
}

func TestRegisterContactUnconfiguredSourceLeavesContactUnassigned(t *testing.T) {
	store := memory.NewStore()
	uc := newTestUseCase(store)
	mustSource(t, uc, "web")

	result, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-1", SourceName: "web"})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if result.Operator != nil {
		t.Fatalf("expected unassigned contact for unconfigured source, got %+v", result.Operator)
	}
	if result.Contact.Status != entities.ContactStatusActive {
		t.Fatalf("expected ACTIVE contact, got %q", result.Contact.Status)
	}
}

// raceLeadRepo simulates losing the lead-create race: the create call fails
// with the uniqueness sentinel after another writer's row appears.
type raceLeadRepo struct {
	*memory.Store
	winner entities.Lead
}

func (r *raceLeadRepo) CreateLead(ctx context.Context, lead entities.Lead) error {
	if err := r.Store.CreateLead(ctx, r.winner); err != nil {
		return err
	}
	return domainerrors.ErrLeadExternalIDTaken
}

func TestRegisterContactLostLeadRaceReReadsWinner(t *testing.T) {
	store := memory.NewStore()
	race := &raceLeadRepo{
		Store: store,
		winner: entities.Lead{
			ID:         "lead-winner",
			ExternalID: "tg-race",
			CreatedAt:  time.Date(2026, time.March, 10, 8, 59, 0, 0, time.UTC),
		},
	}
	uc := newTestUseCase(store)
	uc.Repository = race
	mustSource(t, uc, "web")

	result, err := uc.RegisterContact(context.Background(), RegisterContactCommand{ExternalID: "tg-race", SourceName: "web"})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if result.Contact.LeadID != "lead-winner" {
		t.Fatalf("expected contact to reference the winning lead, got %q", result.Contact.LeadID)
	}
}
