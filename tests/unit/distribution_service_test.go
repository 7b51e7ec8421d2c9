package unit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"golang.org/x/sync/errgroup"

	distributionservice "leadflow/contexts/crm-core/distribution-service"
	"leadflow/contexts/crm-core/distribution-service/adapters/memory"
	"leadflow/contexts/crm-core/distribution-service/application/commands"
	domainerrors "leadflow/contexts/crm-core/distribution-service/domain/errors"
)

func setupOperator(t *testing.T, module distributionservice.Module, name string, limit int) string {
	t.Helper()
	operator, err := module.Commands.CreateOperator(context.Background(), commands.CreateOperatorCommand{
		Name:           name,
		IsActive:       true,
		MaxActiveLeads: limit,
	})
	if err != nil {
		t.Fatalf("create operator %s failed: %v", name, err)
	}
	return operator.ID
}

func setupSource(t *testing.T, module distributionservice.Module, name string) string {
	t.Helper()
	source, err := module.Commands.CreateSource(context.Background(), commands.CreateSourceCommand{Name: name})
	if err != nil {
		t.Fatalf("create source %s failed: %v", name, err)
	}
	return source.ID
}

func setupDistribution(t *testing.T, module distributionservice.Module, sourceID string, assignments ...commands.WeightAssignment) {
	t.Helper()
	err := module.Commands.ReplaceDistribution(context.Background(), commands.ReplaceDistributionCommand{
		SourceID:    sourceID,
		Assignments: assignments,
	})
	if err != nil {
		t.Fatalf("replace distribution failed: %v", err)
	}
}

func register(t *testing.T, module distributionservice.Module, externalID string, sourceName string) commands.RegistrationResult {
	t.Helper()
	result, err := module.Commands.RegisterContact(context.Background(), commands.RegisterContactCommand{
		ExternalID: externalID,
		SourceName: sourceName,
	})
	if err != nil {
		t.Fatalf("register contact %s failed: %v", externalID, err)
	}
	return result
}

func TestDistributionLeadIdentityStableAcrossRegistrations(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	operatorID := setupOperator(t, module, "Ada", 10)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: operatorID, Weight: 10})

	first := register(t, module, "tg-100", "landing-page")
	second := register(t, module, "tg-100", "landing-page")

	if first.Contact.LeadID != second.Contact.LeadID {
		t.Fatalf("expected one lead for repeated external_id, got %s and %s", first.Contact.LeadID, second.Contact.LeadID)
	}
	if first.Contact.ID == second.Contact.ID {
		t.Fatal("expected distinct contacts per registration")
	}

	lead, contacts, err := module.Queries.GetLead(context.Background(), first.Contact.LeadID)
	if err != nil {
		t.Fatalf("get lead failed: %v", err)
	}
	if lead.ExternalID != "tg-100" {
		t.Fatalf("expected external id tg-100, got %s", lead.ExternalID)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts on the lead, got %d", len(contacts))
	}
}

func TestDistributionOperatorCapStopsAssignment(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	operatorID := setupOperator(t, module, "Ada", 2)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: operatorID, Weight: 10})

	for i := 0; i < 2; i++ {
		result := register(t, module, fmt.Sprintf("tg-%d", i), "landing-page")
		if result.Operator == nil || result.Operator.ID != operatorID {
			t.Fatalf("registration %d: expected assignment to %s, got %+v", i, operatorID, result.Operator)
		}
	}

	overflow := register(t, module, "tg-overflow", "landing-page")
	if overflow.Operator != nil {
		t.Fatalf("expected overflow contact unassigned, got %+v", overflow.Operator)
	}
	if !overflow.Contact.IsActive() {
		t.Fatal("expected overflow contact recorded ACTIVE")
	}
	if overflow.Contact.Assigned() {
		t.Fatal("expected overflow contact without operator")
	}
}

func TestDistributionInactiveOperatorNeverAssigned(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	activeID := setupOperator(t, module, "Ada", 100)
	idleID := setupOperator(t, module, "Grace", 100)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID,
		commands.WeightAssignment{OperatorID: activeID, Weight: 1},
		commands.WeightAssignment{OperatorID: idleID, Weight: 1000},
	)

	if _, err := module.Commands.UpdateOperator(context.Background(), commands.UpdateOperatorCommand{
		OperatorID:     idleID,
		Name:           "Grace",
		IsActive:       false,
		MaxActiveLeads: 100,
	}); err != nil {
		t.Fatalf("deactivate operator failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		result := register(t, module, fmt.Sprintf("tg-%d", i), "landing-page")
		if result.Operator == nil {
			t.Fatalf("registration %d: expected assignment, got none", i)
		}
		if result.Operator.ID == idleID {
			t.Fatalf("registration %d: inactive operator received a contact", i)
		}
	}
}

func TestDistributionUnknownSourceNameFails(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)

	_, err := module.Commands.RegisterContact(context.Background(), commands.RegisterContactCommand{
		ExternalID: "tg-1",
		SourceName: "nowhere",
	})
	if !errors.Is(err, domainerrors.ErrSourceNotFound) {
		t.Fatalf("expected source not found, got %v", err)
	}
}

func TestDistributionUnconfiguredSourceLeavesContactUnassigned(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	setupOperator(t, module, "Ada", 10)
	setupSource(t, module, "landing-page")

	result := register(t, module, "tg-1", "landing-page")
	if result.Operator != nil {
		t.Fatalf("expected no assignment without weight config, got %+v", result.Operator)
	}
	if !result.Contact.IsActive() {
		t.Fatal("expected contact recorded ACTIVE")
	}
}

func TestDistributionConfigReplaceRedirectsAssignments(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	firstID := setupOperator(t, module, "Ada", 1000)
	secondID := setupOperator(t, module, "Grace", 1000)
	sourceID := setupSource(t, module, "landing-page")

	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: firstID, Weight: 10})
	warmup := register(t, module, "tg-warmup", "landing-page")
	if warmup.Operator == nil || warmup.Operator.ID != firstID {
		t.Fatalf("expected warmup assigned to %s, got %+v", firstID, warmup.Operator)
	}

	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: secondID, Weight: 10})
	for i := 0; i < 20; i++ {
		result := register(t, module, fmt.Sprintf("tg-%d", i), "landing-page")
		if result.Operator == nil {
			t.Fatalf("registration %d: expected assignment, got none", i)
		}
		if result.Operator.ID == firstID {
			t.Fatalf("registration %d: removed operator still receiving contacts", i)
		}
	}
}

func TestDistributionDuplicateOperatorSubmissionLeavesConfigUntouched(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	operatorID := setupOperator(t, module, "Ada", 1000)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: operatorID, Weight: 10})

	err := module.Commands.ReplaceDistribution(context.Background(), commands.ReplaceDistributionCommand{
		SourceID: sourceID,
		Assignments: []commands.WeightAssignment{
			{OperatorID: operatorID, Weight: 1},
			{OperatorID: operatorID, Weight: 2},
		},
	})
	if !errors.Is(err, domainerrors.ErrDuplicateConfigOperator) {
		t.Fatalf("expected duplicate config operator error, got %v", err)
	}

	result := register(t, module, "tg-after", "landing-page")
	if result.Operator == nil || result.Operator.ID != operatorID {
		t.Fatalf("expected prior config still in force, got %+v", result.Operator)
	}
}

func TestDistributionWeightedAssignmentFollowsConfiguredShares(t *testing.T) {
	store := memory.NewStore()
	module := distributionservice.NewModule(distributionservice.Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Rand:       rand.New(rand.NewPCG(11, 7)),
	})

	lightID := setupOperator(t, module, "Ada", 1000000)
	heavyID := setupOperator(t, module, "Grace", 1000000)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID,
		commands.WeightAssignment{OperatorID: lightID, Weight: 1},
		commands.WeightAssignment{OperatorID: heavyID, Weight: 3},
	)

	const trials = 10000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		result := register(t, module, fmt.Sprintf("tg-%d", i), "landing-page")
		if result.Operator == nil {
			t.Fatalf("registration %d: expected assignment, got none", i)
		}
		counts[result.Operator.ID]++
	}

	lightShare := float64(counts[lightID]) / float64(trials)
	if lightShare < 0.20 || lightShare > 0.30 {
		t.Fatalf("expected light operator share near 0.25, got %.4f (counts=%v)", lightShare, counts)
	}
}

func TestDistributionConcurrentRegistrationsShareOneLead(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	operatorID := setupOperator(t, module, "Ada", 1000)
	sourceID := setupSource(t, module, "landing-page")
	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: operatorID, Weight: 10})

	const writers = 16
	group, ctx := errgroup.WithContext(context.Background())
	leadIDs := make([]string, writers)
	for i := 0; i < writers; i++ {
		group.Go(func() error {
			result, err := module.Commands.RegisterContact(ctx, commands.RegisterContactCommand{
				ExternalID: "tg-race",
				SourceName: "landing-page",
			})
			if err != nil {
				return err
			}
			leadIDs[i] = result.Contact.LeadID
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatalf("concurrent registration failed: %v", err)
	}

	for i := 1; i < writers; i++ {
		if leadIDs[i] != leadIDs[0] {
			t.Fatalf("expected every registration on lead %s, registration %d got %s", leadIDs[0], i, leadIDs[i])
		}
	}
	_, contacts, err := module.Queries.GetLead(context.Background(), leadIDs[0])
	if err != nil {
		t.Fatalf("get lead failed: %v", err)
	}
	if len(contacts) != writers {
		t.Fatalf("expected %d contacts on the shared lead, got %d", writers, len(contacts))
	}
}

func TestDistributionStatusReportsAssignedAndUnassignedRows(t *testing.T) {
	module := distributionservice.NewInMemoryModule(nil)
	operatorID := setupOperator(t, module, "Xenia", 2)
	sourceID := setupSource(t, module, "web")
	setupDistribution(t, module, sourceID, commands.WeightAssignment{OperatorID: operatorID, Weight: 10})

	for i := 0; i < 3; i++ {
		register(t, module, fmt.Sprintf("tg-%d", i), "web")
	}

	report, err := module.Queries.DistributionStatus(context.Background())
	if err != nil {
		t.Fatalf("distribution status failed: %v", err)
	}

	if len(report.OperatorLimits) != 1 {
		t.Fatalf("expected 1 operator limit entry, got %d", len(report.OperatorLimits))
	}
	if report.OperatorLimits[0].MaxActiveLeads != 2 {
		t.Fatalf("expected limit 2, got %d", report.OperatorLimits[0].MaxActiveLeads)
	}

	if len(report.Summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(report.Summary))
	}

	var assignedTotal, unassignedTotal int64
	for _, row := range report.Summary {
		if row.SourceName != "web" {
			t.Fatalf("unexpected source in summary: %+v", row)
		}
		switch row.OperatorID {
		case operatorID:
			assignedTotal = row.TotalContacts
		case "":
			unassignedTotal = row.TotalContacts
		}
	}
	if assignedTotal != 2 {
		t.Fatalf("expected 2 contacts on the operator row, got %d", assignedTotal)
	}
	if unassignedTotal != 1 {
		t.Fatalf("expected 1 contact on the unassigned row, got %d", unassignedTotal)
	}
}
