package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/service"
)

func titles(insights []domain.Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Title
	}
	return out
}

func TestSummary_Household(t *testing.T) {
	p, _ := newPlanner(t)

	resp, err := p.Summary(context.Background(), householdPlan())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.GrossMonthlyIncome != 5400 {
		t.Errorf("expected gross 5400, got %v", resp.GrossMonthlyIncome)
	}
	if resp.TakeHome != 4050 {
		t.Errorf("expected take-home 4050, got %v", resp.TakeHome)
	}
	if resp.TotalMinimums != 470 {
		t.Errorf("expected minimums 470, got %v", resp.TotalMinimums)
	}
	if resp.Disposable != 1780 {
		t.Errorf("expected disposable 1780, got %v", resp.Disposable)
	}
	if resp.ExpensesByKind["needs"] != 1600 || resp.ExpensesByKind["wants"] != 200 {
		t.Errorf("unexpected expense split: %v", resp.ExpensesByKind)
	}
	if resp.FreedomScore < 0 || resp.FreedomScore > 100 || resp.ScoreBand == "" {
		t.Errorf("unexpected score %d/%q", resp.FreedomScore, resp.ScoreBand)
	}

	got := titles(resp.Insights)
	want := []string{"Healthy DTI", "High-rate alert", "Extra payment power", "Avalanche strategy"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected insights %v, got %v", want, got)
	}
	if !strings.Contains(resp.Insights[1].Message, "Visa is") {
		t.Errorf("expected Visa in the high-rate alert, got %q", resp.Insights[1].Message)
	}
}

func TestSummary_NoDebts(t *testing.T) {
	p, _ := newPlanner(t)

	resp, err := p.Summary(context.Background(), &domain.PlanRequest{
		Income: []domain.IncomeInput{{Amount: 4000, Frequency: "monthly"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.FreedomScore != 100 || resp.ScoreBand != "Excellent" {
		t.Errorf("expected a perfect score, got %d %s", resp.FreedomScore, resp.ScoreBand)
	}
	if len(resp.Insights) != 1 || resp.Insights[0].Title != "No debts yet" {
		t.Errorf("unexpected insights: %v", titles(resp.Insights))
	}
}

func TestInsights_DangerAndUntappedRoom(t *testing.T) {
	in, err := service.BuildInputs(&domain.PlanRequest{
		Debts: []domain.DebtInput{
			{Name: "Home", Category: "mortgage", Balance: 250000, APR: 6, MinPayment: 1800},
		},
		Income:   []domain.IncomeInput{{Amount: 5000, Frequency: "monthly"}},
		Strategy: "snowball",
	}, service.Defaults{}, fixedNow)
	if err != nil {
		t.Fatal(err)
	}

	insights := service.BuildInsights(in)
	got := strings.Join(titles(insights), "|")

	// take-home 3750, minimums 1800 -> DTI 48%
	if !strings.HasPrefix(got, "Danger zone") {
		t.Errorf("expected danger zone first, got %s", got)
	}
	if !strings.Contains(got, "Untapped potential") {
		t.Errorf("expected untapped potential with 1950 of room, got %s", got)
	}
	if !strings.Contains(got, "Snowball strategy") || !strings.Contains(got, "Mortgage interest") {
		t.Errorf("expected strategy and mortgage notes, got %s", got)
	}
	if strings.Contains(got, "High-rate alert") {
		t.Errorf("did not expect a high-rate alert, got %s", got)
	}

	for _, ins := range insights {
		if ins.Title == "Untapped potential" && !strings.Contains(ins.Message, "$200 extra") {
			t.Errorf("expected suggestion capped at $200, got %q", ins.Message)
		}
	}
}
