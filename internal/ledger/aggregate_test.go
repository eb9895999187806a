package ledger

import (
	"testing"

	"gastos/internal/catalog"
	"gastos/internal/core"
)

func mustMonth(t *testing.T, s string) core.MonthID {
	t.Helper()
	m, err := core.ParseMonthID(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return m
}

func TestAggregateSalaryAndRent(t *testing.T) {
	entries := []core.Entry{
		entry("1", "2025-03-05", "salary", "5500.00"),
		entry("2", "2025-03-10", "rent", "2200.00"),
	}
	snap := Aggregate(entries, mustMonth(t, "2025-03"), catalog.Default())

	if !snap.TotalIncome.Equal(core.MustAmount("5500.00")) {
		t.Fatalf("expected income 5500.00, got %s", snap.TotalIncome)
	}
	if !snap.TotalExpense.Equal(core.MustAmount("2200.00")) {
		t.Fatalf("expected expense 2200.00, got %s", snap.TotalExpense)
	}
	if !snap.Balance.Equal(core.MustAmount("3300.00")) {
		t.Fatalf("expected balance 3300.00, got %s", snap.Balance)
	}
}

func TestAggregateFiltersByMonth(t *testing.T) {
	entries := []core.Entry{
		entry("feb", "2025-02-28", "food", "1"),
		entry("mar1", "2025-03-01", "food", "2"),
		entry("mar31", "2025-03-31", "food", "3"),
		entry("apr", "2025-04-01", "food", "4"),
		entry("lastyear", "2024-03-15", "food", "5"),
	}
	snap := Aggregate(entries, mustMonth(t, "2025-03"), catalog.Default())

	if len(snap.Entries) != 2 || snap.Entries[0].ID != "mar1" || snap.Entries[1].ID != "mar31" {
		t.Fatalf("unexpected filtered entries %+v", snap.Entries)
	}
	if !snap.TotalExpense.Equal(core.MustAmount("5")) {
		t.Fatalf("expected expense 5, got %s", snap.TotalExpense)
	}
}

func TestAggregateUnknownCategoryExcluded(t *testing.T) {
	entries := []core.Entry{
		entry("1", "2025-03-05", "salary", "100"),
		entry("2", "2025-03-05", "ghost", "999"),
		entry("3", "2025-03-05", "food", "40"),
	}
	snap := Aggregate(entries, mustMonth(t, "2025-03"), catalog.Default())

	if len(snap.Entries) != 3 {
		t.Fatalf("expected unknown-category entry to stay listed, got %d entries", len(snap.Entries))
	}
	if !snap.TotalIncome.Equal(core.MustAmount("100")) || !snap.TotalExpense.Equal(core.MustAmount("40")) {
		t.Fatalf("unknown category leaked into totals: income=%s expense=%s", snap.TotalIncome, snap.TotalExpense)
	}
	for _, c := range snap.ByCategory {
		if c.Key == "ghost" {
			t.Fatalf("unknown category in breakdown")
		}
	}
}

func TestAggregateExactSums(t *testing.T) {
	var entries []core.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, entry("", "2025-03-05", "food", "0.1"))
	}
	entries = append(entries, entry("", "2025-03-05", "salary", "0.3"))

	snap := Aggregate(entries, mustMonth(t, "2025-03"), catalog.Default())
	if !snap.TotalExpense.Equal(core.MustAmount("1")) {
		t.Fatalf("expected exact 1, got %s", snap.TotalExpense)
	}
	if !snap.Balance.Equal(core.MustAmount("-0.7")) {
		t.Fatalf("expected negative balance -0.7, got %s", snap.Balance)
	}
	if !snap.Balance.Equal(snap.TotalIncome.Sub(snap.TotalExpense)) {
		t.Fatalf("balance does not match totals")
	}
}

func TestAggregateByCategoryFollowsCatalogOrder(t *testing.T) {
	entries := []core.Entry{
		entry("1", "2025-03-05", "food", "10"),
		entry("2", "2025-03-06", "salary", "100"),
		entry("3", "2025-03-07", "food", "5"),
	}
	snap := Aggregate(entries, mustMonth(t, "2025-03"), catalog.Default())

	if len(snap.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %+v", snap.ByCategory)
	}
	if snap.ByCategory[0].Key != "salary" || snap.ByCategory[1].Key != "food" {
		t.Fatalf("unexpected order %+v", snap.ByCategory)
	}
	if !snap.ByCategory[1].Amount.Equal(core.MustAmount("15")) {
		t.Fatalf("expected food 15, got %s", snap.ByCategory[1].Amount)
	}
}

func TestAggregateEmptyMonth(t *testing.T) {
	snap := Aggregate(nil, mustMonth(t, "2025-03"), catalog.Default())
	if snap.Entries == nil || len(snap.Entries) != 0 {
		t.Fatalf("expected empty, non-nil entry list")
	}
	if !snap.Balance.IsZero() || !snap.TotalIncome.IsZero() || !snap.TotalExpense.IsZero() {
		t.Fatalf("expected zero totals")
	}
}
