package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gastos/internal/catalog"
	"gastos/internal/core"
)

func TestViewRecomputesOnStoreChange(t *testing.T) {
	store := NewStore(nil)
	v := NewView(store, catalog.Default(), mustMonth(t, "2025-03"), "pt-BR")
	defer v.Close()

	var balances []string
	cancel := v.Balance().Subscribe(func(d decimal.Decimal) {
		balances = append(balances, d.String())
	})
	defer cancel()

	store.Add(entry("", "2025-03-05", "salary", "5500.00"))
	store.Add(entry("", "2025-03-10", "rent", "2200.00"))
	store.Add(entry("", "2025-04-10", "rent", "1000.00"))

	want := []string{"0", "5500", "3300", "3300"}
	if len(balances) != len(want) {
		t.Fatalf("expected %v, got %v", want, balances)
	}
	for i := range want {
		if balances[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, balances)
		}
	}

	snap := v.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries in March, got %d", len(snap.Entries))
	}
	if got := v.FilteredEntries().Get(); len(got) != 2 {
		t.Fatalf("expected filtered stream to hold 2 entries, got %d", len(got))
	}
	if !v.TotalIncome().Get().Equal(core.MustAmount("5500")) || !v.TotalExpense().Get().Equal(core.MustAmount("2200")) {
		t.Fatalf("unexpected totals %s / %s", v.TotalIncome().Get(), v.TotalExpense().Get())
	}
}

func TestViewSubscriberMayWriteToStore(t *testing.T) {
	store := NewStore(nil)
	v := NewView(store, catalog.Default(), mustMonth(t, "2025-03"), "pt-BR")
	defer v.Close()

	cancel := v.Subscribe(func(s core.Snapshot) {
		if len(s.Entries) == 1 {
			store.Add(entry("", "2025-03-06", "rent", "100.00"))
		}
	})
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Add(entry("", "2025-03-05", "salary", "5500.00"))
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("store write from a view subscriber deadlocked")
	}

	snap := v.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.Entries))
	}
	if !snap.Balance.Equal(core.MustAmount("5400")) {
		t.Fatalf("expected balance 5400, got %s", snap.Balance)
	}
}

func TestViewNavigation(t *testing.T) {
	store := NewStore([]core.Entry{
		entry("dec", "2024-12-24", "food", "80"),
		entry("jan", "2025-01-05", "food", "20"),
	})
	v := NewView(store, catalog.Default(), mustMonth(t, "2025-01"), "pt-BR")
	defer v.Close()

	if got := v.MonthLabel().Get(); got != "Jan/2025" {
		t.Fatalf("expected Jan/2025, got %q", got)
	}

	prev := v.SelectPreviousMonth()
	if prev.String() != "2024-12" || v.CurrentMonth().Get() != prev {
		t.Fatalf("expected 2024-12, got %s (stream %s)", prev, v.CurrentMonth().Get())
	}
	if got := v.MonthLabel().Get(); got != "Dez/2024" {
		t.Fatalf("expected Dez/2024, got %q", got)
	}
	if !v.TotalExpense().Get().Equal(core.MustAmount("80")) {
		t.Fatalf("expected December expense 80, got %s", v.TotalExpense().Get())
	}

	next := v.SelectNextMonth()
	if next.String() != "2025-01" {
		t.Fatalf("expected 2025-01, got %s", next)
	}
	if !v.TotalExpense().Get().Equal(core.MustAmount("20")) {
		t.Fatalf("expected January expense 20, got %s", v.TotalExpense().Get())
	}
}

func TestViewSelectSameMonthDoesNotRecompute(t *testing.T) {
	store := NewStore(nil)
	v := NewView(store, catalog.Default(), mustMonth(t, "2025-03"), "en")
	defer v.Close()

	calls := 0
	cancel := v.Subscribe(func(core.Snapshot) { calls++ })
	defer cancel()

	v.SelectMonth(mustMonth(t, "2025-03"))
	if calls != 1 {
		t.Fatalf("expected only the initial delivery, got %d", calls)
	}
	v.SelectMonth(mustMonth(t, "2025-05"))
	if calls != 2 {
		t.Fatalf("expected a recomputation, got %d deliveries", calls)
	}
	if got := v.Snapshot().Label; got != "May/2025" {
		t.Fatalf("expected May/2025, got %q", got)
	}
}

func TestViewCloseDetaches(t *testing.T) {
	store := NewStore(nil)
	v := NewView(store, catalog.Default(), mustMonth(t, "2025-03"), "pt-BR")
	v.Close()
	v.Close()

	store.Add(entry("", "2025-03-05", "salary", "10"))
	if len(v.Snapshot().Entries) != 0 {
		t.Fatalf("closed view kept recomputing")
	}
}
