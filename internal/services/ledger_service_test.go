package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gastos/internal/catalog"
	"gastos/internal/core"
)

type fakeNotifier struct {
	mu     sync.Mutex
	months []string
	err    error
	closed bool
}

func (f *fakeNotifier) PublishSnapshot(_ context.Context, snap core.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.months = append(f.months, snap.Month.String())
	return f.err
}

func (f *fakeNotifier) Close() error {
	f.closed = true
	return nil
}

func newService(t *testing.T, n Notifier) *LedgerService {
	t.Helper()
	m, err := core.ParseMonthID("2025-03")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewLedgerService(catalog.Default(), Options{Month: m, Locale: "pt-BR", Notifier: n})
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestAddEntry(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, n)
	ctx := context.Background()

	if _, err := svc.AddEntry(ctx, core.EntryInput{Date: "2025-03-05", CategoryKey: "salary", Title: "Salário", Amount: "5500,00"}); err != nil {
		t.Fatalf("add salary: %v", err)
	}
	rent, err := svc.AddEntry(ctx, core.EntryInput{Date: "2025-03-10", CategoryKey: "rent", Title: "Aluguel", Amount: "2200.00"})
	if err != nil {
		t.Fatalf("add rent: %v", err)
	}
	if rent.ID == "" {
		t.Fatalf("expected generated id")
	}

	snap := svc.Snapshot()
	if !snap.Balance.Equal(core.MustAmount("3300")) {
		t.Fatalf("expected balance 3300, got %s", snap.Balance)
	}
	if len(n.months) != 2 {
		t.Fatalf("expected one notification per mutation, got %v", n.months)
	}
}

func TestAddEntryValidation(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, n)

	_, err := svc.AddEntry(context.Background(), core.EntryInput{Date: "05/03/2025", CategoryKey: "nope", Title: " ", Amount: "0"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	verr, ok := core.AsValidation(err)
	if !ok || len(verr.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %v", err)
	}
	if len(n.months) != 0 {
		t.Fatalf("rejected input must not notify")
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	e, err := svc.AddEntry(ctx, core.EntryInput{Date: "2025-03-05", CategoryKey: "food", Title: "Mercado", Amount: "10"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateEntry(ctx, e.ID, core.EntryInput{Date: "2025-03-06", CategoryKey: "food", Title: "Feira", Amount: "12,5"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != e.ID || updated.Title != "Feira" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if got, _ := svc.Entry(e.ID); !got.Amount.Equal(core.MustAmount("12.5")) {
		t.Fatalf("expected stored amount 12.5, got %s", got.Amount)
	}

	if _, err := svc.UpdateEntry(ctx, "missing", core.EntryInput{Date: "2025-03-06", CategoryKey: "food", Title: "x", Amount: "1"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteEntry(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.Entry(e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected entry to be gone, got %v", err)
	}
}

func TestMonthNavigation(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, n)
	ctx := context.Background()

	if _, err := svc.SelectMonth(ctx, "2025-1"); !errors.Is(err, core.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if svc.Snapshot().Month.String() != "2025-03" {
		t.Fatalf("invalid month changed the selection")
	}

	snap, err := svc.SelectMonth(ctx, "2025-12")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Label != "Dez/2025" {
		t.Fatalf("expected Dez/2025, got %q", snap.Label)
	}
	if got := svc.SelectNextMonth(ctx).Month.String(); got != "2026-01" {
		t.Fatalf("expected 2026-01, got %s", got)
	}
	if got := svc.SelectPreviousMonth(ctx).Month.String(); got != "2025-12" {
		t.Fatalf("expected 2025-12, got %s", got)
	}

	want := []string{"2025-12", "2026-01", "2025-12"}
	if len(n.months) != len(want) {
		t.Fatalf("expected notifications %v, got %v", want, n.months)
	}
	for i := range want {
		if n.months[i] != want[i] {
			t.Fatalf("expected notifications %v, got %v", want, n.months)
		}
	}
}

func TestNotifierFailureIsNotReturned(t *testing.T) {
	n := &fakeNotifier{err: errors.New("broker down")}
	svc := newService(t, n)

	if _, err := svc.AddEntry(context.Background(), core.EntryInput{Date: "2025-03-05", CategoryKey: "food", Title: "x", Amount: "1"}); err != nil {
		t.Fatalf("notifier failure leaked: %v", err)
	}
	if len(svc.Snapshot().Entries) != 1 {
		t.Fatalf("entry should be stored despite notifier failure")
	}
}

func TestReplaceAllAndSubscribe(t *testing.T) {
	svc := newService(t, nil)

	var counts []int
	cancel := svc.Subscribe(func(s core.Snapshot) { counts = append(counts, len(s.Entries)) })
	defer cancel()

	err := svc.ReplaceAll(context.Background(), []core.Entry{
		{Date: core.NewDate(2025, 3, 1), CategoryKey: "food", Title: "a", Amount: core.MustAmount("1")},
		{Date: core.NewDate(2025, 4, 1), CategoryKey: "food", Title: "b", Amount: core.MustAmount("1")},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	if len(counts) != 2 || counts[0] != 0 || counts[1] != 1 {
		t.Fatalf("unexpected deliveries %v", counts)
	}
}

func TestReplaceAllRejectsInvalidEntries(t *testing.T) {
	svc := newService(t, nil)
	if _, err := svc.AddEntry(context.Background(), core.EntryInput{Date: "2025-03-05", CategoryKey: "food", Title: "kept", Amount: "1"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		entry core.Entry
		want  error
	}{
		{"zero date", core.Entry{CategoryKey: "food", Title: "a", Amount: core.MustAmount("1")}, core.ErrInvalidDate},
		{"blank title", core.Entry{Date: core.NewDate(2025, 3, 1), CategoryKey: "food", Title: " ", Amount: core.MustAmount("1")}, core.ErrEmptyTitle},
		{"no category", core.Entry{Date: core.NewDate(2025, 3, 1), Title: "a", Amount: core.MustAmount("1")}, core.ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ReplaceAll(context.Background(), []core.Entry{
				{Date: core.NewDate(2025, 3, 2), CategoryKey: "food", Title: "fine", Amount: core.MustAmount("2")},
				tt.entry,
			})
			if !errors.Is(err, core.ErrValidation) || !errors.Is(err, tt.want) {
				t.Fatalf("ReplaceAll error = %v, want %v", err, tt.want)
			}
			snap := svc.Snapshot()
			if len(snap.Entries) != 1 || snap.Entries[0].Title != "kept" {
				t.Fatalf("ledger changed after rejected replace: %+v", snap.Entries)
			}
		})
	}
}

func TestClose(t *testing.T) {
	n := &fakeNotifier{}
	svc := NewLedgerService(catalog.Default(), Options{Notifier: n})
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !n.closed {
		t.Fatalf("notifier not closed")
	}
	if svc.Snapshot().Month != core.CurrentMonth() {
		t.Fatalf("zero month should default to the current month")
	}
}
