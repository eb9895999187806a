package ledger

import (
	"sync"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/observe"
)

// View keeps the snapshot of the selected month up to date.
//
// It recomputes from scratch whenever the store changes or a different month
// is selected; nothing is cached between recomputations. All outputs are
// observable and derived from the same snapshot, so a subscriber never sees
// totals that disagree with the entry list.
type View struct {
	store      *Store
	categories CategoryReader
	locale     string

	month    *observe.Value[core.MonthID]
	snapshot *observe.Value[core.Snapshot]

	currentMonth    observe.Observable[core.MonthID]
	monthLabel      observe.Observable[string]
	filteredEntries observe.Observable[[]core.Entry]
	totalIncome     observe.Observable[decimal.Decimal]
	totalExpense    observe.Observable[decimal.Decimal]
	balance         observe.Observable[decimal.Decimal]

	closeOnce sync.Once
	cancels   []func()
}

// NewView builds a view over store starting at month. locale drives the
// month label.
func NewView(store *Store, categories CategoryReader, month core.MonthID, locale string) *View {
	if month.IsZero() {
		month = core.CurrentMonth()
	}
	v := &View{
		store:      store,
		categories: categories,
		locale:     locale,
		month:      observe.NewValue(month),
	}
	v.snapshot = observe.NewValue(v.compute())

	v.cancels = append(v.cancels,
		store.Subscribe(func([]core.Entry) { v.recompute() }),
		v.month.Subscribe(func(core.MonthID) { v.recompute() }),
	)

	var cancel func()
	v.currentMonth, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) core.MonthID { return s.Month })
	v.cancels = append(v.cancels, cancel)
	v.monthLabel, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) string { return s.Label })
	v.cancels = append(v.cancels, cancel)
	v.filteredEntries, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) []core.Entry { return s.Entries })
	v.cancels = append(v.cancels, cancel)
	v.totalIncome, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) decimal.Decimal { return s.TotalIncome })
	v.cancels = append(v.cancels, cancel)
	v.totalExpense, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) decimal.Decimal { return s.TotalExpense })
	v.cancels = append(v.cancels, cancel)
	v.balance, cancel = observe.Map[core.Snapshot](v.snapshot, func(s core.Snapshot) decimal.Decimal { return s.Balance })
	v.cancels = append(v.cancels, cancel)

	return v
}

// compute reads the latest store contents and month; it is always called
// inside snapshot.Update so concurrent triggers cannot publish stale data last.
func (v *View) compute() core.Snapshot {
	month := v.month.Get()
	snap := Aggregate(v.store.items.Get(), month, v.categories)
	snap.Label = month.Label(v.locale)
	return snap
}

func (v *View) recompute() {
	v.snapshot.Update(func(core.Snapshot) (core.Snapshot, bool) {
		return v.compute(), true
	})
}

// Snapshot returns the current derived state.
func (v *View) Snapshot() core.Snapshot { return v.snapshot.Get() }

// Subscribe pushes every new snapshot to fn, starting with the current one.
func (v *View) Subscribe(fn func(core.Snapshot)) (cancel func()) {
	return v.snapshot.Subscribe(fn)
}

// CurrentMonth streams the selected month.
func (v *View) CurrentMonth() observe.Observable[core.MonthID] { return v.currentMonth }

// MonthLabel streams the selected month's label, e.g. "Mar/2025".
func (v *View) MonthLabel() observe.Observable[string] { return v.monthLabel }

// FilteredEntries streams the selected month's entries in store order.
func (v *View) FilteredEntries() observe.Observable[[]core.Entry] { return v.filteredEntries }

// TotalIncome streams the sum of the month's income entries.
func (v *View) TotalIncome() observe.Observable[decimal.Decimal] { return v.totalIncome }

// TotalExpense streams the sum of the month's expense entries.
func (v *View) TotalExpense() observe.Observable[decimal.Decimal] { return v.totalExpense }

// Balance streams TotalIncome minus TotalExpense.
func (v *View) Balance() observe.Observable[decimal.Decimal] { return v.balance }

// SelectMonth makes m the active month. Selecting the month that is already
// active does not trigger a recomputation.
func (v *View) SelectMonth(m core.MonthID) {
	if m.IsZero() {
		return
	}
	v.month.Update(func(old core.MonthID) (core.MonthID, bool) {
		return m, old != m
	})
}

// SelectNextMonth moves the selection one month forward and returns it.
func (v *View) SelectNextMonth() core.MonthID {
	return v.shift(core.MonthID.Next)
}

// SelectPreviousMonth moves the selection one month back and returns it.
func (v *View) SelectPreviousMonth() core.MonthID {
	return v.shift(core.MonthID.Previous)
}

func (v *View) shift(step func(core.MonthID) core.MonthID) core.MonthID {
	var selected core.MonthID
	v.month.Update(func(old core.MonthID) (core.MonthID, bool) {
		selected = step(old)
		return selected, true
	})
	return selected
}

// Close detaches the view from the store. Observables keep their last value.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		for _, cancel := range v.cancels {
			cancel()
		}
	})
}
