package ledger

import (
	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// CategoryReader is the part of the catalog aggregation needs.
type CategoryReader interface {
	All() []core.CategoryDef
	Get(key string) (core.CategoryDef, bool)
}

// Aggregate derives the snapshot of month from entries.
//
// Entries keep their store order. Each entry counts towards income or
// expense according to its category; entries whose category is unknown are
// listed but excluded from every sum. The label is left empty.
func Aggregate(entries []core.Entry, month core.MonthID, categories CategoryReader) core.Snapshot {
	snap := core.Snapshot{
		Month:        month,
		Entries:      []core.Entry{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	perCategory := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if !core.IsSameMonth(e.Date.Time, month) {
			continue
		}
		snap.Entries = append(snap.Entries, e)

		def, ok := categories.Get(e.CategoryKey)
		if !ok {
			continue
		}
		if def.IsExpense {
			snap.TotalExpense = snap.TotalExpense.Add(e.Amount)
		} else {
			snap.TotalIncome = snap.TotalIncome.Add(e.Amount)
		}
		perCategory[def.Key] = perCategory[def.Key].Add(e.Amount)
	}
	snap.Balance = snap.TotalIncome.Sub(snap.TotalExpense)

	snap.ByCategory = []core.CategoryAmount{}
	for _, def := range categories.All() {
		sum, ok := perCategory[def.Key]
		if !ok {
			continue
		}
		snap.ByCategory = append(snap.ByCategory, core.CategoryAmount{
			Key:       def.Key,
			Title:     def.Title,
			IsExpense: def.IsExpense,
			Amount:    sum,
		})
	}
	return snap
}
