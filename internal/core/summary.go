package core

import "github.com/shopspring/decimal"

// CategoryAmount is the sum of a month's entries for one category.
type CategoryAmount struct {
	Key       string
	Title     string
	IsExpense bool
	Amount    decimal.Decimal
}

// Snapshot is the derived view of one month: the entries that fall in it and
// their totals. Balance is always TotalIncome - TotalExpense.
type Snapshot struct {
	Month        MonthID
	Label        string
	Entries      []Entry
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	ByCategory   []CategoryAmount
}
