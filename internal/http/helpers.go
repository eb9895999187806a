package http

import (
	"gastos/internal/core"
	"gastos/internal/format"
)

type categoryDTO struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	IsExpense bool   `json:"isExpense"`
}

type entryDTO struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Category        string `json:"category"`
	Title           string `json:"title"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
}

type categoryTotalDTO struct {
	Key             string `json:"key"`
	Title           string `json:"title"`
	IsExpense       bool   `json:"isExpense"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
}

type monthDTO struct {
	Month string `json:"month"`
	Label string `json:"label"`
}

type summaryDTO struct {
	Month        string             `json:"month"`
	Label        string             `json:"label"`
	Entries      []entryDTO         `json:"entries"`
	TotalIncome  string             `json:"totalIncome"`
	TotalExpense string             `json:"totalExpense"`
	Balance      string             `json:"balance"`
	Formatted    formattedTotals    `json:"formatted"`
	ByCategory   []categoryTotalDTO `json:"byCategory"`
}

type formattedTotals struct {
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Balance      string `json:"balance"`
}

func toCategoryDTOs(defs []core.CategoryDef) []categoryDTO {
	out := make([]categoryDTO, len(defs))
	for i, d := range defs {
		out[i] = categoryDTO{Key: d.Key, Title: d.Title, Color: d.ColorHex, IsExpense: d.IsExpense}
	}
	return out
}

func toEntryDTO(e core.Entry, f format.Formatter) entryDTO {
	return entryDTO{
		ID:              e.ID,
		Date:            e.Date.String(),
		Category:        e.CategoryKey,
		Title:           e.Title,
		Amount:          core.AmountString(e.Amount),
		AmountFormatted: f.Currency(e.Amount),
	}
}

func toMonthDTO(snap core.Snapshot) monthDTO {
	return monthDTO{Month: snap.Month.String(), Label: snap.Label}
}

func toSummaryDTO(snap core.Snapshot, f format.Formatter) summaryDTO {
	entries := make([]entryDTO, len(snap.Entries))
	for i, e := range snap.Entries {
		entries[i] = toEntryDTO(e, f)
	}
	byCategory := make([]categoryTotalDTO, len(snap.ByCategory))
	for i, c := range snap.ByCategory {
		byCategory[i] = categoryTotalDTO{
			Key:             c.Key,
			Title:           c.Title,
			IsExpense:       c.IsExpense,
			Amount:          core.AmountString(c.Amount),
			AmountFormatted: f.Currency(c.Amount),
		}
	}
	return summaryDTO{
		Month:        snap.Month.String(),
		Label:        snap.Label,
		Entries:      entries,
		TotalIncome:  core.AmountString(snap.TotalIncome),
		TotalExpense: core.AmountString(snap.TotalExpense),
		Balance:      core.AmountString(snap.Balance),
		Formatted: formattedTotals{
			TotalIncome:  f.Currency(snap.TotalIncome),
			TotalExpense: f.Currency(snap.TotalExpense),
			Balance:      f.Currency(snap.Balance),
		},
		ByCategory: byCategory,
	}
}
