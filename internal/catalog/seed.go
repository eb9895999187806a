package catalog

import "gastos/internal/core"

// DefaultCategories returns the builtin seed: income first, then expenses.
func DefaultCategories() []core.CategoryDef {
	return []core.CategoryDef{
		// Income
		{Key: "salary", Title: "Salário", ColorHex: "#2E7D32", IsExpense: false},
		{Key: "freelance", Title: "Freelance", ColorHex: "#1B5E20", IsExpense: false},

		// Expenses
		{Key: "food", Title: "Alimentação", ColorHex: "#EF6C00", IsExpense: true},
		{Key: "rent", Title: "Aluguel", ColorHex: "#C62828", IsExpense: true},
		{Key: "transport", Title: "Transporte", ColorHex: "#1565C0", IsExpense: true},
		{Key: "entertainment", Title: "Lazer", ColorHex: "#6A1B9A", IsExpense: true},
		{Key: "health", Title: "Saúde", ColorHex: "#00897B", IsExpense: true},
		{Key: "education", Title: "Educação", ColorHex: "#283593", IsExpense: true},
		{Key: "utilities", Title: "Contas", ColorHex: "#5D4037", IsExpense: true},
		{Key: "shopping", Title: "Compras", ColorHex: "#AD1457", IsExpense: true},
		{Key: "other", Title: "Outros", ColorHex: "#546E7A", IsExpense: true},
	}
}
