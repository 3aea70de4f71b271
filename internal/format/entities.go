package format

import (
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

func money(raw string) string {
	f := FormatFigure(raw)
	if f == "" {
		return ""
	}
	return f + " " + currency
}

func Apartment(a types.FinancialItem) string {
	return phrase(", ",
		prefixed("דירה: ", a.Description),
		prefixed("רשומה על שם ", a.Owner),
		prefixed("נרכשה בתאריך ", FormatDate(a.PurchaseDate)),
		prefixed("שווי מוערך: ", money(a.Figure())),
	)
}

func Vehicle(v types.FinancialItem) string {
	return phrase(", ",
		prefixed("רכב: ", v.Description),
		prefixed("רשום על שם ", v.Owner),
		prefixed("נרכש בתאריך ", FormatDate(v.PurchaseDate)),
		prefixed("שווי מוערך: ", money(v.Figure())),
	)
}

func Saving(s types.FinancialItem) string {
	return phrase(", ",
		s.Description,
		prefixed("על שם ", s.Owner),
		prefixed("יתרה: ", money(s.Figure())),
	)
}

func Benefit(b types.FinancialItem) string {
	return phrase(", ",
		b.Description,
		prefixed("על שם ", b.Owner),
		prefixed("שווי: ", money(b.Figure())),
	)
}

// Debt spans two lines when the debt is backed by an appendix.
func Debt(d types.FinancialItem) string {
	line := phrase(", ",
		d.Description,
		prefixed("לטובת ", d.Creditor),
		prefixed("בסך ", money(d.Figure())),
		prefixed("רשום על שם ", d.Owner),
	)
	return phrase("\n", line, prefixed("ראו נספח ", d.Appendix))
}

func Apartments(items []types.FinancialItem) string { return List(items, Apartment) }
func Vehicles(items []types.FinancialItem) string   { return List(items, Vehicle) }
func Savings(items []types.FinancialItem) string    { return List(items, Saving) }
func Benefits(items []types.FinancialItem) string   { return List(items, Benefit) }
func Debts(items []types.FinancialItem) string      { return List(items, Debt) }

// Total sums the item figures, reading anything unparsable as zero.
func Total(items []types.FinancialItem) float64 {
	var sum float64
	for _, item := range items {
		sum += ParseAmount(item.Figure())
	}
	return sum
}

func TotalDebts(items []types.FinancialItem) float64    { return Total(items) }
func TotalSavings(items []types.FinancialItem) float64  { return Total(items) }
func TotalBenefits(items []types.FinancialItem) float64 { return Total(items) }

// FormatTotal renders a total for display, "" for an empty list.
func FormatTotal(items []types.FinancialItem) string {
	if len(items) == 0 {
		return ""
	}
	return FormatAmount(Total(items))
}
