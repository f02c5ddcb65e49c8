package core

import "github.com/shopspring/decimal"

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// MonthSummary aggregates one year+month.
type MonthSummary struct {
	Month      int // 1-12
	Total      decimal.Decimal
	ByCategory []CategoryTotal
}

// YearSummary aggregates one year, months in ascending order.
type YearSummary struct {
	Year   int
	Total  decimal.Decimal
	Months []MonthSummary
}
