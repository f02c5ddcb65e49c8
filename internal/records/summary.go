package records

import (
	"moneyman/internal/core"
)

// Summarize builds the year -> month -> category breakdown shown on the
// overview page. Years, months and categories come out in ascending order.
func Summarize(l *ExpenseList) []core.YearSummary {
	var years []core.YearSummary
	for _, yg := range GroupBy(l.List(), Year) {
		ys := core.YearSummary{Year: yg.Key, Total: FromList(yg.List).Total()}
		for _, mg := range GroupBy(yg.List, Month) {
			ms := core.MonthSummary{Month: mg.Key, Total: FromList(mg.List).Total()}
			for _, cg := range GroupBy(mg.List, Category) {
				ms.ByCategory = append(ms.ByCategory, core.CategoryTotal{
					Category: cg.Key,
					Total:    FromList(cg.List).Total(),
					Count:    cg.List.Len(),
				})
			}
			ys.Months = append(ys.Months, ms)
		}
		years = append(years, ys)
	}
	return years
}
