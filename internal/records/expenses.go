package records

import (
	"cmp"
	"strings"

	"github.com/shopspring/decimal"

	"moneyman/internal/core"
)

// Field names a sortable expense attribute. The zero Field sorts by ts.
type Field struct {
	name    string
	compare func(a, b core.Expense) int
	value   func(core.Expense) any
}

func intField(name string, get func(core.Expense) int64) Field {
	return Field{
		name:    name,
		compare: func(a, b core.Expense) int { return cmp.Compare(get(a), get(b)) },
		value:   func(e core.Expense) any { return get(e) },
	}
}

func stringField(name string, get func(core.Expense) string) Field {
	return Field{
		name:    name,
		compare: func(a, b core.Expense) int { return strings.Compare(get(a), get(b)) },
		value:   func(e core.Expense) any { return get(e) },
	}
}

var (
	ByTS       = intField("ts", func(e core.Expense) int64 { return e.TS })
	ByID       = intField("id", func(e core.Expense) int64 { return e.ID })
	ByYear     = intField("year", func(e core.Expense) int64 { return int64(e.Year) })
	ByMonth    = intField("month", func(e core.Expense) int64 { return int64(e.Month) })
	ByDate     = intField("date", func(e core.Expense) int64 { return int64(e.Date) })
	ByName     = stringField("name", func(e core.Expense) string { return e.Name })
	ByCategory = stringField("category", func(e core.Expense) string { return e.Category })
	BySource   = stringField("source", func(e core.Expense) string { return e.Source })
	ByAmount   = Field{
		name:    "amount",
		compare: func(a, b core.Expense) int { return a.Amount.Cmp(b.Amount) },
		value:   func(e core.Expense) any { return e.Amount },
	}
)

// FieldByName looks up a field by its record key ("ts", "year", ...).
func FieldByName(name string) (Field, bool) {
	for _, f := range []Field{ByTS, ByID, ByYear, ByMonth, ByDate, ByName, ByCategory, BySource, ByAmount} {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) orDefault() Field {
	if f.compare == nil {
		return ByTS
	}
	return f
}

func (f Field) String() string {
	return f.orDefault().name
}

// Key extractors for GroupBy and SortedBy.
func Year(e core.Expense) int        { return e.Year }
func Month(e core.Expense) int       { return e.Month }
func Category(e core.Expense) string { return e.Category }
func Timestamp(e core.Expense) int64 { return e.TS }

// ExpenseList wraps a result set of expense records.
type ExpenseList struct {
	list *List[core.Expense]
}

// NewExpenseList annotates every record with its display date.
func NewExpenseList(items []core.Expense) *ExpenseList {
	annotated := make([]core.Expense, len(items))
	for i, e := range items {
		annotated[i] = e.WithDateStr()
	}
	return &ExpenseList{list: &List[core.Expense]{items: annotated}}
}

// FromList wraps a generic list that already carries display dates.
func FromList(l *List[core.Expense]) *ExpenseList {
	return &ExpenseList{list: l}
}

func (l *ExpenseList) List() *List[core.Expense] { return l.list }
func (l *ExpenseList) Len() int                  { return l.list.Len() }
func (l *ExpenseList) Items() []core.Expense     { return l.list.Items() }

// Sorted returns the records stable-sorted ascending by f.
func (l *ExpenseList) Sorted(f Field) []core.Expense {
	f = f.orDefault()
	return sortStable(l.Items(), f.compare)
}

// Newest returns the records with the latest ts first.
func (l *ExpenseList) Newest() []core.Expense {
	return sortStable(l.Items(), func(a, b core.Expense) int { return cmp.Compare(b.TS, a.TS) })
}

// ExpenseGroup is a run of records sharing a field value.
type ExpenseGroup struct {
	Key  any
	List *ExpenseList
}

// Grouped sorts by f and splits into runs of equal values.
func (l *ExpenseList) Grouped(f Field) []ExpenseGroup {
	f = f.orDefault()
	sorted := sortStable(l.Items(), f.compare)
	runs := partition(sorted, func(a, b core.Expense) bool { return f.compare(a, b) == 0 }, f.value)

	groups := make([]ExpenseGroup, len(runs))
	for i, r := range runs {
		groups[i] = ExpenseGroup{Key: r.Key, List: FromList(r.List)}
	}
	return groups
}

// Total sums the amounts; an empty list totals zero.
func (l *ExpenseList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Items() {
		total = total.Add(e.Amount)
	}
	return total
}

// Avg fails with core.ErrDivisionByZero on an empty list.
func (l *ExpenseList) Avg() (decimal.Decimal, error) {
	n := l.Len()
	if n == 0 {
		return decimal.Zero, core.ErrDivisionByZero
	}
	return l.Total().Div(decimal.NewFromInt(int64(n))), nil
}
