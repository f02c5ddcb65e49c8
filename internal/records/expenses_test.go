package records

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyman/internal/core"
)

func expense(t *testing.T, id int64, name, category, amount, date string) core.Expense {
	t.Helper()
	e, err := core.NewExpense(core.ExpenseInput{Name: name, Category: category, Amount: amount, Date: date})
	require.NoError(t, err)
	e.ID = id
	return e
}

func TestNewExpenseListAnnotatesDateStr(t *testing.T) {
	l := NewExpenseList([]core.Expense{expense(t, 1, "a", "Food", "1", "2021-03-05")})
	assert.Equal(t, "2021-03-05", l.Items()[0].DateStr)
}

func TestTotal(t *testing.T) {
	assert.True(t, NewExpenseList(nil).Total().Equal(decimal.Zero))
	assert.True(t, FromList(nil).Total().Equal(decimal.Zero))
	_, err := FromList(nil).Avg()
	assert.ErrorIs(t, err, core.ErrDivisionByZero)

	l := NewExpenseList([]core.Expense{
		expense(t, 1, "a", "Food", "10", "2021-01-01"),
		expense(t, 2, "b", "Food", "5.5", "2021-01-02"),
	})
	assert.Equal(t, "15.5", l.Total().String())
}

func TestAvg(t *testing.T) {
	_, err := NewExpenseList(nil).Avg()
	assert.ErrorIs(t, err, core.ErrDivisionByZero)

	l := NewExpenseList([]core.Expense{
		expense(t, 1, "a", "Food", "10", "2021-01-01"),
		expense(t, 2, "b", "Food", "5", "2021-01-02"),
	})
	avg, err := l.Avg()
	require.NoError(t, err)
	assert.Equal(t, "7.5", avg.String())
}

func TestSortedDefaultsToTS(t *testing.T) {
	l := NewExpenseList([]core.Expense{
		expense(t, 1, "late", "Food", "1", "2021-05-01"),
		expense(t, 2, "early", "Food", "1", "2021-01-01"),
		expense(t, 3, "early too", "Food", "1", "2021-01-01"),
	})

	var ids []int64
	for _, e := range l.Sorted(Field{}) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{2, 3, 1}, ids)

	ids = ids[:0]
	for _, e := range l.Newest() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestSortedByAmount(t *testing.T) {
	l := NewExpenseList([]core.Expense{
		expense(t, 1, "a", "Food", "10", "2021-01-01"),
		expense(t, 2, "b", "Food", "9.5", "2021-01-01"),
	})
	got := l.Sorted(ByAmount)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestGroupedByCategory(t *testing.T) {
	l := NewExpenseList([]core.Expense{
		expense(t, 1, "a", "Travel", "1", "2021-01-01"),
		expense(t, 2, "b", "Food", "2", "2021-01-01"),
		expense(t, 3, "c", "Travel", "3", "2021-01-01"),
	})
	groups := l.Grouped(ByCategory)
	require.Len(t, groups, 2)
	assert.Equal(t, "Food", groups[0].Key)
	assert.Equal(t, "Travel", groups[1].Key)
	assert.Equal(t, "4", groups[1].List.Total().String())

	nested := groups[1].List.Grouped(ByID)
	require.Len(t, nested, 2)
	assert.Equal(t, int64(1), nested[0].Key)
}

func TestFieldByName(t *testing.T) {
	f, ok := FieldByName("month")
	require.True(t, ok)
	assert.Equal(t, "month", f.String())

	_, ok = FieldByName("nope")
	assert.False(t, ok)
	assert.Equal(t, "ts", Field{}.String())
}

func TestSummarize(t *testing.T) {
	l := NewExpenseList([]core.Expense{
		expense(t, 1, "a", "Food", "10", "2021-02-01"),
		expense(t, 2, "b", "Rent", "100", "2021-01-01"),
		expense(t, 3, "c", "Food", "5", "2021-01-03"),
		expense(t, 4, "d", "Food", "1.25", "2020-12-24"),
		expense(t, 5, "e", "Food", "2", "2021-01-09"),
	})

	years := Summarize(l)
	require.Len(t, years, 2)
	assert.Equal(t, 2020, years[0].Year)
	assert.Equal(t, "1.25", years[0].Total.String())

	y := years[1]
	assert.Equal(t, 2021, y.Year)
	assert.Equal(t, "117", y.Total.String())
	require.Len(t, y.Months, 2)
	assert.Equal(t, 1, y.Months[0].Month)
	cats := y.Months[0].ByCategory
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Category)
	assert.Equal(t, "7", cats[0].Total.String())
	assert.Equal(t, 2, cats[0].Count)
	assert.Equal(t, "Rent", cats[1].Category)
	assert.Equal(t, "100", cats[1].Total.String())
}
