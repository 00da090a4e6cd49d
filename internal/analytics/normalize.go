package analytics

import (
	"math"

	"github.com/Mujtaba19938/FINDASH/internal/model"
)

// Monthly multipliers for each recurrence label.
const (
	dailyPerMonth    = 30
	weeklyPerMonth   = 4.33
	biweeklyPerMonth = 2.17
	monthsPerYear    = 12
)

// ToMonthly converts an amount on the given schedule to its monthly equivalent.
// One-time amounts contribute nothing; unrecognized labels pass through unchanged.
func ToMonthly(amount float64, recurrence model.Recurrence) float64 {
	switch recurrence {
	case model.RecurrenceDaily:
		return amount * dailyPerMonth
	case model.RecurrenceWeekly:
		return amount * weeklyPerMonth
	case model.RecurrenceBiweekly:
		return amount * biweeklyPerMonth
	case model.RecurrenceMonthly:
		return amount
	case model.RecurrenceYearly:
		return amount / monthsPerYear
	case model.RecurrenceOneTime:
		return 0
	default:
		return amount
	}
}

func monthlyIncome(incomes []model.Income) float64 {
	total := 0.0
	for _, income := range incomes {
		total += ToMonthly(income.Amount, income.Frequency)
	}
	return total
}

func monthlyExpenses(expenses []model.Expense) float64 {
	total := 0.0
	for _, expense := range expenses {
		total += ToMonthly(expense.Amount, expense.Recurrence)
	}
	return total
}

func totalOutflow(transactions []model.Transaction) float64 {
	total := 0.0
	for _, txn := range transactions {
		if txn.Amount < 0 {
			total += math.Abs(txn.Amount)
		}
	}
	return total
}

// round2 rounds to cents.
func round2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
