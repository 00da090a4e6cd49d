package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

const demoUser = "demo"

var timeNow = time.Now

// seedDemo writes a plausible household: salary, rent and bills, a year
// of card spending with one outsized dinner, and a few upcoming payments.
func seedDemo(ctx context.Context, w service.RecordWriter, userID string, now time.Time) error {
	paid := now.AddDate(0, 0, -12)
	incomes := []model.Income{
		{UserID: userID, Amount: 4200, Frequency: model.RecurrenceMonthly, Source: "Salary", LastReceived: &paid},
		{UserID: userID, Amount: 350, Frequency: model.RecurrenceBiweekly, Source: "Freelance"},
	}
	for i := range incomes {
		if err := w.SaveIncome(ctx, &incomes[i]); err != nil {
			return fmt.Errorf("failed to save income: %w", err)
		}
	}

	expenses := []model.Expense{
		{UserID: userID, Category: "rent", Amount: 1650, Recurrence: model.RecurrenceMonthly, IsFixed: true},
		{UserID: userID, Category: "utilities", Amount: 140, Recurrence: model.RecurrenceMonthly, IsFixed: true},
		{UserID: userID, Category: "insurance", Amount: 1080, Recurrence: model.RecurrenceYearly, IsFixed: true},
		{UserID: userID, Category: "gym", Amount: 12, Recurrence: model.RecurrenceWeekly},
	}
	for i := range expenses {
		if err := w.SaveExpense(ctx, &expenses[i]); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
	}

	payments := []model.RecurringPayment{
		{UserID: userID, Description: "Visa card", Amount: 320, Type: model.PaymentTypeDebt, DueDate: now.AddDate(0, 0, 6), Recurrence: model.RecurrenceMonthly},
		{UserID: userID, Description: "Electric", Amount: 95, Type: model.PaymentTypeBill, DueDate: now.AddDate(0, 0, 9), Recurrence: model.RecurrenceMonthly},
		{UserID: userID, Description: "Streaming", Amount: 15.99, Type: model.PaymentTypeSubscription, DueDate: now.AddDate(0, 0, 3), Recurrence: model.RecurrenceMonthly},
	}
	for i := range payments {
		if err := w.SaveRecurringPayment(ctx, &payments[i]); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
	}

	var txns []model.Transaction
	for week := 1; week <= 12; week++ {
		at := now.AddDate(0, 0, -7*week)
		txns = append(txns,
			model.Transaction{UserID: userID, Category: "groceries", Vendor: "Market", Amount: -85 - float64(week%3)*10, Timestamp: at},
			model.Transaction{UserID: userID, Category: "dining", Vendor: "Cafe", Amount: -32, Timestamp: at.AddDate(0, 0, 2)},
		)
	}
	for month := 7; month <= 11; month++ {
		at := now.AddDate(0, -month, 0)
		txns = append(txns,
			model.Transaction{UserID: userID, Category: "groceries", Vendor: "Market", Amount: -90, Timestamp: at},
			model.Transaction{UserID: userID, Category: "dining", Vendor: "Cafe", Amount: -35, Timestamp: at.AddDate(0, 0, 3)},
		)
	}
	txns = append(txns,
		model.Transaction{UserID: userID, Category: "dining", Vendor: "Steakhouse", Amount: -240, Timestamp: now.AddDate(0, 0, -4)},
		model.Transaction{UserID: userID, Category: "car payment", Vendor: "Auto Loans", Amount: -310, Timestamp: now.AddDate(0, 0, -20), IsRecurring: true},
	)
	if _, err := w.SaveTransactions(ctx, txns); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	snapshot := model.BalanceSnapshot{UserID: userID, Balance: 6850, Timestamp: now.Add(-2 * time.Hour)}
	if err := w.SaveBalanceSnapshot(ctx, &snapshot); err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}
