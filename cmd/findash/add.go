package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/service"
)

const dateLayout = "2006-01-02"

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record income, expenses, payments, transactions and balances",
	}
	cmd.AddCommand(
		addIncomeCmd(),
		addExpenseCmd(),
		addPaymentCmd(),
		addTransactionCmd(),
		addBalanceCmd(),
	)
	return cmd
}

func addIncomeCmd() *cobra.Command {
	var (
		frequency string
		source    string
		currency  string
		received  string
	)
	cmd := &cobra.Command{
		Use:     "income <amount>",
		Short:   "Add a recurring income stream",
		Example: "  findash add income 4200 --frequency monthly --source Salary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			freq, err := parseRecurrence(frequency)
			if err != nil {
				return err
			}
			lastReceived, err := parseOptionalDate(received)
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				income := &model.Income{
					UserID:       userID,
					Amount:       amount,
					Frequency:    freq,
					Currency:     currency,
					Source:       source,
					LastReceived: lastReceived,
				}
				if err := store.SaveIncome(ctx, income); err != nil {
					return err
				}
				return added(cmd, "income", income.ID, income)
			})
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", string(model.RecurrenceMonthly), recurrenceHelp())
	cmd.Flags().StringVar(&source, "source", "", "where the income comes from")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")
	cmd.Flags().StringVar(&received, "last-received", "", "date last received (YYYY-MM-DD)")
	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		recurrence string
		currency   string
		fixed      bool
	)
	cmd := &cobra.Command{
		Use:     "expense <category> <amount>",
		Short:   "Add a planned expense",
		Example: "  findash add expense rent 1650 --fixed",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			rec, err := parseRecurrence(recurrence)
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				expense := &model.Expense{
					UserID:     userID,
					Category:   strings.ToLower(strings.TrimSpace(args[0])),
					Amount:     amount,
					Recurrence: rec,
					Currency:   currency,
					IsFixed:    fixed,
				}
				if err := store.SaveExpense(ctx, expense); err != nil {
					return err
				}
				return added(cmd, "expense", expense.ID, expense)
			})
		},
	}
	cmd.Flags().StringVar(&recurrence, "recurrence", string(model.RecurrenceMonthly), recurrenceHelp())
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "mark as a fixed obligation")
	return cmd
}

func addPaymentCmd() *cobra.Command {
	var (
		kind       string
		due        string
		recurrence string
		currency   string
		priority   int
	)
	cmd := &cobra.Command{
		Use:     "payment <description> <amount>",
		Short:   "Add an upcoming recurring payment",
		Example: "  findash add payment \"Visa card\" 320 --type debt --due 2024-04-01",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			rec, err := parseRecurrence(recurrence)
			if err != nil {
				return err
			}
			paymentType := model.PaymentType(kind)
			if !paymentType.IsKnown() {
				return common.NewUserError(fmt.Sprintf("Unknown payment type %q (use debt, bill, subscription or other)", kind), common.ErrValidation)
			}
			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				payment := &model.RecurringPayment{
					UserID:       userID,
					Description:  args[0],
					Amount:       amount,
					Type:         paymentType,
					DueDate:      dueDate,
					Recurrence:   rec,
					Currency:     currency,
					PriorityHint: priority,
				}
				if err := store.SaveRecurringPayment(ctx, payment); err != nil {
					return err
				}
				return added(cmd, "payment", payment.ID, payment)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", string(model.PaymentTypeBill), "debt, bill, subscription or other")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&recurrence, "recurrence", string(model.RecurrenceMonthly), recurrenceHelp())
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")
	cmd.Flags().IntVar(&priority, "priority", 0, "tie-break hint, lower pays first")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		vendor    string
		date      string
		currency  string
		account   string
		reference string
		recurring bool
	)
	cmd := &cobra.Command{
		Use:     "transaction <category> <amount>",
		Short:   "Add a transaction (negative amounts are spending)",
		Example: "  findash add transaction dining -- -42.50 --vendor Bistro",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			at := timeNow()
			if date != "" {
				if at, err = parseDate(date); err != nil {
					return err
				}
			}
			id := strings.TrimSpace(reference)
			if id == "" {
				id = uuid.NewString()
			}
			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				txns := []model.Transaction{{
					ID:          id,
					UserID:      userID,
					Category:    strings.ToLower(strings.TrimSpace(args[0])),
					Vendor:      vendor,
					Amount:      amount,
					Timestamp:   at,
					Currency:    currency,
					AccountID:   account,
					IsRecurring: recurring,
				}}
				inserted, err := store.SaveTransactions(ctx, txns)
				if err != nil {
					return err
				}
				if inserted == 0 {
					return render(cmd, txns[0], func(w io.Writer) error {
						_, err := fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Transaction %s already recorded", id)))
						return err
					})
				}
				return added(cmd, "transaction", txns[0].ID, txns[0])
			})
		},
	}
	cmd.Flags().StringVar(&vendor, "vendor", "", "merchant name")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")
	cmd.Flags().StringVar(&account, "account", "", "account identifier")
	cmd.Flags().StringVar(&reference, "id", "", "bank reference; re-adding the same reference is skipped")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "flag as a recurring charge")
	return cmd
}

func addBalanceCmd() *cobra.Command {
	var (
		currency string
		account  string
	)
	cmd := &cobra.Command{
		Use:     "balance <amount>",
		Short:   "Record the current balance",
		Example: "  findash add balance 6850",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
				snapshot := &model.BalanceSnapshot{
					UserID:    userID,
					Balance:   amount,
					Timestamp: timeNow(),
					Currency:  currency,
					AccountID: account,
				}
				if err := store.SaveBalanceSnapshot(ctx, snapshot); err != nil {
					return err
				}
				return added(cmd, "balance", snapshot.ID, snapshot)
			})
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default USD)")
	cmd.Flags().StringVar(&account, "account", "", "account identifier")
	return cmd
}

func added(cmd *cobra.Command, kind, id string, record any) error {
	return render(cmd, record, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Added %s %s", kind, id)))
		return err
	})
}

func recurrenceHelp() string {
	labels := make([]string, 0, len(model.Recurrences()))
	for _, r := range model.Recurrences() {
		labels = append(labels, string(r))
	}
	return "one of " + strings.Join(labels, ", ")
}

func parseRecurrence(raw string) (model.Recurrence, error) {
	r := model.Recurrence(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsKnown() {
		return "", common.NewUserError(fmt.Sprintf("Unknown recurrence %q (%s)", raw, recurrenceHelp()), common.ErrValidation)
	}
	return r, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("%q is not a date (use YYYY-MM-DD)", raw), common.ErrValidation)
	}
	return t, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
