// Package plaid syncs transactions and balances from Plaid into the record store.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

const uncategorized = "uncategorized"

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

var environments = map[string]plaid.Environment{
	"sandbox":    plaid.Sandbox,
	"production": plaid.Production,
}

// Validate reports every missing or invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	for _, field := range []struct{ name, value string }{
		{"client_id", c.ClientID},
		{"secret", c.Secret},
		{"access_token", c.AccessToken},
		{"environment", c.Environment},
	} {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%w: plaid.%s", common.ErrMissingConfig, field.name))
		}
	}
	if _, ok := environments[c.Environment]; c.Environment != "" && !ok {
		errs = append(errs, fmt.Errorf("%w: plaid.environment %q must be sandbox or production",
			common.ErrInvalidConfig, c.Environment))
	}
	return errors.Join(errs...)
}

// Client fetches transactions and balances for one linked item.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	now         func() time.Time
	accessToken string
	retryOpts   common.RetryOptions
}

// NewClient creates a new Plaid client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plaid config: %w", err)
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	configuration.UseEnvironment(environments[cfg.Environment])

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      common.ComponentLogger(nil, "plaid"),
		now:         time.Now,
		retryOpts:   common.DefaultRetryOptions(),
	}, nil
}

// GetTransactions fetches every transaction in the date range, paging through
// the API and retrying rate limits.
func (c *Client) GetTransactions(ctx context.Context, userID string, startDate, endDate time.Time) ([]model.Transaction, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"user_id", userID,
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var all []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500)

	for {
		var page []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format("2006-01-02"),
				endDate.Format("2006-01-02"),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.classifyError(err, "failed to fetch transactions")
			}

			page = resp.GetTransactions()
			c.logger.Debug("Fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)
		if retryErr != nil {
			return nil, retryErr
		}

		all = append(all, page...)
		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	c.logger.Info("Fetched all transactions", "count", len(all))

	transactions := make([]model.Transaction, 0, len(all))
	for _, pt := range all {
		transactions = append(transactions, c.mapTransaction(userID, pt))
	}
	return transactions, nil
}

// GetBalances returns one snapshot per account with a current balance.
func (c *Client) GetBalances(ctx context.Context, userID string) ([]model.BalanceSnapshot, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	var accounts []plaid.AccountBase
	retryErr := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.accessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return c.classifyError(err, "failed to fetch accounts")
		}
		accounts = resp.GetAccounts()
		return nil
	}, c.retryOpts)
	if retryErr != nil {
		return nil, retryErr
	}

	now := c.now()
	snapshots := make([]model.BalanceSnapshot, 0, len(accounts))
	for _, account := range accounts {
		balances := account.GetBalances()
		if !balances.Current.IsSet() || balances.Current.Get() == nil {
			continue
		}
		snapshots = append(snapshots, model.BalanceSnapshot{
			UserID:    userID,
			AccountID: account.GetAccountId(),
			Balance:   balances.GetCurrent(),
			Currency:  balances.GetIsoCurrencyCode(),
			Timestamp: now,
		})
	}

	c.logger.Info("Fetched balances", "accounts", len(accounts), "snapshots", len(snapshots))
	return snapshots, nil
}

// classifyError marks rate limits retryable and everything else final.
func (c *Client) classifyError(err error, msg string) error {
	if plaidError := extractPlaidError(err); plaidError != nil {
		if plaidError.ErrorCode == "RATE_LIMIT_EXCEEDED" {
			c.logger.Warn("Rate limit hit, will retry", "error", plaidError.ErrorMessage)
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidError.ErrorMessage),
				Retryable: true,
			}
		}
		return &common.RetryableError{
			Err: fmt.Errorf("%w: %s - %s", common.ErrPlaidConnection, plaidError.ErrorCode, plaidError.ErrorMessage),
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// mapTransaction converts a Plaid transaction. Plaid reports money out as a
// positive amount, so the sign is flipped.
func (c *Client) mapTransaction(userID string, pt plaid.Transaction) model.Transaction {
	date, err := time.Parse("2006-01-02", pt.GetDate())
	if err != nil {
		c.logger.Error("Failed to parse transaction date", "date", pt.GetDate(), "error", err)
		date = c.now()
	}

	vendor := pt.GetMerchantName()
	if vendor == "" {
		vendor = pt.GetName()
	}

	return model.Transaction{
		ID:        pt.GetTransactionId(),
		UserID:    userID,
		Timestamp: date.UTC(),
		Amount:    -pt.GetAmount(),
		Category:  categoryFrom(pt.GetCategory()),
		Vendor:    cleanMerchantName(vendor),
		Currency:  pt.GetIsoCurrencyCode(),
		AccountID: pt.GetAccountId(),
	}
}

// categoryFrom picks the most specific entry of Plaid's category hierarchy.
func categoryFrom(hierarchy []string) string {
	for i := len(hierarchy) - 1; i >= 0; i-- {
		if c := strings.TrimSpace(hierarchy[i]); c != "" {
			return strings.ToLower(c)
		}
	}
	return uncategorized
}

var corporateSuffixes = map[string]bool{
	"llc": true, "inc": true, "corp": true, "corporation": true,
	"company": true, "co": true, "ltd": true, "limited": true,
}

// cleanMerchantName drops a trailing transaction ID and corporate suffixes,
// then title-cases what is left.
func cleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if n := len(words); n > 1 && len(words[n-1]) > 5 && isAllDigits(words[n-1]) {
		words = words[:n-1]
	}
	for len(words) > 1 && corporateSuffixes[strings.TrimSuffix(words[len(words)-1], ".")] {
		words = words[:len(words)-1]
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func isAllDigits(s string) bool {
	return strings.Trim(s, "0123456789") == ""
}

func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}

var _ Fetcher = (*Client)(nil)
