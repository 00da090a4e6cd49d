// Package ofx imports OFX and QFX bank statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// An opening tag alone on a line with its closing bracket missing.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)

	cardPrefixRegex = regexp.MustCompile(`(?i)^(?:POS PURCHASE|VISA PURCHASE|MC PURCHASE|DEBIT PURCHASE|DEBIT CARD PURCHASE|CHECK CARD|ACH DEBIT|PURCHASE AUTHORIZED ON)\s+`)
	postedDateRegex = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// categoryByType names the category inferred from an OFX TRNTYPE.
var categoryByType = map[string]string{
	"CREDIT":      "credit",
	"DEBIT":       "debit",
	"INT":         "interest",
	"DIV":         "dividend",
	"FEE":         "bank fees",
	"SRVCHG":      "service charge",
	"DEP":         "deposit",
	"DIRECTDEP":   "deposit",
	"ATM":         "cash & atm",
	"POS":         "purchase",
	"XFER":        "transfer",
	"CHECK":       "check",
	"PAYMENT":     "payment",
	"CASH":        "cash & atm",
	"DIRECTDEBIT": "direct debit",
	"REPEATPMT":   "subscription",
}

// Statement is everything read from one OFX file.
type Statement struct {
	Transactions []model.Transaction
	Balances     []model.BalanceSnapshot
}

// Parser converts OFX statements into records for one user.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{logger: common.ComponentLogger(nil, "ofx")}
}

// preprocessOFX fixes common formatting issues in bank exports.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile reads bank and credit card statements. Amounts keep their OFX
// sign, so debits are negative. Each statement's ledger balance becomes a
// balance snapshot.
func (p *Parser) ParseFile(ctx context.Context, userID string, reader io.Reader) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	out := &Statement{}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			p.collect(out, userID, account{
				id:       string(stmt.BankAcctFrom.AcctID),
				currency: currencyOf(stmt.CurDef),
			}, stmt.BankTranList, stmt.BalAmt, stmt.DtAsOf)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			p.collect(out, userID, account{
				id:       string(stmt.CCAcctFrom.AcctID),
				currency: currencyOf(stmt.CurDef),
			}, stmt.BankTranList, stmt.BalAmt, stmt.DtAsOf)
		}
	}

	p.logger.Info("Parsed OFX file",
		"user_id", userID,
		"transactions", len(out.Transactions),
		"balances", len(out.Balances),
		"bank_statements", len(resp.Bank),
		"card_statements", len(resp.CreditCard))

	return out, nil
}

type account struct {
	id       string
	currency string
}

// collect appends one statement's transactions and its ledger balance.
func (p *Parser) collect(out *Statement, userID string, acct account, list *ofxgo.TransactionList, balance ofxgo.Amount, asOf ofxgo.Date) {
	if list != nil {
		for _, tx := range list.Transactions {
			out.Transactions = append(out.Transactions, p.convertTransaction(userID, acct, tx))
		}
	}
	if asOf.IsZero() {
		return
	}
	amount, _ := balance.Float64()
	out.Balances = append(out.Balances, model.BalanceSnapshot{
		UserID:    userID,
		AccountID: acct.id,
		Currency:  acct.currency,
		Balance:   amount,
		Timestamp: asOf.Time.UTC(),
	})
}

func (p *Parser) convertTransaction(userID string, acct account, tx ofxgo.Transaction) model.Transaction {
	amount, _ := tx.TrnAmt.Float64()

	return model.Transaction{
		ID:          string(tx.FiTID),
		UserID:      userID,
		Timestamp:   tx.DtPosted.Time.UTC(),
		Amount:      amount,
		Category:    categoryFor(tx.TrnType),
		Vendor:      merchantName(tx),
		Currency:    acct.currency,
		AccountID:   acct.id,
		IsRecurring: tx.TrnType == ofxgo.TrnTypeRepeatPmt || tx.TrnType == ofxgo.TrnTypeDirectDebit,
	}
}

func categoryFor(t fmt.Stringer) string {
	if c, ok := categoryByType[strings.ToUpper(t.String())]; ok {
		return c
	}
	return "uncategorized"
}

// currencyOf returns the ISO code, or "" when the statement omits CURDEF.
func currencyOf(cur ofxgo.CurrSymbol) string {
	if code := cur.String(); code != "XXX" {
		return code
	}
	return ""
}

// merchantName prefers PAYEE, then NAME, falling back to MEMO when NAME is
// generic. Card network prefixes and a leading MM/DD are removed.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}
	name = cardPrefixRegex.ReplaceAllString(name, "")
	return postedDateRegex.ReplaceAllString(name, "")
}
