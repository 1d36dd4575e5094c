package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies a transaction record. Unique across a run for transfers.
type TransactionID uint32

// Kind is the record type as it appears in input.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps an input type name to a Kind, ignoring case and surrounding spaces.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, true
	}
	return "", false
}

// IsTransfer reports whether records of this kind move money directly.
func (k Kind) IsTransfer() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is one input record. It is implemented only by Deposit, Withdrawal,
// Dispute, Resolve and Chargeback.
type Transaction interface {
	ClientID() ClientID
	TransactionID() TransactionID
	Kind() Kind
	String() string

	isTransaction()
}

// Deposit credits Amount to the client's available balance.
type Deposit struct {
	Client ClientID
	Tx     TransactionID
	Amount decimal.Decimal
}

// Withdrawal debits Amount from the client's available balance.
type Withdrawal struct {
	Client ClientID
	Tx     TransactionID
	Amount decimal.Decimal
}

// Dispute claims that the transfer Tx was erroneous and holds its amount.
type Dispute struct {
	Client ClientID
	Tx     TransactionID
}

// Resolve closes the dispute on Tx and releases the held amount.
type Resolve struct {
	Client ClientID
	Tx     TransactionID
}

// Chargeback closes the dispute on Tx by removing the held amount and locking the account.
type Chargeback struct {
	Client ClientID
	Tx     TransactionID
}

// NewDeposit builds a Deposit, rejecting negative amounts.
func NewDeposit(client ClientID, tx TransactionID, amount decimal.Decimal) (Deposit, error) {
	if amount.IsNegative() {
		return Deposit{}, apperrors.ErrNegativeAmount
	}
	return Deposit{Client: client, Tx: tx, Amount: amount}, nil
}

// NewWithdrawal builds a Withdrawal, rejecting negative amounts.
func NewWithdrawal(client ClientID, tx TransactionID, amount decimal.Decimal) (Withdrawal, error) {
	if amount.IsNegative() {
		return Withdrawal{}, apperrors.ErrNegativeAmount
	}
	return Withdrawal{Client: client, Tx: tx, Amount: amount}, nil
}

func (d Deposit) ClientID() ClientID           { return d.Client }
func (d Deposit) TransactionID() TransactionID { return d.Tx }
func (Deposit) Kind() Kind                     { return KindDeposit }
func (Deposit) isTransaction()                 {}
func (d Deposit) String() string               { return transferString(KindDeposit, d.Client, d.Tx, d.Amount) }

func (w Withdrawal) ClientID() ClientID           { return w.Client }
func (w Withdrawal) TransactionID() TransactionID { return w.Tx }
func (Withdrawal) Kind() Kind                     { return KindWithdrawal }
func (Withdrawal) isTransaction()                 {}
func (w Withdrawal) String() string {
	return transferString(KindWithdrawal, w.Client, w.Tx, w.Amount)
}

func (d Dispute) ClientID() ClientID           { return d.Client }
func (d Dispute) TransactionID() TransactionID { return d.Tx }
func (Dispute) Kind() Kind                     { return KindDispute }
func (Dispute) isTransaction()                 {}
func (d Dispute) String() string               { return amendmentString(KindDispute, d.Client, d.Tx) }

func (r Resolve) ClientID() ClientID           { return r.Client }
func (r Resolve) TransactionID() TransactionID { return r.Tx }
func (Resolve) Kind() Kind                     { return KindResolve }
func (Resolve) isTransaction()                 {}
func (r Resolve) String() string               { return amendmentString(KindResolve, r.Client, r.Tx) }

func (c Chargeback) ClientID() ClientID           { return c.Client }
func (c Chargeback) TransactionID() TransactionID { return c.Tx }
func (Chargeback) Kind() Kind                     { return KindChargeback }
func (Chargeback) isTransaction()                 {}
func (c Chargeback) String() string {
	return amendmentString(KindChargeback, c.Client, c.Tx)
}

func transferString(k Kind, client ClientID, tx TransactionID, amount decimal.Decimal) string {
	return fmt.Sprintf("%s client=%d tx=%d amount=%s", k, client, tx, amount.String())
}

func amendmentString(k Kind, client ClientID, tx TransactionID) string {
	return fmt.Sprintf("%s client=%d tx=%d", k, client, tx)
}
