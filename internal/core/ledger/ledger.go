// Package ledger applies transaction records, in order, to per-client accounts.
//
// A Ledger is not safe for concurrent use. Each run owns its own Ledger; runs
// that need to scale out partition the stream by client across independent Ledgers.
package ledger

import (
	"fmt"
	"sort"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/shopspring/decimal"
)

// account is the live, mutable state behind a domain.Account snapshot.
type account struct {
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
}

// transferRecord is an accepted deposit or withdrawal, kept for later amendments.
type transferRecord struct {
	client domain.ClientID
	kind   domain.Kind
	amount decimal.Decimal
	status domain.DisputeStatus
}

// Ledger owns account and transfer state for one run.
type Ledger struct {
	accounts  map[domain.ClientID]*account
	transfers map[domain.TransactionID]*transferRecord
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		accounts:  make(map[domain.ClientID]*account),
		transfers: make(map[domain.TransactionID]*transferRecord),
	}
}

// Apply interprets one record against current state.
// A rejected record yields a *apperrors.ProcessingError and leaves state untouched.
// A nil record, or a nil pointer to one, yields an error wrapping apperrors.ErrValidation.
func (l *Ledger) Apply(tx domain.Transaction) (domain.Outcome, error) {
	switch t := tx.(type) {
	case domain.Deposit:
		return l.deposit(t)
	case domain.Withdrawal:
		return l.withdraw(t)
	case domain.Dispute:
		return l.dispute(t)
	case domain.Resolve:
		return l.resolve(t)
	case domain.Chargeback:
		return l.chargeback(t)
	case *domain.Deposit:
		if t != nil {
			return l.deposit(*t)
		}
	case *domain.Withdrawal:
		if t != nil {
			return l.withdraw(*t)
		}
	case *domain.Dispute:
		if t != nil {
			return l.dispute(*t)
		}
	case *domain.Resolve:
		if t != nil {
			return l.resolve(*t)
		}
	case *domain.Chargeback:
		if t != nil {
			return l.chargeback(*t)
		}
	}
	return domain.Applied, fmt.Errorf("%w: nil transaction", apperrors.ErrValidation)
}

func (l *Ledger) deposit(d domain.Deposit) (domain.Outcome, error) {
	if err := l.checkTransfer(d.Client, d.Tx); err != nil {
		return domain.Applied, err
	}

	acc, ok := l.accounts[d.Client]
	if !ok {
		acc = &account{}
		l.accounts[d.Client] = acc
	}
	acc.available = acc.available.Add(d.Amount)
	l.transfers[d.Tx] = &transferRecord{client: d.Client, kind: domain.KindDeposit, amount: d.Amount}
	return domain.Applied, nil
}

func (l *Ledger) withdraw(w domain.Withdrawal) (domain.Outcome, error) {
	if err := l.checkTransfer(w.Client, w.Tx); err != nil {
		return domain.Applied, err
	}

	// An unknown client has nothing to withdraw; no account is created for it.
	acc, ok := l.accounts[w.Client]
	if !ok || acc.available.LessThan(w.Amount) {
		return domain.Applied, reject(apperrors.InsufficientFunds, w.Client, w.Tx)
	}
	acc.available = acc.available.Sub(w.Amount)
	l.transfers[w.Tx] = &transferRecord{client: w.Client, kind: domain.KindWithdrawal, amount: w.Amount}
	return domain.Applied, nil
}

// checkTransfer runs the duplicate and lock checks shared by deposits and withdrawals.
func (l *Ledger) checkTransfer(client domain.ClientID, tx domain.TransactionID) error {
	if _, exists := l.transfers[tx]; exists {
		return reject(apperrors.DuplicateTransaction, client, tx)
	}
	if acc, ok := l.accounts[client]; ok && acc.locked {
		return reject(apperrors.AccountLocked, client, tx)
	}
	return nil
}

func (l *Ledger) dispute(d domain.Dispute) (domain.Outcome, error) {
	rec, acc, err := l.lookup(d.Client, d.Tx)
	if err != nil {
		return domain.Applied, err
	}

	switch rec.status {
	case domain.Disputed, domain.ChargedBack:
		return domain.Ignored, nil
	}

	// Deposits and withdrawals are held the same way: available drops, held grows.
	acc.available = acc.available.Sub(rec.amount)
	acc.held = acc.held.Add(rec.amount)
	rec.status = domain.Disputed
	return domain.Applied, nil
}

func (l *Ledger) resolve(r domain.Resolve) (domain.Outcome, error) {
	rec, acc, err := l.lookup(r.Client, r.Tx)
	if err != nil {
		return domain.Applied, err
	}
	if rec.status != domain.Disputed {
		return domain.Applied, reject(apperrors.TransactionNotDisputed, r.Client, r.Tx)
	}

	acc.held = acc.held.Sub(rec.amount)
	acc.available = acc.available.Add(rec.amount)
	rec.status = domain.Resolved
	return domain.Applied, nil
}

func (l *Ledger) chargeback(c domain.Chargeback) (domain.Outcome, error) {
	rec, acc, err := l.lookup(c.Client, c.Tx)
	if err != nil {
		return domain.Applied, err
	}
	if rec.status != domain.Disputed {
		return domain.Applied, reject(apperrors.TransactionNotDisputed, c.Client, c.Tx)
	}

	acc.held = acc.held.Sub(rec.amount)
	acc.locked = true
	rec.status = domain.ChargedBack
	return domain.Applied, nil
}

// lookup resolves the transfer an amendment targets and the account it belongs to.
func (l *Ledger) lookup(client domain.ClientID, tx domain.TransactionID) (*transferRecord, *account, error) {
	rec, ok := l.transfers[tx]
	if !ok {
		return nil, nil, reject(apperrors.UnknownTransaction, client, tx)
	}
	if rec.client != client {
		return nil, nil, reject(apperrors.ClientMismatch, client, tx)
	}
	// Every stored transfer was accepted on an existing or freshly created account.
	return rec, l.accounts[rec.client], nil
}

// Account returns a snapshot of one client's account.
func (l *Ledger) Account(client domain.ClientID) (domain.Account, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return domain.Account{}, false
	}
	return acc.snapshot(client), true
}

// Accounts returns snapshots of every account created during the run, ordered by client.
func (l *Ledger) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(l.accounts))
	for client, acc := range l.accounts {
		out = append(out, acc.snapshot(client))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Status reports the dispute status of a stored transfer.
func (l *Ledger) Status(tx domain.TransactionID) (domain.DisputeStatus, bool) {
	rec, ok := l.transfers[tx]
	if !ok {
		return domain.Normal, false
	}
	return rec.status, true
}

func (a *account) snapshot(client domain.ClientID) domain.Account {
	return domain.Account{
		Client:    client,
		Available: a.available,
		Held:      a.held,
		Locked:    a.locked,
	}
}

func reject(kind apperrors.ProcessingErrorKind, client domain.ClientID, tx domain.TransactionID) error {
	return apperrors.NewProcessingError(kind, uint16(client), uint32(tx))
}
