package mapping

import (
	"fmt"
	"strconv"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/dto"
	"github.com/shopspring/decimal"
)

// RawToTransaction converts a validated CSV row to a domain transaction.
// Failures are *apperrors.InputFormatError carrying the row's line.
func RawToTransaction(raw dto.RawTransaction) (domain.Transaction, error) {
	kind, ok := domain.ParseKind(raw.Type)
	if !ok {
		return nil, apperrors.NewInputFormatError(raw.Line, apperrors.ErrMalformedRecord, fmt.Sprintf("unknown type %q", raw.Type))
	}

	client, err := strconv.ParseUint(raw.Client, 10, 16)
	if err != nil {
		return nil, apperrors.NewInputFormatError(raw.Line, apperrors.ErrMalformedRecord, fmt.Sprintf("client %q: %v", raw.Client, err))
	}
	tx, err := strconv.ParseUint(raw.Tx, 10, 32)
	if err != nil {
		return nil, apperrors.NewInputFormatError(raw.Line, apperrors.ErrMalformedRecord, fmt.Sprintf("tx %q: %v", raw.Tx, err))
	}

	if !kind.IsTransfer() {
		return newAmendment(kind, domain.ClientID(client), domain.TransactionID(tx)), nil
	}

	if raw.Amount == "" {
		return nil, apperrors.NewInputFormatError(raw.Line, apperrors.ErrMissingAmount, fmt.Sprintf("%s tx %d", kind, tx))
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return nil, apperrors.NewInputFormatError(raw.Line, apperrors.ErrMalformedRecord, fmt.Sprintf("amount %q: %v", raw.Amount, err))
	}
	return newTransfer(raw.Line, kind, domain.ClientID(client), domain.TransactionID(tx), amount)
}

// RequestToTransaction converts one JSON replay record. index is its 1-based position.
func RequestToTransaction(index int, req dto.TransactionRequest) (domain.Transaction, error) {
	kind, ok := domain.ParseKind(req.Type)
	if !ok {
		return nil, apperrors.NewInputFormatError(index, apperrors.ErrMalformedRecord, fmt.Sprintf("unknown type %q", req.Type))
	}
	if req.Client == nil || req.Tx == nil {
		return nil, apperrors.NewInputFormatError(index, apperrors.ErrMalformedRecord, "client and tx are required")
	}

	client, tx := domain.ClientID(*req.Client), domain.TransactionID(*req.Tx)
	if !kind.IsTransfer() {
		return newAmendment(kind, client, tx), nil
	}
	if req.Amount == nil {
		return nil, apperrors.NewInputFormatError(index, apperrors.ErrMissingAmount, fmt.Sprintf("%s tx %d", kind, tx))
	}
	return newTransfer(index, kind, client, tx, *req.Amount)
}

// HasIgnoredAmount reports whether an amendment row carried an amount that will be dropped.
func HasIgnoredAmount(kind domain.Kind, amount string) bool {
	return !kind.IsTransfer() && amount != ""
}

func newTransfer(line int, kind domain.Kind, client domain.ClientID, tx domain.TransactionID, amount decimal.Decimal) (domain.Transaction, error) {
	var (
		t   domain.Transaction
		err error
	)
	if kind == domain.KindDeposit {
		t, err = domain.NewDeposit(client, tx, amount)
	} else {
		t, err = domain.NewWithdrawal(client, tx, amount)
	}
	if err != nil {
		return nil, apperrors.NewInputFormatError(line, err, fmt.Sprintf("%s tx %d amount %s", kind, tx, amount))
	}
	return t, nil
}

func newAmendment(kind domain.Kind, client domain.ClientID, tx domain.TransactionID) domain.Transaction {
	switch kind {
	case domain.KindDispute:
		return domain.Dispute{Client: client, Tx: tx}
	case domain.KindResolve:
		return domain.Resolve{Client: client, Tx: tx}
	default:
		return domain.Chargeback{Client: client, Tx: tx}
	}
}
