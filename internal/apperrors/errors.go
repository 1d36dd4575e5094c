package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// --- Input format errors (raised by parsers, never by the ledger) ---

// ErrInputFormat is the umbrella for every record that could not be turned into a transaction.
var ErrInputFormat = errors.New("input format error")

// ErrMalformedRecord indicates a record with bad syntax or unparsable fields.
var ErrMalformedRecord = errors.New("malformed record")

// ErrMissingAmount indicates a deposit or withdrawal without an amount.
var ErrMissingAmount = errors.New("missing amount")

// ErrNegativeAmount indicates a deposit or withdrawal with an amount below zero.
var ErrNegativeAmount = errors.New("negative amount")

// ErrMissingColumn indicates the input header lacks a required column.
// It is fatal to the run and is not an input format error.
var ErrMissingColumn = errors.New("missing required column")

// InputFormatError describes one skipped input record.
type InputFormatError struct {
	Line   int    // 1-based line in the source, 0 when unknown
	Reason string // human readable detail
	Err    error  // one of ErrMalformedRecord, ErrMissingAmount, ErrNegativeAmount
}

func (e *InputFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Reason)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// Is makes every InputFormatError match ErrInputFormat.
func (e *InputFormatError) Is(target error) bool {
	return target == ErrInputFormat
}

// NewInputFormatError wraps a specific input format sentinel.
func NewInputFormatError(line int, err error, reason string) *InputFormatError {
	return &InputFormatError{Line: line, Reason: reason, Err: err}
}

// --- Processing errors (raised by the ledger) ---

// ErrProcessing is the umbrella for every record rejected by the ledger.
var ErrProcessing = errors.New("processing error")

var (
	ErrDuplicateTransaction   = errors.New("transaction id already exists")
	ErrAccountLocked          = errors.New("account is locked")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrUnknownTransaction     = errors.New("unknown transaction")
	ErrClientMismatch         = errors.New("client does not own transaction")
	ErrTransactionNotDisputed = errors.New("transaction is not disputed")
)

// ProcessingErrorKind names a ledger rejection.
type ProcessingErrorKind string

const (
	DuplicateTransaction   ProcessingErrorKind = "DUPLICATE_TRANSACTION"
	AccountLocked          ProcessingErrorKind = "ACCOUNT_LOCKED"
	InsufficientFunds      ProcessingErrorKind = "INSUFFICIENT_FUNDS"
	UnknownTransaction     ProcessingErrorKind = "UNKNOWN_TRANSACTION"
	ClientMismatch         ProcessingErrorKind = "CLIENT_MISMATCH"
	TransactionNotDisputed ProcessingErrorKind = "TRANSACTION_NOT_DISPUTED"
)

var kindSentinels = map[ProcessingErrorKind]error{
	DuplicateTransaction:   ErrDuplicateTransaction,
	AccountLocked:          ErrAccountLocked,
	InsufficientFunds:      ErrInsufficientFunds,
	UnknownTransaction:     ErrUnknownTransaction,
	ClientMismatch:         ErrClientMismatch,
	TransactionNotDisputed: ErrTransactionNotDisputed,
}

// Sentinel returns the sentinel error for the kind, or ErrProcessing for an unknown kind.
func (k ProcessingErrorKind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrProcessing
}

// ProcessingError is a per-record rejection. It never aborts a run.
type ProcessingError struct {
	Kind   ProcessingErrorKind
	Client uint16
	Tx     uint32
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: client %d, tx %d: %v", e.Kind, e.Client, e.Tx, e.Kind.Sentinel())
}

func (e *ProcessingError) Unwrap() error { return e.Kind.Sentinel() }

// Is makes every ProcessingError match ErrProcessing.
func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessing
}

// NewProcessingError builds a rejection for the given record.
func NewProcessingError(kind ProcessingErrorKind, client uint16, tx uint32) *ProcessingError {
	return &ProcessingError{Kind: kind, Client: client, Tx: tx}
}

// ProcessingKindOf extracts the rejection kind from err, if it carries one.
func ProcessingKindOf(err error) (ProcessingErrorKind, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
