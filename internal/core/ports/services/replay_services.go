package services

import (
	"context"

	"github.com/SscSPs/txn_processor/internal/core/domain"
)

// TransactionSource yields transaction records in input order.
type TransactionSource interface {
	// Next returns the next record. io.EOF ends the stream; an error matching
	// apperrors.ErrInputFormat rejects one record and the stream may continue.
	// Any other error is fatal. A nil record with a nil error is fatal too.
	Next() (domain.Transaction, error)
}

// ReplayRunnerSvc runs a stream of records against a fresh ledger.
type ReplayRunnerSvc interface {
	// Replay consumes source to the end and reports the resulting accounts.
	Replay(ctx context.Context, source TransactionSource) (*domain.ReplayReport, error)
}

// ReplaySvcFacade combines all replay-related service interfaces.
type ReplaySvcFacade interface {
	ReplayRunnerSvc
}
