package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/core/ledger"
	portssvc "github.com/SscSPs/txn_processor/internal/core/ports/services"
	"github.com/SscSPs/txn_processor/internal/platform/metrics"
	"github.com/google/uuid"
)

// replayService implements the ReplaySvcFacade interface
type replayService struct {
	BaseService
	metrics *metrics.Recorder
}

// ReplayOption is a functional option for configuring the replay service
type ReplayOption func(*replayService)

// WithMetrics records every outcome on recorder
func WithMetrics(recorder *metrics.Recorder) ReplayOption {
	return func(s *replayService) {
		s.metrics = recorder
	}
}

// NewReplayService creates a replay service. Each Replay call owns its own ledger,
// so one service can serve concurrent runs.
func NewReplayService(options ...ReplayOption) portssvc.ReplaySvcFacade {
	s := &replayService{}
	for _, option := range options {
		option(s)
	}
	return s
}

// Replay feeds source into a fresh ledger, in order, until io.EOF.
func (s *replayService) Replay(ctx context.Context, source portssvc.TransactionSource) (*domain.ReplayReport, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: transaction source is required", apperrors.ErrValidation)
	}

	report := &domain.ReplayReport{
		RunID:    uuid.NewString(),
		Rejected: make(map[apperrors.ProcessingErrorKind]int),
	}
	runAttr := slog.String("run_id", report.RunID)
	l := ledger.New()

	s.LogDebug(ctx, "Replay started", runAttr)
	for {
		if err := ctx.Err(); err != nil {
			s.LogWarn(ctx, "Replay cancelled", runAttr, slog.String("error", err.Error()))
			return nil, fmt.Errorf("replay %s stopped: %w", report.RunID, err)
		}

		tx, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrInputFormat) {
				report.Skipped++
				s.metrics.Skipped()
				s.LogWarn(ctx, "Skipping unreadable record", inputAttrs(runAttr, err)...)
				continue
			}
			s.LogError(ctx, err, "Failed to read transactions", runAttr)
			return nil, fmt.Errorf("reading transactions: %w", err)
		}

		if tx == nil {
			emptyErr := fmt.Errorf("%w: transaction source returned neither a record nor an error", apperrors.ErrValidation)
			s.LogError(ctx, emptyErr, "Failed to read transactions", runAttr)
			return nil, emptyErr
		}
		if err := s.apply(ctx, l, tx, report, runAttr); err != nil {
			s.LogError(ctx, err, "Failed to apply transaction", runAttr)
			return nil, fmt.Errorf("applying %s: %w", tx, err)
		}
	}

	report.Accounts = l.Accounts()
	s.metrics.RunCompleted()
	s.LogInfo(ctx, "Replay completed", runAttr,
		slog.Int("accounts", len(report.Accounts)),
		slog.Int("applied", report.Applied),
		slog.Int("ignored", report.Ignored),
		slog.Int("rejected", report.TotalRejected()),
		slog.Int("skipped", report.Skipped))
	return report, nil
}

// apply records the outcome of one transaction. Only errors that are not
// ledger rejections are returned.
func (s *replayService) apply(ctx context.Context, l *ledger.Ledger, tx domain.Transaction, report *domain.ReplayReport, runAttr slog.Attr) error {
	outcome, err := l.Apply(tx)
	if err != nil {
		reason, ok := apperrors.ProcessingKindOf(err)
		if !ok {
			return err
		}
		kind := string(tx.Kind())
		report.Rejected[reason]++
		s.metrics.Rejected(kind, string(reason))
		s.LogWarn(ctx, "Transaction rejected", runAttr,
			slog.String("transaction", tx.String()),
			slog.String("reason", string(reason)))
		return nil
	}

	kind := string(tx.Kind())
	switch outcome {
	case domain.Ignored:
		report.Ignored++
		s.metrics.Ignored(kind)
		s.LogInfo(ctx, "Amendment ignored", runAttr, slog.String("transaction", tx.String()))
	default:
		report.Applied++
		s.metrics.Applied(kind)
	}
	return nil
}

func inputAttrs(runAttr slog.Attr, err error) []any {
	var ife *apperrors.InputFormatError
	if errors.As(err, &ife) {
		return []any{runAttr, slog.Int("line", ife.Line), slog.String("error", ife.Error())}
	}
	return []any{runAttr, slog.String("error", err.Error())}
}
