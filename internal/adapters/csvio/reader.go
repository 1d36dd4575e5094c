package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/dto"
	"github.com/SscSPs/txn_processor/internal/utils/mapping"
	"github.com/go-playground/validator/v10"
)

const (
	colType   = "type"
	colClient = "client"
	colTx     = "tx"
	colAmount = "amount"
)

// headerAliases maps accepted header names to canonical columns.
var headerAliases = map[string]string{
	"type":             colType,
	"transaction_type": colType,
	"client":           colClient,
	"client_id":        colClient,
	"tx":               colTx,
	"transaction_id":   colTx,
	"amount":           colAmount,
}

// Reader streams transactions from CSV input with a header row.
// It is single pass and not safe for concurrent use.
type Reader struct {
	csv      *csv.Reader
	logger   *slog.Logger
	validate *validator.Validate

	columns map[string]int
	fatal   error
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for warnings about tolerated input.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithValidator shares a validator instance across readers.
func WithValidator(v *validator.Validate) ReaderOption {
	return func(r *Reader) {
		r.validate = v
	}
}

// NewReader creates a Reader over in. The header is read lazily on the first Next.
func NewReader(in io.Reader, options ...ReaderOption) *Reader {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1 // amendments may omit the amount, rows may carry trailing commas
	cr.TrimLeadingSpace = true

	r := &Reader{csv: cr}
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.validate == nil {
		r.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return r
}

// Next returns the next transaction.
//
// Records that cannot be parsed yield an *apperrors.InputFormatError; the caller may
// keep calling Next. Any other error is fatal and is returned again on later calls.
// io.EOF marks the end of the stream.
func (r *Reader) Next() (domain.Transaction, error) {
	if r.fatal != nil {
		return nil, r.fatal
	}
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			r.fatal = err
			return nil, err
		}
	}

	for {
		record, err := r.csv.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, apperrors.NewInputFormatError(pe.StartLine, apperrors.ErrMalformedRecord, pe.Err.Error())
			}
			r.fatal = err
			return nil, err
		}
		if blank(record) {
			continue
		}

		line, _ := r.csv.FieldPos(0)
		raw := r.toRaw(line, record)
		if err := r.validate.Struct(raw); err != nil {
			return nil, apperrors.NewInputFormatError(line, apperrors.ErrMalformedRecord, err.Error())
		}

		tx, err := mapping.RawToTransaction(raw)
		if err != nil {
			return nil, err
		}
		if mapping.HasIgnoredAmount(tx.Kind(), raw.Amount) {
			r.logger.Warn("Amount on amendment ignored",
				slog.Int("line", line),
				slog.String("transaction", tx.String()),
				slog.String("amount", raw.Amount))
		}
		return tx, nil
	}
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := columns[canonical]; !dup {
			columns[canonical] = i
		}
	}
	for _, required := range []string{colType, colClient, colTx} {
		if _, ok := columns[required]; !ok {
			return fmt.Errorf("%w: %q", apperrors.ErrMissingColumn, required)
		}
	}
	r.columns = columns
	return nil
}

func (r *Reader) toRaw(line int, record []string) dto.RawTransaction {
	return dto.RawTransaction{
		Line:   line,
		Type:   strings.ToLower(r.field(record, colType)),
		Client: r.field(record, colClient),
		Tx:     r.field(record, colTx),
		Amount: r.field(record, colAmount),
	}
}

func (r *Reader) field(record []string, column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
