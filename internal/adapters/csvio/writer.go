package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/utils"
)

var accountHeader = []string{"client", "available", "held", "total", "locked"}

// Writer renders the final account table as CSV.
type Writer struct {
	csv       *csv.Writer
	precision int
}

// NewWriter creates a Writer. precision > 0 rounds amounts to that many places.
func NewWriter(out io.Writer, precision int) *Writer {
	return &Writer{csv: csv.NewWriter(out), precision: precision}
}

// WriteAccounts writes the header and one row per account, ordered by client.
func (w *Writer) WriteAccounts(accounts []domain.Account) error {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Client < sorted[j].Client })

	if err := w.csv.Write(accountHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, acc := range sorted {
		row := []string{
			strconv.FormatUint(uint64(acc.Client), 10),
			utils.FormatAmount(acc.Available, w.precision),
			utils.FormatAmount(acc.Held, w.precision),
			utils.FormatAmount(acc.Total(), w.precision),
			strconv.FormatBool(acc.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("writing client %d: %w", acc.Client, err)
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
