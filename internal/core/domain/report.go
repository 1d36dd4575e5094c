package domain

import "github.com/SscSPs/txn_processor/internal/apperrors"

// ReplayReport summarises one run over a transaction stream.
type ReplayReport struct {
	RunID    string
	Accounts []Account
	Applied  int
	Ignored  int
	Skipped  int // records dropped by the parser
	Rejected map[apperrors.ProcessingErrorKind]int
}

// TotalRejected sums rejections across kinds.
func (r ReplayReport) TotalRejected() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}
