package handlers

import (
	"io"

	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/dto"
	"github.com/SscSPs/txn_processor/internal/utils/mapping"
)

// requestSource feeds the records of a JSON replay request, in order.
type requestSource struct {
	requests []dto.TransactionRequest
	pos      int
}

func newRequestSource(requests []dto.TransactionRequest) *requestSource {
	return &requestSource{requests: requests}
}

// Next converts one request item per call; items are numbered from 1.
func (s *requestSource) Next() (domain.Transaction, error) {
	if s.pos >= len(s.requests) {
		return nil, io.EOF
	}
	s.pos++
	return mapping.RequestToTransaction(s.pos, s.requests[s.pos-1])
}
