package dto

import "github.com/shopspring/decimal"

// RawTransaction is one CSV row after column lookup and trimming. Fields are still text.
type RawTransaction struct {
	Line   int    `validate:"-"`
	Type   string `validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client string `validate:"required,number"`
	Tx     string `validate:"required,number"`
	Amount string `validate:"-"` // optional; only meaningful for deposits and withdrawals
}

// TransactionRequest is one record in a JSON replay request.
type TransactionRequest struct {
	Type   string           `json:"type" binding:"required"` // Matched case-insensitively; unknown kinds skip the record
	Client *uint16          `json:"client" binding:"required"`
	Tx     *uint32          `json:"tx" binding:"required"`
	Amount *decimal.Decimal `json:"amount"` // Optional for amendments, ignored when present
}

// ReplayRequest is the JSON body accepted by the replay endpoint.
type ReplayRequest struct {
	Transactions []TransactionRequest `json:"transactions" binding:"required,dive"`
}
