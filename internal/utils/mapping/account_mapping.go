package mapping

import (
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/dto"
	"github.com/SscSPs/txn_processor/internal/utils"
)

// ToAccountResponse converts a domain Account to an AccountResponse DTO
func ToAccountResponse(acc domain.Account, precision int) dto.AccountResponse {
	return dto.AccountResponse{
		Client:    uint16(acc.Client),
		Available: utils.FormatAmount(acc.Available, precision),
		Held:      utils.FormatAmount(acc.Held, precision),
		Total:     utils.FormatAmount(acc.Total(), precision),
		Locked:    acc.Locked,
	}
}

// ToAccountResponseSlice converts a slice of domain Accounts
func ToAccountResponseSlice(accounts []domain.Account, precision int) []dto.AccountResponse {
	res := make([]dto.AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(acc, precision)
	}
	return res
}

// ToReplayResponse converts a ReplayReport to the replay endpoint's response
func ToReplayResponse(report *domain.ReplayReport, precision int) dto.ReplayResponse {
	rejected := make(map[string]int, len(report.Rejected))
	for kind, n := range report.Rejected {
		rejected[string(kind)] = n
	}
	return dto.ReplayResponse{
		RunID:    report.RunID,
		Applied:  report.Applied,
		Ignored:  report.Ignored,
		Skipped:  report.Skipped,
		Rejected: rejected,
		Accounts: ToAccountResponseSlice(report.Accounts, precision),
	}
}
