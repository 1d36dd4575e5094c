package ledger_test

import (
	"testing"

	"github.com/SscSPs/txn_processor/internal/apperrors"
	"github.com/SscSPs/txn_processor/internal/core/domain"
	"github.com/SscSPs/txn_processor/internal/core/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// documentedStream is the 16 record example stream.
func documentedStream() []domain.Transaction {
	return []domain.Transaction{
		domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")},
		domain.Chargeback{Client: 23, Tx: 1},
		domain.Deposit{Client: 24, Tx: 2, Amount: dec("15")},
		domain.Deposit{Client: 42, Tx: 3, Amount: dec("12.5")},
		domain.Withdrawal{Client: 22, Tx: 4, Amount: dec("7")},
		domain.Withdrawal{Client: 42, Tx: 5, Amount: dec("2.25")},
		domain.Deposit{Client: 23, Tx: 6, Amount: dec("8")},
		domain.Withdrawal{Client: 23, Tx: 7, Amount: dec("2")},
		domain.Dispute{Client: 23, Tx: 1},
		domain.Deposit{Client: 24, Tx: 8, Amount: dec("16")},
		domain.Dispute{Client: 42, Tx: 5},
		domain.Chargeback{Client: 42, Tx: 5},
		domain.Dispute{Client: 24, Tx: 2},
		domain.Resolve{Client: 23, Tx: 1},
		domain.Deposit{Client: 42, Tx: 9, Amount: dec("6.5")},
		domain.Withdrawal{Client: 24, Tx: 10, Amount: dec("3.2")},
	}
}

type LedgerTestSuite struct {
	suite.Suite
	ledger *ledger.Ledger
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ledger = ledger.New()
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

// --- helpers ---

func (suite *LedgerTestSuite) applyOK(tx domain.Transaction) {
	outcome, err := suite.ledger.Apply(tx)
	suite.Require().NoError(err, "applying %s", tx)
	suite.Require().Equal(domain.Applied, outcome, "applying %s", tx)
}

func (suite *LedgerTestSuite) applyIgnored(tx domain.Transaction) {
	outcome, err := suite.ledger.Apply(tx)
	suite.Require().NoError(err, "applying %s", tx)
	suite.Require().Equal(domain.Ignored, outcome, "applying %s", tx)
}

func (suite *LedgerTestSuite) applyRejected(tx domain.Transaction, kind apperrors.ProcessingErrorKind) {
	_, err := suite.ledger.Apply(tx)
	suite.Require().Error(err, "applying %s", tx)
	suite.ErrorIs(err, kind.Sentinel())
	suite.ErrorIs(err, apperrors.ErrProcessing)
	got, ok := apperrors.ProcessingKindOf(err)
	suite.True(ok)
	suite.Equal(kind, got)
}

func (suite *LedgerTestSuite) account(client domain.ClientID) domain.Account {
	acc, ok := suite.ledger.Account(client)
	suite.Require().True(ok, "account %d must exist", client)
	return acc
}

func (suite *LedgerTestSuite) assertBalances(client domain.ClientID, available, held string, locked bool) {
	acc := suite.account(client)
	suite.True(acc.Available.Equal(dec(available)), "client %d available: got %s want %s", client, acc.Available, available)
	suite.True(acc.Held.Equal(dec(held)), "client %d held: got %s want %s", client, acc.Held, held)
	suite.Equal(locked, acc.Locked, "client %d locked", client)
}

func (suite *LedgerTestSuite) assertTotalsConsistent() {
	for _, acc := range suite.ledger.Accounts() {
		suite.True(acc.Total().Equal(acc.Available.Add(acc.Held)))
	}
}

// --- transfers ---

func (suite *LedgerTestSuite) TestDeposit_CreatesAccount() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("1.5")})
	suite.applyOK(domain.Deposit{Client: 1, Tx: 2, Amount: dec("0.0001")})

	suite.assertBalances(1, "1.5001", "0", false)
	status, ok := suite.ledger.Status(1)
	suite.True(ok)
	suite.Equal(domain.Normal, status)
}

func (suite *LedgerTestSuite) TestDeposit_ZeroAmount() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: decimal.Zero})
	suite.assertBalances(1, "0", "0", false)
}

func (suite *LedgerTestSuite) TestWithdrawal_Succeeds() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Withdrawal{Client: 1, Tx: 2, Amount: dec("10")})
	suite.assertBalances(1, "0", "0", false)
}

func (suite *LedgerTestSuite) TestWithdrawal_ExceedingAvailableIsRejected() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("2")})
	before := suite.account(23)

	suite.applyRejected(domain.Withdrawal{Client: 23, Tx: 2, Amount: dec("3")}, apperrors.InsufficientFunds)

	suite.True(before.Equal(suite.account(23)))
	_, stored := suite.ledger.Status(2)
	suite.False(stored, "rejected withdrawal must not be recorded")
}

func (suite *LedgerTestSuite) TestWithdrawal_UnknownClientCreatesNoAccount() {
	suite.applyRejected(domain.Withdrawal{Client: 22, Tx: 4, Amount: dec("7")}, apperrors.InsufficientFunds)

	_, ok := suite.ledger.Account(22)
	suite.False(ok)
	suite.Empty(suite.ledger.Accounts())
}

func (suite *LedgerTestSuite) TestDuplicateTransactionID() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")})

	// Same record replayed.
	suite.applyRejected(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")}, apperrors.DuplicateTransaction)
	// Same id, different client and kind.
	suite.applyRejected(domain.Withdrawal{Client: 243, Tx: 1, Amount: dec("1")}, apperrors.DuplicateTransaction)
	suite.assertBalances(23, "10", "0", false)
	_, ok := suite.ledger.Account(243)
	suite.False(ok, "duplicate must not create an account")

	// Still a duplicate after the original is charged back.
	suite.applyOK(domain.Dispute{Client: 23, Tx: 1})
	suite.applyOK(domain.Chargeback{Client: 23, Tx: 1})
	suite.applyRejected(domain.Deposit{Client: 243, Tx: 1, Amount: dec("10")}, apperrors.DuplicateTransaction)
}

func (suite *LedgerTestSuite) TestDuplicateIsCheckedBeforeLock() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("5")})
	suite.applyOK(domain.Dispute{Client: 1, Tx: 1})
	suite.applyOK(domain.Chargeback{Client: 1, Tx: 1})

	suite.applyRejected(domain.Deposit{Client: 1, Tx: 1, Amount: dec("5")}, apperrors.DuplicateTransaction)
	suite.applyRejected(domain.Deposit{Client: 1, Tx: 2, Amount: dec("5")}, apperrors.AccountLocked)
}

func (suite *LedgerTestSuite) TestLockedAccountRejectsTransfers() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("15")})
	suite.applyOK(domain.Deposit{Client: 23, Tx: 2, Amount: dec("5")})
	suite.applyOK(domain.Dispute{Client: 23, Tx: 2})
	suite.applyOK(domain.Chargeback{Client: 23, Tx: 2})
	locked := suite.account(23)
	suite.True(locked.Locked)

	suite.applyRejected(domain.Deposit{Client: 23, Tx: 3, Amount: dec("10")}, apperrors.AccountLocked)
	suite.applyRejected(domain.Withdrawal{Client: 23, Tx: 4, Amount: dec("7")}, apperrors.AccountLocked)
	suite.True(locked.Equal(suite.account(23)))

	// The rejected transfers left no record to dispute.
	suite.applyRejected(domain.Dispute{Client: 23, Tx: 3}, apperrors.UnknownTransaction)
	suite.applyRejected(domain.Dispute{Client: 23, Tx: 4}, apperrors.UnknownTransaction)
}

func (suite *LedgerTestSuite) TestLockedAccountStillMovesOnAmendments() {
	suite.applyOK(domain.Deposit{Client: 5, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Deposit{Client: 5, Tx: 2, Amount: dec("4")})
	suite.applyOK(domain.Dispute{Client: 5, Tx: 2})
	suite.applyOK(domain.Chargeback{Client: 5, Tx: 2})
	suite.assertBalances(5, "10", "0", true)

	suite.applyOK(domain.Dispute{Client: 5, Tx: 1})
	suite.assertBalances(5, "0", "10", true)
	suite.applyOK(domain.Resolve{Client: 5, Tx: 1})
	suite.assertBalances(5, "10", "0", true)
}

// --- amendments ---

func (suite *LedgerTestSuite) TestDispute_RejectsUnknownAndForeign() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Withdrawal{Client: 23, Tx: 2, Amount: dec("7")})
	before := suite.account(23)

	for _, tx := range []domain.Transaction{
		domain.Dispute{Client: 72, Tx: 1},
		domain.Resolve{Client: 72, Tx: 1},
		domain.Chargeback{Client: 72, Tx: 1},
	} {
		suite.applyRejected(tx, apperrors.ClientMismatch)
	}
	for _, tx := range []domain.Transaction{
		domain.Dispute{Client: 23, Tx: 42},
		domain.Resolve{Client: 23, Tx: 42},
		domain.Chargeback{Client: 23, Tx: 42},
	} {
		suite.applyRejected(tx, apperrors.UnknownTransaction)
	}

	suite.True(before.Equal(suite.account(23)))
	_, ok := suite.ledger.Account(72)
	suite.False(ok, "amendments never create accounts")
}

func (suite *LedgerTestSuite) TestDispute_MovesFundsToHeld() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Withdrawal{Client: 23, Tx: 2, Amount: dec("7")})

	suite.applyOK(domain.Dispute{Client: 23, Tx: 1})
	suite.assertBalances(23, "-7", "10", false)

	// A disputed withdrawal moves the same direction.
	suite.applyOK(domain.Dispute{Client: 23, Tx: 2})
	suite.assertBalances(23, "-14", "17", false)
	suite.assertTotalsConsistent()
}

func (suite *LedgerTestSuite) TestDoubleDisputeIsIgnored() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Dispute{Client: 1, Tx: 1})
	after := suite.account(1)

	suite.applyIgnored(domain.Dispute{Client: 1, Tx: 1})

	suite.True(after.Equal(suite.account(1)), "held must not be incremented twice")
	suite.assertBalances(1, "0", "10", false)
}

func (suite *LedgerTestSuite) TestDisputeThenResolveRestoresSplit() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Withdrawal{Client: 23, Tx: 2, Amount: dec("7")})
	initial := suite.account(23)

	suite.applyRejected(domain.Resolve{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.True(initial.Equal(suite.account(23)))

	suite.applyOK(domain.Dispute{Client: 23, Tx: 1})
	suite.applyOK(domain.Resolve{Client: 23, Tx: 1})
	suite.True(initial.Equal(suite.account(23)))

	status, _ := suite.ledger.Status(1)
	suite.Equal(domain.Resolved, status)

	suite.applyRejected(domain.Resolve{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.applyRejected(domain.Chargeback{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.True(initial.Equal(suite.account(23)))
}

func (suite *LedgerTestSuite) TestResolvedTransferCanBeDisputedAgain() {
	suite.applyOK(domain.Deposit{Client: 3, Tx: 1, Amount: dec("4")})
	suite.applyOK(domain.Dispute{Client: 3, Tx: 1})
	suite.applyOK(domain.Resolve{Client: 3, Tx: 1})

	suite.applyOK(domain.Dispute{Client: 3, Tx: 1})
	suite.assertBalances(3, "0", "4", false)
	status, _ := suite.ledger.Status(1)
	suite.Equal(domain.Disputed, status)

	suite.applyOK(domain.Chargeback{Client: 3, Tx: 1})
	suite.assertBalances(3, "0", "0", true)
}

func (suite *LedgerTestSuite) TestChargeback() {
	suite.applyOK(domain.Deposit{Client: 23, Tx: 1, Amount: dec("10")})
	suite.applyOK(domain.Withdrawal{Client: 23, Tx: 2, Amount: dec("7")})
	initial := suite.account(23)

	suite.applyRejected(domain.Chargeback{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.True(initial.Equal(suite.account(23)))

	suite.applyOK(domain.Dispute{Client: 23, Tx: 1})
	suite.applyOK(domain.Chargeback{Client: 23, Tx: 1})
	suite.assertBalances(23, "-7", "0", true)
	status, _ := suite.ledger.Status(1)
	suite.Equal(domain.ChargedBack, status)

	// ChargedBack is terminal.
	charged := suite.account(23)
	suite.applyIgnored(domain.Dispute{Client: 23, Tx: 1})
	suite.applyRejected(domain.Resolve{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.applyRejected(domain.Chargeback{Client: 23, Tx: 1}, apperrors.TransactionNotDisputed)
	suite.True(charged.Equal(suite.account(23)))

	// Other transfers can still be disputed and charged back.
	suite.applyOK(domain.Dispute{Client: 23, Tx: 2})
	suite.applyOK(domain.Chargeback{Client: 23, Tx: 2})
	suite.assertBalances(23, "-14", "0", true)
}

func (suite *LedgerTestSuite) TestChargebackKeepsOtherFunds() {
	suite.applyOK(domain.Deposit{Client: 8, Tx: 1, Amount: dec("3")})
	suite.applyOK(domain.Deposit{Client: 8, Tx: 2, Amount: dec("20")})
	suite.applyOK(domain.Dispute{Client: 8, Tx: 1})
	suite.applyOK(domain.Chargeback{Client: 8, Tx: 1})

	suite.assertBalances(8, "20", "0", true)
}

// --- whole stream ---

func (suite *LedgerTestSuite) TestDocumentedScenario() {
	for _, tx := range documentedStream() {
		_, _ = suite.ledger.Apply(tx)
		suite.assertTotalsConsistent()
	}

	accounts := suite.ledger.Accounts()
	suite.Require().Len(accounts, 3, "client 22 never gets an account")
	suite.Equal([]domain.ClientID{23, 24, 42}, []domain.ClientID{accounts[0].Client, accounts[1].Client, accounts[2].Client})

	suite.assertBalances(42, "8", "0", true)
	suite.assertBalances(24, "12.8", "15", false)
	suite.assertBalances(23, "16", "0", false)
	suite.True(suite.account(24).Total().Equal(dec("27.8")))
	suite.True(suite.account(42).Total().Equal(dec("8")))
	suite.True(suite.account(23).Total().Equal(dec("16")))

	_, ok := suite.ledger.Account(22)
	suite.False(ok)
}

func (suite *LedgerTestSuite) TestDocumentedScenarioOutcomes() {
	type result struct {
		outcome domain.Outcome
		kind    apperrors.ProcessingErrorKind
	}
	want := []result{
		{domain.Applied, ""},
		{domain.Applied, apperrors.TransactionNotDisputed},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, apperrors.InsufficientFunds},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, ""},
		{domain.Applied, apperrors.AccountLocked},
		{domain.Applied, ""},
	}

	for i, tx := range documentedStream() {
		outcome, err := suite.ledger.Apply(tx)
		if want[i].kind == "" {
			suite.NoError(err, "record %d: %s", i+1, tx)
			suite.Equal(want[i].outcome, outcome, "record %d", i+1)
			continue
		}
		kind, ok := apperrors.ProcessingKindOf(err)
		suite.True(ok, "record %d: %s", i+1, tx)
		suite.Equal(want[i].kind, kind, "record %d: %s", i+1, tx)
	}
}

func (suite *LedgerTestSuite) TestReplayIsDeterministic() {
	first := ledger.New()
	second := ledger.New()
	for _, tx := range documentedStream() {
		_, _ = first.Apply(tx)
	}
	for _, tx := range documentedStream() {
		_, _ = second.Apply(tx)
	}

	a, b := first.Accounts(), second.Accounts()
	suite.Require().Len(b, len(a))
	for i := range a {
		suite.True(a[i].Equal(b[i]), "account %d differs", a[i].Client)
	}
}

func (suite *LedgerTestSuite) TestAccountsAreCopies() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("1")})

	accounts := suite.ledger.Accounts()
	accounts[0].Available = dec("1000")
	accounts[0].Locked = true

	suite.assertBalances(1, "1", "0", false)
}

func (suite *LedgerTestSuite) TestIndependentLedgers() {
	other := ledger.New()
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("1")})

	_, err := other.Apply(domain.Deposit{Client: 1, Tx: 1, Amount: dec("2")})
	suite.NoError(err, "transaction ids are scoped to one ledger")
	suite.assertBalances(1, "1", "0", false)
}

func (suite *LedgerTestSuite) TestPointerRecordsApplyLikeValues() {
	suite.applyOK(&domain.Deposit{Client: 1, Tx: 1, Amount: dec("10")})
	suite.applyOK(&domain.Withdrawal{Client: 1, Tx: 2, Amount: dec("4")})
	suite.applyOK(&domain.Dispute{Client: 1, Tx: 1})
	suite.assertBalances(1, "-4", "10", false)

	suite.applyOK(&domain.Resolve{Client: 1, Tx: 1})
	suite.applyOK(&domain.Dispute{Client: 1, Tx: 1})
	suite.applyOK(&domain.Chargeback{Client: 1, Tx: 1})
	suite.assertBalances(1, "-4", "0", true)

	suite.applyRejected(&domain.Deposit{Client: 1, Tx: 3, Amount: dec("1")}, apperrors.AccountLocked)
}

func (suite *LedgerTestSuite) TestNilRecordsReturnError() {
	suite.applyOK(domain.Deposit{Client: 1, Tx: 1, Amount: dec("3")})

	records := map[string]domain.Transaction{
		"nil interface":  nil,
		"nil deposit":    (*domain.Deposit)(nil),
		"nil withdrawal": (*domain.Withdrawal)(nil),
		"nil dispute":    (*domain.Dispute)(nil),
		"nil resolve":    (*domain.Resolve)(nil),
		"nil chargeback": (*domain.Chargeback)(nil),
	}
	for name, tx := range records {
		suite.Run(name, func() {
			var err error
			suite.NotPanics(func() { _, err = suite.ledger.Apply(tx) })
			suite.ErrorIs(err, apperrors.ErrValidation)
			_, isProcessing := apperrors.ProcessingKindOf(err)
			suite.False(isProcessing)
		})
	}

	suite.Len(suite.ledger.Accounts(), 1)
	suite.assertBalances(1, "3", "0", false)
}
