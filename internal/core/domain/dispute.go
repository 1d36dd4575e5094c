package domain

// DisputeStatus is the lifecycle position of a stored transfer.
//
//	Normal -> Disputed -> Resolved -> Disputed ...
//	                   -> ChargedBack (terminal)
type DisputeStatus int

const (
	Normal DisputeStatus = iota
	Disputed
	Resolved
	ChargedBack
)

func (s DisputeStatus) String() string {
	switch s {
	case Normal:
		return "NORMAL"
	case Disputed:
		return "DISPUTED"
	case Resolved:
		return "RESOLVED"
	case ChargedBack:
		return "CHARGED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of a record the ledger accepted.
type Outcome int

const (
	// Applied means the record changed ledger state.
	Applied Outcome = iota
	// Ignored means the record was valid but had no effect, e.g. a repeated dispute.
	Ignored
)

func (o Outcome) String() string {
	if o == Ignored {
		return "IGNORED"
	}
	return "APPLIED"
}
