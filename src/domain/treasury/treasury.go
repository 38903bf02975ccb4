package treasury

import "time"

// DefaultDispatchFee is the fixed per-dispatch charge in fee units. It can be
// overridden through the ledger config file.
const DefaultDispatchFee uint64 = 10

// Withdrawal records one completed transfer of the accumulated balance to the
// administrator.
type Withdrawal struct {
	ID        uint64
	Reference string
	Admin     string
	Amount    uint64
	CreatedAt time.Time
}

// FundTransferrer moves collected fees to an external settlement destination.
// Implementations live at the infrastructure boundary; the transfer is always
// the last step of a withdrawal so a failure can still abort the operation.
type FundTransferrer interface {
	Transfer(to string, amount uint64, reference string) error
}

// ITreasuryService defines the fee treasury operations.
type ITreasuryService interface {
	Withdraw(caller, callerRole string) (*Withdrawal, error)
	Balance(caller, callerRole string) (uint64, error)
}
