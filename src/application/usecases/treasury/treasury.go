package treasury

import (
	"fmt"
	"sync"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTreasury "dispatch-ledger-api/src/domain/treasury"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/metrics"
	treasuryRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/treasury"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// AdminRole is the role allowed to operate the treasury.
const AdminRole = "admin"

// ITreasuryUseCase defines the fee treasury operations.
type ITreasuryUseCase interface {
	Withdraw(caller, callerRole string) (*domainTreasury.Withdrawal, error)
	Balance(caller, callerRole string) (uint64, error)
}

type TreasuryUseCase struct {
	treasuryRepository treasuryRepo.TreasuryRepositoryInterface
	transferrer        domainTreasury.FundTransferrer
	registerLock       *sync.Mutex
	Logger             *logger.Logger
}

func NewTreasuryUseCase(
	treasuryRepository treasuryRepo.TreasuryRepositoryInterface,
	transferrer domainTreasury.FundTransferrer,
	registerLock *sync.Mutex,
	loggerInstance *logger.Logger,
) ITreasuryUseCase {
	return &TreasuryUseCase{
		treasuryRepository: treasuryRepository,
		transferrer:        transferrer,
		registerLock:       registerLock,
		Logger:             loggerInstance,
	}
}

// Withdraw transfers the whole accumulated balance to the administrator. The
// register lock spans the balance check, the internal writes and the external
// transfer, so no caller can observe the intermediate state or re-enter.
func (u *TreasuryUseCase) Withdraw(caller, callerRole string) (*domainTreasury.Withdrawal, error) {
	if err := checkAdmin(callerRole); err != nil {
		u.Logger.Warn("Withdrawal rejected: caller is not an administrator", zap.String("caller", caller))
		return nil, err
	}

	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	reference, err := uuid.NewV4()
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}

	withdrawal, err := u.treasuryRepository.WithdrawAll(caller, reference.String(), u.transferrer)
	if err != nil {
		return nil, err
	}

	metrics.SetTreasuryBalance(0)
	u.Logger.Info("Withdrawal completed",
		zap.String("admin", caller),
		zap.Uint64("amount", withdrawal.Amount),
		zap.String("reference", withdrawal.Reference))
	return withdrawal, nil
}

func (u *TreasuryUseCase) Balance(caller, callerRole string) (uint64, error) {
	if err := checkAdmin(callerRole); err != nil {
		return 0, err
	}
	balance, err := u.treasuryRepository.Balance()
	if err != nil {
		return 0, err
	}
	metrics.SetTreasuryBalance(balance)
	return balance, nil
}

// checkAdmin is the administrator-only guard.
func checkAdmin(callerRole string) error {
	if callerRole != AdminRole {
		return domainErrors.NewAppError(
			fmt.Errorf("only the administrator may operate the treasury"),
			domainErrors.NotAuthorized)
	}
	return nil
}
