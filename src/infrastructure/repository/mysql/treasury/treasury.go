package treasury

import (
	"errors"
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTreasury "dispatch-ledger-api/src/domain/treasury"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SingletonID is the primary key of the single treasury row.
const SingletonID = 1

// Treasury is the database model for the accumulated fee balance.
type Treasury struct {
	ID      int    `gorm:"primaryKey"`
	Balance uint64 `gorm:"column:balance;not null"`
}

func (Treasury) TableName() string {
	return "treasury"
}

// Withdrawal records one completed balance transfer to the administrator.
type Withdrawal struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Reference string    `gorm:"column:reference;size:64;uniqueIndex"`
	Admin     string    `gorm:"column:admin;size:128"`
	Amount    uint64    `gorm:"column:amount"`
	CreatedAt time.Time `gorm:"autoCreateTime:mili"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// TreasuryRepositoryInterface defines the interface for treasury repository operations
type TreasuryRepositoryInterface interface {
	Balance() (uint64, error)
	WithdrawAll(admin, reference string, transferrer domainTreasury.FundTransferrer) (*domainTreasury.Withdrawal, error)
}

type TreasuryRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewTreasuryRepository(db *gorm.DB, loggerInstance *logger.Logger) TreasuryRepositoryInterface {
	return &TreasuryRepository{DB: db, Logger: loggerInstance}
}

func (r *TreasuryRepository) Balance() (uint64, error) {
	var model Treasury
	err := r.DB.Where("id = ?", SingletonID).First(&model).Error
	if err != nil {
		r.Logger.Error("Error reading treasury balance", zap.Error(err))
		return 0, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return model.Balance, nil
}

// WithdrawAll moves the whole accumulated balance to the administrator in one
// transaction. The internal effects (balance zeroed, withdrawal recorded) are
// written first; the external transfer runs last and a transfer failure rolls
// everything back so the balance stays intact for a retry.
func (r *TreasuryRepository) WithdrawAll(admin, reference string, transferrer domainTreasury.FundTransferrer) (*domainTreasury.Withdrawal, error) {
	var result *domainTreasury.Withdrawal
	var transferErr error

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var model Treasury
		if err := tx.Where("id = ?", SingletonID).First(&model).Error; err != nil {
			return err
		}
		if model.Balance == 0 {
			return domainErrors.NewAppErrorWithType(domainErrors.InvalidState)
		}

		amount := model.Balance
		res := tx.Model(&Treasury{}).
			Where("id = ? AND balance = ?", SingletonID, amount).
			Update("balance", 0)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errors.New("treasury balance changed during withdrawal")
		}

		withdrawal := &Withdrawal{
			Reference: reference,
			Admin:     admin,
			Amount:    amount,
		}
		if err := tx.Create(withdrawal).Error; err != nil {
			return err
		}

		if err := transferrer.Transfer(admin, amount, reference); err != nil {
			transferErr = err
			return err
		}

		result = withdrawal.toDomainMapper()
		return nil
	})
	if err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if transferErr != nil {
			r.Logger.Error("Withdrawal transfer failed, balance restored", zap.Error(transferErr), zap.String("reference", reference))
			return nil, domainErrors.NewAppError(transferErr, domainErrors.TransferFailed)
		}
		r.Logger.Error("Error withdrawing treasury balance", zap.Error(err), zap.String("reference", reference))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	r.Logger.Info("Treasury balance withdrawn",
		zap.String("admin", admin),
		zap.Uint64("amount", result.Amount),
		zap.String("reference", reference))
	return result, nil
}

// Credit adds a collected fee to the balance inside the caller's dispatch
// transaction.
func Credit(tx *gorm.DB, amount uint64) error {
	res := tx.Exec("UPDATE treasury SET balance = balance + ? WHERE id = ?", amount, SingletonID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errors.New("treasury row missing")
	}
	return nil
}

func (w *Withdrawal) toDomainMapper() *domainTreasury.Withdrawal {
	return &domainTreasury.Withdrawal{
		ID:        w.ID,
		Reference: w.Reference,
		Admin:     w.Admin,
		Amount:    w.Amount,
		CreatedAt: w.CreatedAt,
	}
}
