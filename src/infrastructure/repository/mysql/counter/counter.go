package counter

import (
	"errors"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Counter scopes. Each scope has its own independent monotonic id space.
const (
	ScopeBatch    = "batch"
	ScopeGroup    = "group"
	ScopeTemplate = "template"
)

// Counter is the database model for an id counter. Value is the next id to
// issue; counters are seeded at 1.
type Counter struct {
	Scope string `gorm:"primaryKey;size:16"`
	Value uint64 `gorm:"column:value;not null"`
}

func (Counter) TableName() string {
	return "counters"
}

// CounterRepositoryInterface exposes the read side of the allocator. The
// advance happens inside the owning entity's create transaction via Advance.
type CounterRepositoryInterface interface {
	Current(scope string) (uint64, error)
}

type CounterRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewCounterRepository(db *gorm.DB, loggerInstance *logger.Logger) CounterRepositoryInterface {
	return &CounterRepository{DB: db, Logger: loggerInstance}
}

// Current returns the id the scope will issue next without advancing it.
func (r *CounterRepository) Current(scope string) (uint64, error) {
	var c Counter
	err := r.DB.Where("scope = ?", scope).First(&c).Error
	if err != nil {
		r.Logger.Error("Error reading id counter", zap.Error(err), zap.String("scope", scope))
		return 0, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return c.Value, nil
}

// Advance moves the scope's counter past the issued id inside the caller's
// transaction. The guard on the current value makes a stale read fail the
// whole transaction instead of issuing a duplicate id.
func Advance(tx *gorm.DB, scope string, issued uint64) error {
	res := tx.Exec("UPDATE counters SET value = value + 1 WHERE scope = ? AND value = ?", scope, issued)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errors.New("id counter moved during operation")
	}
	return nil
}
