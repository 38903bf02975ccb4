package user

import (
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainUser "dispatch-ledger-api/src/domain/user"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// User is the database model for identity accounts.
type User struct {
	ID           int       `gorm:"primaryKey"`
	Address      string    `gorm:"column:address;size:128;uniqueIndex"`
	HashPassword string    `gorm:"column:hash_password"`
	Role         string    `gorm:"column:role;size:16"`
	Status       bool      `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:mili"`
}

func (User) TableName() string {
	return "users"
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	GetByID(id int) (*domainUser.User, error)
	GetByAddress(address string) (*domainUser.User, error)
	Create(userDomain *domainUser.User) (*domainUser.User, error)
}

type UserRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewUserRepository(db *gorm.DB, loggerInstance *logger.Logger) UserRepositoryInterface {
	return &UserRepository{DB: db, Logger: loggerInstance}
}

func (r *UserRepository) GetByID(id int) (*domainUser.User, error) {
	var model User
	err := r.DB.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("User not found", zap.Int("id", id))
			return &domainUser.User{}, nil
		}
		r.Logger.Error("Error getting user by ID", zap.Error(err), zap.Int("id", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return model.toDomainMapper(), nil
}

func (r *UserRepository) GetByAddress(address string) (*domainUser.User, error) {
	var model User
	err := r.DB.Where("address = ?", address).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domainUser.User{}, nil
		}
		r.Logger.Error("Error getting user by address", zap.Error(err), zap.String("address", address))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return model.toDomainMapper(), nil
}

func (r *UserRepository) Create(userDomain *domainUser.User) (*domainUser.User, error) {
	model := userFromDomainMapper(userDomain)
	err := r.DB.Create(model).Error
	if err != nil {
		r.Logger.Error("Error creating user", zap.Error(err), zap.String("address", userDomain.Address))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	r.Logger.Info("Created user", zap.Int("id", model.ID), zap.String("address", model.Address))
	return model.toDomainMapper(), nil
}

func userFromDomainMapper(u *domainUser.User) *User {
	return &User{
		ID:           u.ID,
		Address:      u.Address,
		HashPassword: u.HashPassword,
		Role:         u.Role,
		Status:       u.Status,
	}
}

func (u *User) toDomainMapper() *domainUser.User {
	return &domainUser.User{
		ID:           u.ID,
		Address:      u.Address,
		HashPassword: u.HashPassword,
		Role:         u.Role,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
