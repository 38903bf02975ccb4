package notification

import (
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainNotification "dispatch-ledger-api/src/domain/notification"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notification is the database model for the append-only notification log.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Kind      string    `gorm:"column:kind;size:32;index"`
	Payload   string    `gorm:"column:payload;type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime:mili"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationRepositoryInterface defines the interface for notification log reads
type NotificationRepositoryInterface interface {
	List(offset, limit int) ([]domainNotification.Record, error)
}

type NotificationRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewNotificationRepository(db *gorm.DB, loggerInstance *logger.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{DB: db, Logger: loggerInstance}
}

func (r *NotificationRepository) List(offset, limit int) ([]domainNotification.Record, error) {
	var models []Notification
	err := r.DB.Order("id asc").Offset(offset).Limit(limit).Find(&models).Error
	if err != nil {
		r.Logger.Error("Error listing notifications", zap.Error(err))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	records := make([]domainNotification.Record, 0, len(models))
	for _, model := range models {
		records = append(records, domainNotification.Record{
			ID:        model.ID,
			Kind:      model.Kind,
			Payload:   model.Payload,
			CreatedAt: model.CreatedAt,
		})
	}
	return records, nil
}

// Append writes records to the log inside the caller's transaction.
func Append(tx *gorm.DB, records []domainNotification.Record) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]Notification, 0, len(records))
	for _, record := range records {
		models = append(models, Notification{
			Kind:    record.Kind,
			Payload: record.Payload,
		})
	}
	return tx.Create(&models).Error
}
