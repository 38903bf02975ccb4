package batch

import (
	"encoding/json"
	"time"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainNotification "dispatch-ledger-api/src/domain/notification"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/notification"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/treasury"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Batch is the database model for dispatched batches. Recipients are stored
// as a JSON array preserving submission order and duplicates; the
// per-recipient slots live in delivery_statuses.
type Batch struct {
	ID           uint64    `gorm:"primaryKey"`
	Sender       string    `gorm:"column:sender;size:128;index"`
	Recipients   string    `gorm:"column:recipients;type:text"`
	Content      string    `gorm:"column:content;type:text"`
	Timestamp    uint64    `gorm:"column:timestamp"`
	MessageType  string    `gorm:"column:message_type;size:64"`
	Completed    bool      `gorm:"column:completed"`
	ResourceUsed uint64    `gorm:"column:resource_used"`
	CreatedAt    time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:mili"`
}

func (Batch) TableName() string {
	return "batches"
}

// DeliveryStatus is the database model for one per-recipient delivery slot.
// The composite key collapses duplicate recipients to a single slot.
type DeliveryStatus struct {
	BatchID   uint64 `gorm:"column:batch_id;primaryKey;autoIncrement:false"`
	Recipient string `gorm:"column:recipient;primaryKey;size:128"`
	Delivered bool   `gorm:"column:delivered"`
}

func (DeliveryStatus) TableName() string {
	return "delivery_statuses"
}

// BatchRepositoryInterface defines the interface for batch repository operations
type BatchRepositoryInterface interface {
	Commit(batchDomain *domainBatch.Batch, feePaid uint64, records []domainNotification.Record) (*domainBatch.Batch, error)
	GetByID(id uint64) (*domainBatch.Batch, error)
	GetDeliveryStatuses(batchID uint64) (map[string]bool, error)
	GetUserBatchIDs(sender string, offset, limit int) ([]uint64, error)
	Count() (uint64, error)
}

type BatchRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewBatchRepository(db *gorm.DB, loggerInstance *logger.Logger) BatchRepositoryInterface {
	return &BatchRepository{DB: db, Logger: loggerInstance}
}

// Commit writes one validated dispatch as a single transaction: the batch id
// counter advances, the batch row and its delivery slots are inserted, the
// paid fee is credited to the treasury, and the notification records are
// appended. Any failure rolls the whole dispatch back.
func (r *BatchRepository) Commit(batchDomain *domainBatch.Batch, feePaid uint64, records []domainNotification.Record) (*domainBatch.Batch, error) {
	model, err := batchFromDomainMapper(batchDomain)
	if err != nil {
		r.Logger.Error("Error encoding batch recipients", zap.Error(err), zap.Uint64("id", batchDomain.ID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	slots := deliverySlots(batchDomain)

	err = r.DB.Transaction(func(tx *gorm.DB) error {
		if err := counter.Advance(tx, counter.ScopeBatch, batchDomain.ID); err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if err := tx.Create(&slots).Error; err != nil {
			return err
		}
		if err := treasury.Credit(tx, feePaid); err != nil {
			return err
		}
		if err := notification.Append(tx, records); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		r.Logger.Error("Error committing batch", zap.Error(err), zap.Uint64("id", batchDomain.ID), zap.String("sender", batchDomain.Sender))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	r.Logger.Info("Committed batch",
		zap.Uint64("id", batchDomain.ID),
		zap.String("sender", batchDomain.Sender),
		zap.Int("recipients", len(batchDomain.Recipients)))
	return model.toDomainMapper()
}

func (r *BatchRepository) GetByID(id uint64) (*domainBatch.Batch, error) {
	var model Batch
	err := r.DB.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Batch not found", zap.Uint64("id", id))
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
		}
		r.Logger.Error("Error getting batch by ID", zap.Error(err), zap.Uint64("id", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return model.toDomainMapper()
}

func (r *BatchRepository) GetDeliveryStatuses(batchID uint64) (map[string]bool, error) {
	var slots []DeliveryStatus
	err := r.DB.Where("batch_id = ?", batchID).Find(&slots).Error
	if err != nil {
		r.Logger.Error("Error getting delivery statuses", zap.Error(err), zap.Uint64("batchID", batchID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	statuses := make(map[string]bool, len(slots))
	for _, slot := range slots {
		statuses[slot.Recipient] = slot.Delivered
	}
	return statuses, nil
}

// GetUserBatchIDs returns the sender's batch index slice in creation order.
func (r *BatchRepository) GetUserBatchIDs(sender string, offset, limit int) ([]uint64, error) {
	ids := []uint64{}
	err := r.DB.Model(&Batch{}).
		Where("sender = ?", sender).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		r.Logger.Error("Error getting user batch ids", zap.Error(err), zap.String("sender", sender))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return ids, nil
}

func (r *BatchRepository) Count() (uint64, error) {
	var count int64
	err := r.DB.Model(&Batch{}).Count(&count).Error
	if err != nil {
		r.Logger.Error("Error counting batches", zap.Error(err))
		return 0, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return uint64(count), nil
}

func batchFromDomainMapper(b *domainBatch.Batch) (*Batch, error) {
	recipients, err := json.Marshal(b.Recipients)
	if err != nil {
		return nil, err
	}
	return &Batch{
		ID:           b.ID,
		Sender:       b.Sender,
		Recipients:   string(recipients),
		Content:      b.Content,
		Timestamp:    b.Timestamp,
		MessageType:  b.MessageType,
		Completed:    b.Completed,
		ResourceUsed: b.ResourceUsed,
	}, nil
}

func (b *Batch) toDomainMapper() (*domainBatch.Batch, error) {
	var recipients []string
	if err := json.Unmarshal([]byte(b.Recipients), &recipients); err != nil {
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return &domainBatch.Batch{
		ID:           b.ID,
		Sender:       b.Sender,
		Recipients:   recipients,
		Content:      b.Content,
		Timestamp:    b.Timestamp,
		MessageType:  b.MessageType,
		Completed:    b.Completed,
		ResourceUsed: b.ResourceUsed,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}, nil
}

// deliverySlots builds the per-recipient slots for a batch, collapsing
// duplicate recipients to one row.
func deliverySlots(b *domainBatch.Batch) []DeliveryStatus {
	seen := make(map[string]bool, len(b.Recipients))
	slots := make([]DeliveryStatus, 0, len(b.Recipients))
	for _, recipient := range b.Recipients {
		if seen[recipient] {
			continue
		}
		seen[recipient] = true
		slots = append(slots, DeliveryStatus{
			BatchID:   b.ID,
			Recipient: recipient,
			Delivered: false,
		})
	}
	return slots
}
