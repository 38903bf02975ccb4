package query

import (
	"fmt"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	domainNotification "dispatch-ledger-api/src/domain/notification"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	batchRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/batch"
	groupRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/group"
	notificationRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/notification"
	templateRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/template"
)

// BatchDetails is a batch together with its per-recipient delivery slots.
type BatchDetails struct {
	Batch          *domainBatch.Batch
	DeliveryStatus map[string]bool
}

// IQueryUseCase is the read side of the register. Reads never mutate state
// and do not take the register lock; each call is a single consistent read.
type IQueryUseCase interface {
	GetBatch(id uint64) (*BatchDetails, error)
	GetGroup(id uint64) (*domainGroup.Group, error)
	GetTemplate(caller string, id uint64) (*domainTemplate.Template, error)
	GetUserBatches(user string, offset, limit int) ([]uint64, error)
	GetUserGroups(user string) ([]uint64, error)
	GetUserTemplates(user string) ([]uint64, error)
	GetTotalBatchCount() (uint64, error)
	GetNotifications(offset, limit int) ([]domainNotification.Record, error)
}

type QueryUseCase struct {
	batchRepository        batchRepo.BatchRepositoryInterface
	groupRepository        groupRepo.GroupRepositoryInterface
	templateRepository     templateRepo.TemplateRepositoryInterface
	notificationRepository notificationRepo.NotificationRepositoryInterface
	Logger                 *logger.Logger
}

func NewQueryUseCase(
	batchRepository batchRepo.BatchRepositoryInterface,
	groupRepository groupRepo.GroupRepositoryInterface,
	templateRepository templateRepo.TemplateRepositoryInterface,
	notificationRepository notificationRepo.NotificationRepositoryInterface,
	loggerInstance *logger.Logger,
) IQueryUseCase {
	return &QueryUseCase{
		batchRepository:        batchRepository,
		groupRepository:        groupRepository,
		templateRepository:     templateRepository,
		notificationRepository: notificationRepository,
		Logger:                 loggerInstance,
	}
}

func (u *QueryUseCase) GetBatch(id uint64) (*BatchDetails, error) {
	if id == 0 {
		return nil, domainErrors.NewAppError(fmt.Errorf("batch id 0 does not exist"), domainErrors.NotFound)
	}
	batch, err := u.batchRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	statuses, err := u.batchRepository.GetDeliveryStatuses(id)
	if err != nil {
		return nil, err
	}
	return &BatchDetails{
		Batch:          batch,
		DeliveryStatus: statuses,
	}, nil
}

func (u *QueryUseCase) GetGroup(id uint64) (*domainGroup.Group, error) {
	if id == 0 {
		return nil, domainErrors.NewAppError(fmt.Errorf("group id 0 does not exist"), domainErrors.NotFound)
	}
	return u.groupRepository.GetByID(id)
}

// GetTemplate returns the template when the caller may read it: the creator
// always can, everyone else only when it is public.
func (u *QueryUseCase) GetTemplate(caller string, id uint64) (*domainTemplate.Template, error) {
	if id == 0 {
		return nil, domainErrors.NewAppError(fmt.Errorf("template id 0 does not exist"), domainErrors.NotFound)
	}
	template, err := u.templateRepository.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !template.ReadableBy(caller) {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("template %d is private", id),
			domainErrors.NotAuthorized)
	}
	return template, nil
}

// GetUserBatches pages through the sender's batch index in creation order.
// An offset at or past the end yields an empty slice, never an error.
func (u *QueryUseCase) GetUserBatches(user string, offset, limit int) ([]uint64, error) {
	if offset < 0 || limit < 0 {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("offset and limit must not be negative"),
			domainErrors.ValidationError)
	}
	if limit == 0 {
		return []uint64{}, nil
	}
	return u.batchRepository.GetUserBatchIDs(user, offset, limit)
}

func (u *QueryUseCase) GetUserGroups(user string) ([]uint64, error) {
	return u.groupRepository.GetUserGroupIDs(user)
}

func (u *QueryUseCase) GetUserTemplates(user string) ([]uint64, error) {
	return u.templateRepository.GetUserTemplateIDs(user)
}

func (u *QueryUseCase) GetTotalBatchCount() (uint64, error) {
	return u.batchRepository.Count()
}

func (u *QueryUseCase) GetNotifications(offset, limit int) ([]domainNotification.Record, error) {
	if offset < 0 || limit < 0 {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("offset and limit must not be negative"),
			domainErrors.ValidationError)
	}
	if limit == 0 {
		return []domainNotification.Record{}, nil
	}
	return u.notificationRepository.List(offset, limit)
}
