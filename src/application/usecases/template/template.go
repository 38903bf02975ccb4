package template

import (
	"fmt"
	"sync"
	"time"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	counterRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	templateRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/template"

	"go.uber.org/zap"
)

// ITemplateUseCase defines the template registry operations. Templates are
// immutable after creation; there is no update or delete.
type ITemplateUseCase interface {
	CreateTemplate(creator, name, content string, public bool) (*domainTemplate.Template, error)
}

type TemplateUseCase struct {
	templateRepository templateRepo.TemplateRepositoryInterface
	counterRepository  counterRepo.CounterRepositoryInterface
	registerLock       *sync.Mutex
	Logger             *logger.Logger
}

func NewTemplateUseCase(
	templateRepository templateRepo.TemplateRepositoryInterface,
	counterRepository counterRepo.CounterRepositoryInterface,
	registerLock *sync.Mutex,
	loggerInstance *logger.Logger,
) ITemplateUseCase {
	return &TemplateUseCase{
		templateRepository: templateRepository,
		counterRepository:  counterRepository,
		registerLock:       registerLock,
		Logger:             loggerInstance,
	}
}

func (u *TemplateUseCase) CreateTemplate(creator, name, content string, public bool) (*domainTemplate.Template, error) {
	if name == "" {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("template name must not be empty"),
			domainErrors.ValidationError)
	}
	if len(content) == 0 {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("template content is empty"),
			domainErrors.ValidationError)
	}
	if len(content) > domainBatch.MaxContentBytes {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("template content exceeds %d bytes", domainBatch.MaxContentBytes),
			domainErrors.ValidationError)
	}

	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	id, err := u.counterRepository.Current(counterRepo.ScopeTemplate)
	if err != nil {
		return nil, err
	}

	created, err := u.templateRepository.Create(&domainTemplate.Template{
		ID:        id,
		Name:      name,
		Content:   content,
		Creator:   creator,
		CreatedAt: uint64(time.Now().Unix()),
		Public:    public,
	})
	if err != nil {
		return nil, err
	}

	u.Logger.Info("Template created",
		zap.Uint64("id", created.ID),
		zap.String("creator", creator),
		zap.Bool("public", public))
	return created, nil
}
