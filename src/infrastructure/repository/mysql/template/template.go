package template

import (
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/counter"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Template is the database model for message templates. Rows are immutable
// after creation; there is no update or delete path.
type Template struct {
	ID            uint64    `gorm:"primaryKey"`
	Name          string    `gorm:"column:name;size:255"`
	Content       string    `gorm:"column:content;type:text"`
	Creator       string    `gorm:"column:creator;size:128;index"`
	CreatedAtUnix uint64    `gorm:"column:created_at_unix"`
	Public        bool      `gorm:"column:public"`
	CreatedAt     time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:mili"`
}

func (Template) TableName() string {
	return "message_templates"
}

// TemplateRepositoryInterface defines the interface for template repository operations
type TemplateRepositoryInterface interface {
	Create(templateDomain *domainTemplate.Template) (*domainTemplate.Template, error)
	GetByID(id uint64) (*domainTemplate.Template, error)
	GetUserTemplateIDs(creator string) ([]uint64, error)
}

type TemplateRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewTemplateRepository(db *gorm.DB, loggerInstance *logger.Logger) TemplateRepositoryInterface {
	return &TemplateRepository{DB: db, Logger: loggerInstance}
}

func (r *TemplateRepository) Create(templateDomain *domainTemplate.Template) (*domainTemplate.Template, error) {
	model := templateFromDomainMapper(templateDomain)

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := counter.Advance(tx, counter.ScopeTemplate, templateDomain.ID); err != nil {
			return err
		}
		return tx.Create(model).Error
	})
	if err != nil {
		r.Logger.Error("Error creating template", zap.Error(err), zap.Uint64("id", templateDomain.ID), zap.String("creator", templateDomain.Creator))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	r.Logger.Info("Created template", zap.Uint64("id", templateDomain.ID), zap.String("creator", templateDomain.Creator), zap.Bool("public", templateDomain.Public))
	return model.toDomainMapper(), nil
}

func (r *TemplateRepository) GetByID(id uint64) (*domainTemplate.Template, error) {
	var model Template
	err := r.DB.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Template not found", zap.Uint64("id", id))
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
		}
		r.Logger.Error("Error getting template by ID", zap.Error(err), zap.Uint64("id", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return model.toDomainMapper(), nil
}

func (r *TemplateRepository) GetUserTemplateIDs(creator string) ([]uint64, error) {
	ids := []uint64{}
	err := r.DB.Model(&Template{}).
		Where("creator = ?", creator).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		r.Logger.Error("Error getting user template ids", zap.Error(err), zap.String("creator", creator))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return ids, nil
}

func templateFromDomainMapper(t *domainTemplate.Template) *Template {
	return &Template{
		ID:            t.ID,
		Name:          t.Name,
		Content:       t.Content,
		Creator:       t.Creator,
		CreatedAtUnix: t.CreatedAt,
		Public:        t.Public,
	}
}

func (t *Template) toDomainMapper() *domainTemplate.Template {
	return &domainTemplate.Template{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		Creator:   t.Creator,
		CreatedAt: t.CreatedAtUnix,
		Public:    t.Public,
	}
}
