package template

import (
	"errors"
	"net/http"

	useCaseTemplate "dispatch-ledger-api/src/application/usecases/template"
	"dispatch-ledger-api/src/domain/common"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ITemplateController interface {
	CreateTemplate(ctx *gin.Context)
}

type TemplateController struct {
	commonService   common.CommonService
	templateUseCase useCaseTemplate.ITemplateUseCase
	Logger          *logger.Logger
}

func NewTemplateController(
	commonService common.CommonService,
	templateUseCase useCaseTemplate.ITemplateUseCase,
	loggerInstance *logger.Logger,
) ITemplateController {
	return &TemplateController{
		commonService:   commonService,
		templateUseCase: templateUseCase,
		Logger:          loggerInstance,
	}
}

func (c *TemplateController) CreateTemplate(ctx *gin.Context) {
	var request CreateTemplateRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process template creation - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	creator := ctx.GetString("callerAddress")
	created, err := c.templateUseCase.CreateTemplate(creator, request.Name, request.Content, request.Public)
	if err != nil {
		c.Logger.Error("Template creation failed", zap.Error(err), zap.String("creator", creator))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, TemplateToResponse(created))
}

// TemplateToResponse maps a domain template to its API representation.
func TemplateToResponse(t *domainTemplate.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		Creator:   t.Creator,
		CreatedAt: t.CreatedAt,
		Public:    t.Public,
	}
}
