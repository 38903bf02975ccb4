package query

import (
	"net/http"
	"time"

	useCaseQuery "dispatch-ledger-api/src/application/usecases/query"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	groupController "dispatch-ledger-api/src/infrastructure/rest/controllers/group"
	templateController "dispatch-ledger-api/src/infrastructure/rest/controllers/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IQueryController interface {
	GetBatch(ctx *gin.Context)
	GetGroup(ctx *gin.Context)
	GetTemplate(ctx *gin.Context)
	GetUserBatches(ctx *gin.Context)
	GetUserGroups(ctx *gin.Context)
	GetUserTemplates(ctx *gin.Context)
	GetTotalBatchCount(ctx *gin.Context)
	GetNotifications(ctx *gin.Context)
}

type QueryController struct {
	queryUseCase useCaseQuery.IQueryUseCase
	Logger       *logger.Logger
}

func NewQueryController(queryUseCase useCaseQuery.IQueryUseCase, loggerInstance *logger.Logger) IQueryController {
	return &QueryController{
		queryUseCase: queryUseCase,
		Logger:       loggerInstance,
	}
}

func (c *QueryController) GetBatch(ctx *gin.Context) {
	var uri IDURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	details, err := c.queryUseCase.GetBatch(uri.ID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, &BatchDetailsResponse{
		ID:             details.Batch.ID,
		Sender:         details.Batch.Sender,
		Recipients:     details.Batch.Recipients,
		Content:        details.Batch.Content,
		Timestamp:      details.Batch.Timestamp,
		MessageType:    details.Batch.MessageType,
		Completed:      details.Batch.Completed,
		ResourceUsed:   details.Batch.ResourceUsed,
		DeliveryStatus: details.DeliveryStatus,
	})
}

func (c *QueryController) GetGroup(ctx *gin.Context) {
	var uri IDURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	group, err := c.queryUseCase.GetGroup(uri.ID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, groupController.GroupToResponse(group))
}

func (c *QueryController) GetTemplate(ctx *gin.Context) {
	var uri IDURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	caller := ctx.GetString("callerAddress")
	template, err := c.queryUseCase.GetTemplate(caller, uri.ID)
	if err != nil {
		c.Logger.Warn("Template read rejected", zap.Error(err), zap.Uint64("id", uri.ID), zap.String("caller", caller))
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, templateController.TemplateToResponse(template))
}

func (c *QueryController) GetUserBatches(ctx *gin.Context) {
	var uri UserURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}
	var page PageRequest
	if err := ctx.ShouldBindQuery(&page); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	ids, err := c.queryUseCase.GetUserBatches(uri.Address, page.Offset, page.Limit)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, &IDListResponse{IDs: ids})
}

func (c *QueryController) GetUserGroups(ctx *gin.Context) {
	var uri UserURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	ids, err := c.queryUseCase.GetUserGroups(uri.Address)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, &IDListResponse{IDs: ids})
}

func (c *QueryController) GetUserTemplates(ctx *gin.Context) {
	var uri UserURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	ids, err := c.queryUseCase.GetUserTemplates(uri.Address)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, &IDListResponse{IDs: ids})
}

func (c *QueryController) GetTotalBatchCount(ctx *gin.Context) {
	count, err := c.queryUseCase.GetTotalBatchCount()
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, &CountResponse{Count: count})
}

func (c *QueryController) GetNotifications(ctx *gin.Context) {
	var page PageRequest
	if err := ctx.ShouldBindQuery(&page); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	records, err := c.queryUseCase.GetNotifications(page.Offset, page.Limit)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	response := make([]NotificationResponse, 0, len(records))
	for _, record := range records {
		response = append(response, NotificationResponse{
			ID:        record.ID,
			Kind:      record.Kind,
			Payload:   record.Payload,
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
	}
	ctx.JSON(http.StatusOK, response)
}
