package dispatch

import (
	"errors"
	"net/http"

	useCaseDispatch "dispatch-ledger-api/src/application/usecases/dispatch"
	domainBatch "dispatch-ledger-api/src/domain/batch"
	"dispatch-ledger-api/src/domain/common"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type IDispatchController interface {
	DispatchDirect(ctx *gin.Context)
	DispatchToGroup(ctx *gin.Context)
	DispatchWithTemplate(ctx *gin.Context)
}

type DispatchController struct {
	commonService   common.CommonService
	dispatchUseCase useCaseDispatch.IDispatchUseCase
	Logger          *logger.Logger
}

func NewDispatchController(
	commonService common.CommonService,
	dispatchUseCase useCaseDispatch.IDispatchUseCase,
	loggerInstance *logger.Logger,
) IDispatchController {
	return &DispatchController{
		commonService:   commonService,
		dispatchUseCase: dispatchUseCase,
		Logger:          loggerInstance,
	}
}

func (c *DispatchController) DispatchDirect(ctx *gin.Context) {
	var request DirectDispatchRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process dispatch request - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	sender := ctx.GetString("callerAddress")
	committed, err := c.dispatchUseCase.DispatchDirect(&domainBatch.DispatchRequest{
		Sender:      sender,
		Recipients:  request.Recipients,
		Content:     request.Content,
		MessageType: request.MessageType,
		Paid:        request.Paid,
	})
	if err != nil {
		c.Logger.Error("Direct dispatch failed", zap.Error(err), zap.String("sender", sender))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, batchToResponse(committed))
}

func (c *DispatchController) DispatchToGroup(ctx *gin.Context) {
	var request GroupDispatchRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process group dispatch request - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	sender := ctx.GetString("callerAddress")
	committed, err := c.dispatchUseCase.DispatchToGroup(&domainBatch.GroupDispatchRequest{
		Sender:      sender,
		GroupID:     request.GroupID,
		Content:     request.Content,
		MessageType: request.MessageType,
		Paid:        request.Paid,
	})
	if err != nil {
		c.Logger.Error("Group dispatch failed", zap.Error(err), zap.String("sender", sender), zap.Uint64("groupID", request.GroupID))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, batchToResponse(committed))
}

func (c *DispatchController) DispatchWithTemplate(ctx *gin.Context) {
	var request TemplateDispatchRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process template dispatch request - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	sender := ctx.GetString("callerAddress")
	committed, err := c.dispatchUseCase.DispatchWithTemplate(&domainBatch.TemplateDispatchRequest{
		Sender:      sender,
		TemplateID:  request.TemplateID,
		Recipients:  request.Recipients,
		MessageType: request.MessageType,
		Paid:        request.Paid,
	})
	if err != nil {
		c.Logger.Error("Template dispatch failed", zap.Error(err), zap.String("sender", sender), zap.Uint64("templateID", request.TemplateID))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, batchToResponse(committed))
}

func batchToResponse(b *domainBatch.Batch) *BatchResponse {
	return &BatchResponse{
		ID:           b.ID,
		Sender:       b.Sender,
		Recipients:   b.Recipients,
		Content:      b.Content,
		Timestamp:    b.Timestamp,
		MessageType:  b.MessageType,
		Completed:    b.Completed,
		ResourceUsed: b.ResourceUsed,
	}
}
