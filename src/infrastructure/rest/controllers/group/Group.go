package group

import (
	"errors"
	"net/http"

	useCaseGroup "dispatch-ledger-api/src/application/usecases/group"
	"dispatch-ledger-api/src/domain/common"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type IGroupController interface {
	CreateGroup(ctx *gin.Context)
	AddMember(ctx *gin.Context)
	RemoveMember(ctx *gin.Context)
}

type GroupController struct {
	commonService common.CommonService
	groupUseCase  useCaseGroup.IGroupUseCase
	Logger        *logger.Logger
}

func NewGroupController(
	commonService common.CommonService,
	groupUseCase useCaseGroup.IGroupUseCase,
	loggerInstance *logger.Logger,
) IGroupController {
	return &GroupController{
		commonService: commonService,
		groupUseCase:  groupUseCase,
		Logger:        loggerInstance,
	}
}

func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var request CreateGroupRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process group creation - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	creator := ctx.GetString("callerAddress")
	created, err := c.groupUseCase.CreateGroup(creator, request.Name, request.Members)
	if err != nil {
		c.Logger.Error("Group creation failed", zap.Error(err), zap.String("creator", creator))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusCreated, GroupToResponse(created))
}

func (c *GroupController) AddMember(ctx *gin.Context) {
	var uri GroupURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	var request AddMemberRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Couldn't process member addition - invalid request", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			c.commonService.AppendValidationErrors(ctx, ve, request)
			return
		}
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	caller := ctx.GetString("callerAddress")
	updated, err := c.groupUseCase.AddMember(caller, uri.ID, request.Member)
	if err != nil {
		c.Logger.Error("Member addition failed", zap.Error(err), zap.Uint64("groupID", uri.ID), zap.String("caller", caller))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, GroupToResponse(updated))
}

func (c *GroupController) RemoveMember(ctx *gin.Context) {
	var uri MemberURIRequest
	if err := ctx.ShouldBindUri(&uri); err != nil {
		_ = ctx.Error(domainErrors.NewAppError(err, domainErrors.ValidationError))
		return
	}

	caller := ctx.GetString("callerAddress")
	updated, err := c.groupUseCase.RemoveMember(caller, uri.ID, uri.Member)
	if err != nil {
		c.Logger.Error("Member removal failed", zap.Error(err), zap.Uint64("groupID", uri.ID), zap.String("caller", caller))
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, GroupToResponse(updated))
}

func GroupToResponse(g *domainGroup.Group) *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		Creator:   g.Creator,
		CreatedAt: g.CreatedAt,
		Active:    g.Active,
	}
}
