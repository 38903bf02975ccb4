package auth

import (
	"net/http"

	useCaseAuth "dispatch-ledger-api/src/application/usecases/auth"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IAuthController interface {
	Login(ctx *gin.Context)
	GetAccessTokenByRefreshToken(ctx *gin.Context)
}

type AuthController struct {
	authUseCase useCaseAuth.IAuthUseCase
	Logger      *logger.Logger
}

func NewAuthController(authUsecase useCaseAuth.IAuthUseCase, loggerInstance *logger.Logger) IAuthController {
	return &AuthController{
		authUseCase: authUsecase,
		Logger:      loggerInstance,
	}
}

func (c *AuthController) Login(ctx *gin.Context) {
	c.Logger.Info("User login request")
	var request LoginRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Error binding JSON for login", zap.Error(err))
		appError := domainErrors.NewAppError(err, domainErrors.ValidationError)
		_ = ctx.Error(appError)
		return
	}

	domainUser, authTokens, err := c.authUseCase.Login(request.Address, request.Password)
	if err != nil {
		c.Logger.Error("Login failed", zap.Error(err), zap.String("address", request.Address))
		_ = ctx.Error(err)
		return
	}

	response := LoginResponse{
		Data: UserData{
			ID:      domainUser.ID,
			Address: domainUser.Address,
			Role:    domainUser.Role,
			Status:  domainUser.Status,
		},
		Security: SecurityData{
			JWTAccessToken:            authTokens.AccessToken,
			JWTRefreshToken:           authTokens.RefreshToken,
			ExpirationAccessDateTime:  authTokens.ExpirationAccessDateTime,
			ExpirationRefreshDateTime: authTokens.ExpirationRefreshDateTime,
		},
	}

	c.Logger.Info("Login successful", zap.String("address", request.Address), zap.Int("userID", domainUser.ID))
	ctx.JSON(http.StatusOK, response)
}

func (c *AuthController) GetAccessTokenByRefreshToken(ctx *gin.Context) {
	c.Logger.Info("Token refresh request")
	var request AccessTokenRequest
	if err := controllers.BindJSON(ctx, &request); err != nil {
		c.Logger.Error("Error binding JSON for token refresh", zap.Error(err))
		appError := domainErrors.NewAppError(err, domainErrors.ValidationError)
		_ = ctx.Error(appError)
		return
	}

	domainUser, authTokens, err := c.authUseCase.AccessTokenByRefreshToken(request.RefreshToken)
	if err != nil {
		c.Logger.Error("Token refresh failed", zap.Error(err))
		_ = ctx.Error(err)
		return
	}

	response := LoginResponse{
		Data: UserData{
			ID:      domainUser.ID,
			Address: domainUser.Address,
			Role:    domainUser.Role,
			Status:  domainUser.Status,
		},
		Security: SecurityData{
			JWTAccessToken:            authTokens.AccessToken,
			JWTRefreshToken:           authTokens.RefreshToken,
			ExpirationAccessDateTime:  authTokens.ExpirationAccessDateTime,
			ExpirationRefreshDateTime: authTokens.ExpirationRefreshDateTime,
		},
	}

	c.Logger.Info("Token refresh successful", zap.Int("userID", domainUser.ID))
	ctx.JSON(http.StatusOK, response)
}
