package treasury

import (
	"net/http"
	"time"

	useCaseTreasury "dispatch-ledger-api/src/application/usecases/treasury"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ITreasuryController interface {
	Withdraw(ctx *gin.Context)
	Balance(ctx *gin.Context)
}

type TreasuryController struct {
	treasuryUseCase useCaseTreasury.ITreasuryUseCase
	Logger          *logger.Logger
}

func NewTreasuryController(treasuryUseCase useCaseTreasury.ITreasuryUseCase, loggerInstance *logger.Logger) ITreasuryController {
	return &TreasuryController{
		treasuryUseCase: treasuryUseCase,
		Logger:          loggerInstance,
	}
}

// Withdraw drains the accumulated fee balance to the calling administrator.
func (c *TreasuryController) Withdraw(ctx *gin.Context) {
	caller := ctx.GetString("callerAddress")
	callerRole := ctx.GetString("callerRole")
	c.Logger.Info("Treasury withdrawal request", zap.String("caller", caller))

	withdrawal, err := c.treasuryUseCase.Withdraw(caller, callerRole)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, &WithdrawalResponse{
		ID:        withdrawal.ID,
		Reference: withdrawal.Reference,
		Admin:     withdrawal.Admin,
		Amount:    withdrawal.Amount,
		CreatedAt: withdrawal.CreatedAt.Format(time.RFC3339),
	})
}

func (c *TreasuryController) Balance(ctx *gin.Context) {
	caller := ctx.GetString("callerAddress")
	callerRole := ctx.GetString("callerRole")

	balance, err := c.treasuryUseCase.Balance(caller, callerRole)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, &BalanceResponse{Balance: balance})
}
