package routes

import (
	"dispatch-ledger-api/src/infrastructure/di"
	treasuryController "dispatch-ledger-api/src/infrastructure/rest/controllers/treasury"
	"dispatch-ledger-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func TreasuryRoutes(router *gin.RouterGroup, controller treasuryController.ITreasuryController, appContext *di.ApplicationContext) {
	t := router.Group("/treasury")
	t.Use(middlewares.AuthJWTMiddleware())
	{
		// Treasury operations are restricted to administrators.
		adminCheck := middlewares.RequiresRoleMiddleware("admin", appContext.Logger)

		t.POST("/withdraw", adminCheck, controller.Withdraw)
		t.GET("/balance", adminCheck, controller.Balance)
	}
}
