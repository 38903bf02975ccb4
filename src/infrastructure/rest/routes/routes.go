package routes

import (
	"net/http"

	"dispatch-ledger-api/src/infrastructure/di"

	"github.com/gin-gonic/gin"
)

func ApplicationRouter(router *gin.Engine, appContext *di.ApplicationContext) {
	v1 := router.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	AuthRoutes(v1, appContext.AuthController)
	DispatchRoutes(v1, appContext.DispatchController)
	GroupRoutes(v1, appContext.GroupController)
	TemplateRoutes(v1, appContext.TemplateController)
	QueryRoutes(v1, appContext.QueryController)
	TreasuryRoutes(v1, appContext.TreasuryController, appContext)
	NotificationRoutes(v1, appContext.QueryController)
}
