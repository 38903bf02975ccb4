package routes

import (
	dispatchController "dispatch-ledger-api/src/infrastructure/rest/controllers/dispatch"
	"dispatch-ledger-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func DispatchRoutes(router *gin.RouterGroup, controller dispatchController.IDispatchController) {
	d := router.Group("/dispatch")
	d.Use(middlewares.AuthJWTMiddleware())
	{
		d.POST("/direct", controller.DispatchDirect)
		d.POST("/group", controller.DispatchToGroup)
		d.POST("/template", controller.DispatchWithTemplate)
	}
}
