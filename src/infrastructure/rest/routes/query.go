package routes

import (
	queryController "dispatch-ledger-api/src/infrastructure/rest/controllers/query"
	"dispatch-ledger-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func QueryRoutes(router *gin.RouterGroup, controller queryController.IQueryController) {
	b := router.Group("/batches")
	b.Use(middlewares.AuthJWTMiddleware())
	{
		b.GET("/count", controller.GetTotalBatchCount)
		b.GET("/:id", controller.GetBatch)
	}

	g := router.Group("/groups")
	g.Use(middlewares.AuthJWTMiddleware())
	{
		g.GET("/:id", controller.GetGroup)
	}

	t := router.Group("/templates")
	t.Use(middlewares.AuthJWTMiddleware())
	{
		t.GET("/:id", controller.GetTemplate)
	}

	u := router.Group("/users")
	u.Use(middlewares.AuthJWTMiddleware())
	{
		u.GET("/:address/batches", controller.GetUserBatches)
		u.GET("/:address/groups", controller.GetUserGroups)
		u.GET("/:address/templates", controller.GetUserTemplates)
	}
}

func NotificationRoutes(router *gin.RouterGroup, controller queryController.IQueryController) {
	n := router.Group("/notifications")
	n.Use(middlewares.AuthJWTMiddleware())
	{
		n.GET("/", controller.GetNotifications)
	}
}
