package routes

import (
	groupController "dispatch-ledger-api/src/infrastructure/rest/controllers/group"
	"dispatch-ledger-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func GroupRoutes(router *gin.RouterGroup, controller groupController.IGroupController) {
	g := router.Group("/groups")
	g.Use(middlewares.AuthJWTMiddleware())
	{
		g.POST("/", controller.CreateGroup)
		g.POST("/:id/members", controller.AddMember)
		g.DELETE("/:id/members/:member", controller.RemoveMember)
	}
}
