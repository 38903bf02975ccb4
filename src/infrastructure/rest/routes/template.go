package routes

import (
	templateController "dispatch-ledger-api/src/infrastructure/rest/controllers/template"
	"dispatch-ledger-api/src/infrastructure/rest/middlewares"

	"github.com/gin-gonic/gin"
)

func TemplateRoutes(router *gin.RouterGroup, controller templateController.ITemplateController) {
	t := router.Group("/templates")
	t.Use(middlewares.AuthJWTMiddleware())
	{
		t.POST("/", controller.CreateTemplate)
	}
}
