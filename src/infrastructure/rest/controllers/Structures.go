package controllers

import "github.com/gin-gonic/gin"

// MessageResponse is the generic error/info body returned by the API.
type MessageResponse struct {
	Message string `json:"message"`
}

// BindJSON binds the request body into the given DTO.
func BindJSON(ctx *gin.Context, request any) error {
	return ctx.ShouldBindJSON(request)
}
