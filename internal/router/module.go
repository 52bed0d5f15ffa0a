package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes on the API group. Protected routes
// attach middleware.Auth themselves.
type Module interface {
	Register(rg *gin.RouterGroup)
}
