package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes. Most
// modules only touch api; root is for public page routes.
type Module interface {
	Register(root, api *gin.RouterGroup)
}
