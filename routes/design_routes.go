package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/controllers"
)

// RegisterDesignRoutes registers the design-service OAuth flow and the
// design list proxy. The handlers answer 503 while the integration is off.
func RegisterDesignRoutes(router *gin.Engine, dc *controllers.DesignController) {
	auth := router.Group("/auth/canva")
	{
		auth.GET("", dc.Authorize)
		auth.GET("/callback", dc.Callback)
	}

	router.GET("/api/canva/designs", dc.Designs)
}
