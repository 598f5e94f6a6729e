package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/controllers"
)

// RegisterBookingRoutes registers the booking form and its submission.
// throttle runs ahead of the per-client limiter inside Book.
func RegisterBookingRoutes(router *gin.Engine, bc *controllers.BookingController, throttle gin.HandlerFunc) {
	router.GET("/", bc.ShowForm)
	router.POST("/book", throttle, bc.Book)
}
