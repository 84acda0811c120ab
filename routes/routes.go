package routes

import (
	"net/http"

	"slotwise/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints of the scheduling engine.
func RegisterRoutes(
	r *gin.Engine,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	hostConfigHandler *handlers.HostConfigHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/availability/:hostID", availabilityHandler.GetDayAvailability)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.POST("/cancel/:token", bookingHandler.CancelBooking)
		}

		hosts := api.Group("/hosts")
		{
			hosts.POST("", hostConfigHandler.CreateHostConfig)
			hosts.GET("/:hostID", hostConfigHandler.GetHostConfig)
			hosts.PUT("/:hostID", hostConfigHandler.UpdateHostConfig)
			hosts.DELETE("/:hostID", hostConfigHandler.DeleteHostConfig)
		}
	}
}
