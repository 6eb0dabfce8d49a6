package router

import (
	"woki-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	Controller *controller.BookingController
}

func NewBookingRouter(ctrl *controller.BookingController) *BookingRouter {
	return &BookingRouter{Controller: ctrl}
}

func (r *BookingRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/booking/discover", r.Controller.Discover)
	v1.POST("/booking", r.Controller.Book)
	v1.GET("/booking", r.Controller.ListBookings)
	v1.GET("/booking/:id", r.Controller.GetBooking)
	v1.DELETE("/booking/:id", r.Controller.CancelBooking)
	v1.POST("/booking/:id/approve", r.Controller.ApproveBooking)
	v1.POST("/booking/:id/reject", r.Controller.RejectBooking)
}
