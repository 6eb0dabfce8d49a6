package router

import (
	"woki-api/modules/venue/controller"

	"github.com/labstack/echo/v4"
)

type VenueRouter struct {
	Controller *controller.VenueController
}

func NewVenueRouter(ctrl *controller.VenueController) *VenueRouter {
	return &VenueRouter{Controller: ctrl}
}

func (r *VenueRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/venues", r.Controller.CreateVenue)
	v1.GET("/venues/:id", r.Controller.GetVenue)
	v1.POST("/venues/:id/sectors", r.Controller.CreateSector)
	v1.POST("/sectors/:id/tables", r.Controller.CreateTable)
	v1.POST("/tables/:id/blackouts", r.Controller.CreateBlackout)
	v1.DELETE("/blackouts/:id", r.Controller.DeleteBlackout)
}
