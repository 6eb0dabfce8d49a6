package venue

import (
	"woki-api/core/database"
	"woki-api/modules/venue/controller"
	"woki-api/modules/venue/repository"
	"woki-api/modules/venue/router"
	"woki-api/modules/venue/service"

	"github.com/labstack/echo/v4"
)

// Init wires the venue module and returns its repository so the booking
// module can consume the inventory read contract.
func Init(e *echo.Echo, db database.Database) *repository.VenueRepository {
	repo := repository.NewVenueRepository(&db)
	svc := service.NewVenueService(repo)
	ctrl := controller.NewVenueController(svc)
	router.NewVenueRouter(ctrl).Setup(e)
	return repo
}
