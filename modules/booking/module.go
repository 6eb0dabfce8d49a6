package booking

import (
	"time"

	"woki-api/core/cache"
	"woki-api/core/config"
	"woki-api/core/database"
	"woki-api/core/lock"
	"woki-api/modules/booking/controller"
	"woki-api/modules/booking/repository"
	"woki-api/modules/booking/router"
	"woki-api/modules/booking/service"
	venuerepository "woki-api/modules/venue/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the booking module. The venue repository is shared so the engine
// reads inventory through the same store the venue module writes. Returns the
// service so background jobs can call into it.
func Init(e *echo.Echo, db database.Database, c cache.Cache, locks *lock.Registry, venues *venuerepository.VenueRepository, notifier service.Notifier, cfg config.BookingConfig) service.BookingService {
	repo := repository.NewBookingRepository(&db)
	idem := repository.NewIdempotencyRepository(c)

	svc := service.NewBookingService(repo, venues, idem, locks, notifier,
		service.WithLargeGroupThreshold(cfg.LargeGroupThreshold),
		service.WithWaitlistTTL(time.Duration(cfg.WaitlistTTLMinutes)*time.Minute),
		service.WithIdempotencyTTL(time.Duration(cfg.IdempotencyTTLMinutes)*time.Minute),
		service.WithResultLimit(cfg.ResultLimit),
	)

	ctrl := controller.NewBookingController(svc)
	router.NewBookingRouter(ctrl).Setup(e)
	return svc
}
