package notification

import (
	"woki-api/core/database"
	"woki-api/modules/notification/controller"
	"woki-api/modules/notification/repository"
	"woki-api/modules/notification/router"
	"woki-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init wires the notification module and returns its service, which the
// booking module uses as its lifecycle-event sink.
func Init(e *echo.Echo, db database.Database) *service.NotificationService {
	repo := repository.NewNotificationRepository(&db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e)
	return svc
}
