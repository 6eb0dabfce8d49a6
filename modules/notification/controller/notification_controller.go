package controller

import (
	"strconv"

	"woki-api/core/controller"
	"woki-api/core/errors"
	"woki-api/core/params"
	"woki-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	controller.BaseController
	NotificationService *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

func (n *NotificationController) ListNotifications(c echo.Context) error {
	sectorID, err := uuid.Parse(c.QueryParam("sector_id"))
	if err != nil {
		return n.BadRequest(errors.ErrInvalidInput, "invalid sector_id")
	}
	pageNumber, _ := strconv.Atoi(c.QueryParam("page_number"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	p := params.New(pageNumber, pageSize)

	page, appErr := n.NotificationService.ListBySector(c.Request().Context(), sectorID, p)
	if appErr != nil {
		return n.ErrorResponse(c, appErr)
	}
	return n.SuccessResponse(c, page, "notifications")
}
