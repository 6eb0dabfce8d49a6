package controller

import (
	"woki-api/core/controller"
	"woki-api/core/errors"
	"woki-api/modules/venue/dto"
	"woki-api/modules/venue/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VenueController struct {
	controller.BaseController
	VenueService service.VenueServiceInterface
}

func NewVenueController(svc service.VenueServiceInterface) *VenueController {
	return &VenueController{
		BaseController: controller.NewBaseController(),
		VenueService:   svc,
	}
}

func (v *VenueController) CreateVenue(c echo.Context) error {
	var req dto.CreateVenueRequest
	if err := c.Bind(&req); err != nil {
		return v.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	venue, appErr := v.VenueService.CreateVenue(c.Request().Context(), req)
	if appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.CreatedResponse(c, venue, "venue created")
}

func (v *VenueController) GetVenue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return v.BadRequest(errors.ErrInvalidInput, "invalid venue id")
	}

	venue, appErr := v.VenueService.GetVenue(c.Request().Context(), id)
	if appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.SuccessResponse(c, venue, "venue")
}

func (v *VenueController) CreateSector(c echo.Context) error {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return v.BadRequest(errors.ErrInvalidInput, "invalid venue id")
	}
	var req dto.CreateSectorRequest
	if err := c.Bind(&req); err != nil {
		return v.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	sector, appErr := v.VenueService.CreateSector(c.Request().Context(), venueID, req)
	if appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.CreatedResponse(c, sector, "sector created")
}

func (v *VenueController) CreateTable(c echo.Context) error {
	sectorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return v.BadRequest(errors.ErrInvalidInput, "invalid sector id")
	}
	var req dto.CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return v.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	table, appErr := v.VenueService.CreateTable(c.Request().Context(), sectorID, req)
	if appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.CreatedResponse(c, table, "table created")
}

func (v *VenueController) CreateBlackout(c echo.Context) error {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return v.BadRequest(errors.ErrInvalidInput, "invalid table id")
	}
	var req dto.CreateBlackoutRequest
	if err := c.Bind(&req); err != nil {
		return v.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	blackout, appErr := v.VenueService.CreateBlackout(c.Request().Context(), tableID, req)
	if appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.CreatedResponse(c, blackout, "blackout created")
}

func (v *VenueController) DeleteBlackout(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return v.BadRequest(errors.ErrInvalidInput, "invalid blackout id")
	}

	if appErr := v.VenueService.DeleteBlackout(c.Request().Context(), id); appErr != nil {
		return v.ErrorResponse(c, appErr)
	}
	return v.SuccessResponse(c, nil, "blackout deleted")
}
