package controller

import (
	"strconv"

	"woki-api/core/controller"
	"woki-api/core/errors"
	"woki-api/core/params"
	"woki-api/modules/booking/dto"
	"woki-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	controller.BaseController
	BookingService service.BookingService
}

func NewBookingController(svc service.BookingService) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

// Discover returns ranked seating candidates without reserving anything.
func (b *BookingController) Discover(c echo.Context) error {
	var req dto.DiscoverRequest
	if err := c.Bind(&req); err != nil {
		return b.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	candidates, appErr := b.BookingService.Discover(c.Request().Context(), req)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, candidates, "candidates")
}

// Book commits the best candidate. The Idempotency-Key header makes retries
// safe.
func (b *BookingController) Book(c echo.Context) error {
	var req dto.BookRequest
	if err := c.Bind(&req); err != nil {
		return b.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	req.IdempotencyKey = c.Request().Header.Get("Idempotency-Key")

	booking, appErr := b.BookingService.Book(c.Request().Context(), req)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.CreatedResponse(c, booking, "booking created")
}

func (b *BookingController) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	booking, appErr := b.BookingService.Get(c.Request().Context(), id)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, booking, "booking")
}

func (b *BookingController) ListBookings(c echo.Context) error {
	sectorID, err := uuid.Parse(c.QueryParam("sector_id"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "invalid sector_id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return b.BadRequest(errors.ErrInvalidInput, "date is required")
	}
	pageNumber, _ := strconv.Atoi(c.QueryParam("page_number"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	p := params.New(pageNumber, pageSize)

	page, appErr := b.BookingService.List(c.Request().Context(), sectorID, date, p)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, page, "bookings")
}

func (b *BookingController) CancelBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	if appErr := b.BookingService.Cancel(c.Request().Context(), id); appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, nil, "booking cancelled")
}

func (b *BookingController) ApproveBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	booking, appErr := b.BookingService.Approve(c.Request().Context(), id)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, booking, "booking approved")
}

func (b *BookingController) RejectBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return b.BadRequest(errors.ErrInvalidInput, "invalid booking id")
	}

	booking, appErr := b.BookingService.Reject(c.Request().Context(), id)
	if appErr != nil {
		return b.ErrorResponse(c, appErr)
	}
	return b.SuccessResponse(c, booking, "booking rejected")
}
