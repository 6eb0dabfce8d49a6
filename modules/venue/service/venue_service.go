package service

import (
	"context"
	"time"

	"woki-api/core/errors"
	"woki-api/core/logger"
	"woki-api/modules/venue/dto"
	"woki-api/modules/venue/entity"
	"woki-api/modules/venue/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type VenueServiceInterface interface {
	CreateVenue(ctx context.Context, req dto.CreateVenueRequest) (*entity.Venue, *errors.AppError)
	GetVenue(ctx context.Context, id uuid.UUID) (*entity.Venue, *errors.AppError)
	CreateSector(ctx context.Context, venueID uuid.UUID, req dto.CreateSectorRequest) (*entity.Sector, *errors.AppError)
	CreateTable(ctx context.Context, sectorID uuid.UUID, req dto.CreateTableRequest) (*entity.Table, *errors.AppError)
	CreateBlackout(ctx context.Context, tableID uuid.UUID, req dto.CreateBlackoutRequest) (*entity.Blackout, *errors.AppError)
	DeleteBlackout(ctx context.Context, id uuid.UUID) *errors.AppError
}

type VenueService struct {
	repo repository.VenueRepositoryInterface
}

func NewVenueService(repo repository.VenueRepositoryInterface) *VenueService {
	return &VenueService{repo: repo}
}

func (s *VenueService) CreateVenue(ctx context.Context, req dto.CreateVenueRequest) (*entity.Venue, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "venue name is required", nil)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown timezone", req.Timezone)
	}

	windows := make(entity.ServiceWindows, 0, len(req.ServiceWindows))
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, w := range req.ServiceWindows {
		sw := entity.ServiceWindow{Start: w.Start, End: w.End}
		if _, _, err := sw.Resolve(day, time.UTC); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid service window", err.Error())
		}
		windows = append(windows, sw)
	}

	venueSlug := slug.Make(req.Name)
	if existing, err := s.repo.GetVenueBySlug(ctx, venueSlug); err != nil {
		return nil, errors.Internal(err)
	} else if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "a venue with this name already exists", venueSlug)
	}

	now := time.Now().UTC()
	venue := &entity.Venue{
		ID:             uuid.New(),
		Name:           req.Name,
		Slug:           venueSlug,
		Timezone:       req.Timezone,
		ServiceWindows: windows,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		return nil, errors.Internal(err)
	}

	logger.Info("VenueService:CreateVenue:Success", "venue_id", venue.ID, "slug", venue.Slug)
	return venue, nil
}

func (s *VenueService) GetVenue(ctx context.Context, id uuid.UUID) (*entity.Venue, *errors.AppError) {
	venue, err := s.repo.GetVenue(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if venue == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "venue not found", nil)
	}
	return venue, nil
}

func (s *VenueService) CreateSector(ctx context.Context, venueID uuid.UUID, req dto.CreateSectorRequest) (*entity.Sector, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "sector name is required", nil)
	}
	venue, err := s.repo.GetVenue(ctx, venueID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if venue == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "venue not found", nil)
	}

	sector := &entity.Sector{
		ID:        uuid.New(),
		VenueID:   venue.ID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateSector(ctx, sector); err != nil {
		return nil, errors.Internal(err)
	}

	logger.Info("VenueService:CreateSector:Success", "sector_id", sector.ID, "venue_id", venue.ID)
	return sector, nil
}

func (s *VenueService) CreateTable(ctx context.Context, sectorID uuid.UUID, req dto.CreateTableRequest) (*entity.Table, *errors.AppError) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "table name is required", nil)
	}
	if req.MinSize < 1 || req.MaxSize < req.MinSize {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "capacity range must satisfy 1 <= min_size <= max_size", nil)
	}
	sector, err := s.repo.GetSector(ctx, sectorID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if sector == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "sector not found", nil)
	}

	table := &entity.Table{
		ID:        uuid.New(),
		SectorID:  sector.ID,
		Name:      req.Name,
		MinSize:   req.MinSize,
		MaxSize:   req.MaxSize,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, errors.Internal(err)
	}

	logger.Info("VenueService:CreateTable:Success", "table_id", table.ID, "sector_id", sector.ID)
	return table, nil
}

func (s *VenueService) CreateBlackout(ctx context.Context, tableID uuid.UUID, req dto.CreateBlackoutRequest) (*entity.Blackout, *errors.AppError) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "starts_at must be RFC3339", req.StartsAt)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "ends_at must be RFC3339", req.EndsAt)
	}
	if !endsAt.After(startsAt) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "ends_at must be after starts_at", nil)
	}

	table, err := s.repo.GetTable(ctx, tableID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if table == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "table not found", nil)
	}

	blackout := &entity.Blackout{
		ID:        uuid.New(),
		TableID:   table.ID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Reason:    req.Reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateBlackout(ctx, blackout); err != nil {
		return nil, errors.Internal(err)
	}

	logger.Info("VenueService:CreateBlackout:Success", "blackout_id", blackout.ID, "table_id", table.ID)
	return blackout, nil
}

func (s *VenueService) DeleteBlackout(ctx context.Context, id uuid.UUID) *errors.AppError {
	blackout, err := s.repo.GetBlackout(ctx, id)
	if err != nil {
		return errors.Internal(err)
	}
	if blackout == nil {
		return errors.NewAppError(errors.ErrNotFound, "blackout not found", nil)
	}
	if err := s.repo.DeleteBlackout(ctx, id); err != nil {
		return errors.Internal(err)
	}
	logger.Info("VenueService:DeleteBlackout:Success", "blackout_id", id)
	return nil
}
