package repository

import (
	"context"
	"database/sql"

	"woki-api/core/database"
	"woki-api/core/logger"
	"woki-api/modules/venue/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type VenueRepositoryInterface interface {
	CreateVenue(ctx context.Context, venue *entity.Venue) error
	GetVenue(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error)
	CreateSector(ctx context.Context, sector *entity.Sector) error
	GetSector(ctx context.Context, id uuid.UUID) (*entity.Sector, error)
	CreateTable(ctx context.Context, table *entity.Table) error
	GetTable(ctx context.Context, id uuid.UUID) (*entity.Table, error)
	GetTablesInSector(ctx context.Context, sectorID uuid.UUID) ([]entity.Table, error)
	CreateBlackout(ctx context.Context, blackout *entity.Blackout) error
	GetBlackout(ctx context.Context, id uuid.UUID) (*entity.Blackout, error)
	DeleteBlackout(ctx context.Context, id uuid.UUID) error
	GetBlackoutsForTables(ctx context.Context, tableIDs []string) ([]entity.Blackout, error)
}

type VenueRepository struct {
	db database.IDatabase
}

func NewVenueRepository(db database.IDatabase) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) CreateVenue(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (id, name, slug, timezone, service_windows, created_at, updated_at)
		VALUES (:id, :name, :slug, :timezone, :service_windows, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, venue)
	if err != nil {
		logger.Error("VenueRepository:CreateVenue:Error", "error", err)
		return err
	}
	return nil
}

func (r *VenueRepository) GetVenue(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	var venue entity.Venue
	err := r.db.GetContext(ctx, &venue, `SELECT * FROM venues WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("VenueRepository:GetVenue:Error", "error", err, "venue_id", id)
		return nil, err
	}
	return &venue, nil
}

func (r *VenueRepository) GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error) {
	var venue entity.Venue
	err := r.db.GetContext(ctx, &venue, `SELECT * FROM venues WHERE slug = $1`, slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("VenueRepository:GetVenueBySlug:Error", "error", err, "slug", slug)
		return nil, err
	}
	return &venue, nil
}

func (r *VenueRepository) CreateSector(ctx context.Context, sector *entity.Sector) error {
	query := `
		INSERT INTO sectors (id, venue_id, name, created_at)
		VALUES (:id, :venue_id, :name, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, sector)
	if err != nil {
		logger.Error("VenueRepository:CreateSector:Error", "error", err)
		return err
	}
	return nil
}

func (r *VenueRepository) GetSector(ctx context.Context, id uuid.UUID) (*entity.Sector, error) {
	var sector entity.Sector
	err := r.db.GetContext(ctx, &sector, `SELECT * FROM sectors WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("VenueRepository:GetSector:Error", "error", err, "sector_id", id)
		return nil, err
	}
	return &sector, nil
}

func (r *VenueRepository) CreateTable(ctx context.Context, table *entity.Table) error {
	query := `
		INSERT INTO tables (id, sector_id, name, min_size, max_size, created_at)
		VALUES (:id, :sector_id, :name, :min_size, :max_size, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, table)
	if err != nil {
		logger.Error("VenueRepository:CreateTable:Error", "error", err)
		return err
	}
	return nil
}

func (r *VenueRepository) GetTable(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	var table entity.Table
	err := r.db.GetContext(ctx, &table, `SELECT * FROM tables WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("VenueRepository:GetTable:Error", "error", err, "table_id", id)
		return nil, err
	}
	return &table, nil
}

func (r *VenueRepository) GetTablesInSector(ctx context.Context, sectorID uuid.UUID) ([]entity.Table, error) {
	var tables []entity.Table
	query := `SELECT * FROM tables WHERE sector_id = $1 ORDER BY name, id`
	err := r.db.SelectContext(ctx, &tables, query, sectorID)
	if err != nil {
		logger.Error("VenueRepository:GetTablesInSector:Error", "error", err, "sector_id", sectorID)
		return nil, err
	}
	return tables, nil
}

func (r *VenueRepository) CreateBlackout(ctx context.Context, blackout *entity.Blackout) error {
	query := `
		INSERT INTO blackouts (id, table_id, starts_at, ends_at, reason, created_at)
		VALUES (:id, :table_id, :starts_at, :ends_at, :reason, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, blackout)
	if err != nil {
		logger.Error("VenueRepository:CreateBlackout:Error", "error", err)
		return err
	}
	return nil
}

func (r *VenueRepository) GetBlackout(ctx context.Context, id uuid.UUID) (*entity.Blackout, error) {
	var blackout entity.Blackout
	err := r.db.GetContext(ctx, &blackout, `SELECT * FROM blackouts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("VenueRepository:GetBlackout:Error", "error", err, "blackout_id", id)
		return nil, err
	}
	return &blackout, nil
}

func (r *VenueRepository) DeleteBlackout(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM blackouts WHERE id = $1`, id)
	if err != nil {
		logger.Error("VenueRepository:DeleteBlackout:Error", "error", err, "blackout_id", id)
		return err
	}
	return nil
}

func (r *VenueRepository) GetBlackoutsForTables(ctx context.Context, tableIDs []string) ([]entity.Blackout, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM blackouts WHERE table_id IN (?) ORDER BY starts_at`, tableIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var blackouts []entity.Blackout
	err = r.db.SelectContext(ctx, &blackouts, query, args...)
	if err != nil {
		logger.Error("VenueRepository:GetBlackoutsForTables:Error", "error", err)
		return nil, err
	}
	return blackouts, nil
}
