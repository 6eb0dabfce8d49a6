package repository

import (
	"context"

	"woki-api/core/database"
	"woki-api/core/logger"
	"woki-api/core/params"
	"woki-api/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, venue_id, sector_id, booking_id, type, message, created_at)
		VALUES (:id, :venue_id, :sector_id, :booking_id, :type, :message, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, n)
	if err != nil {
		logger.Error("NotificationRepository:Create:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) ListBySector(ctx context.Context, sectorID uuid.UUID, p params.QueryParams) ([]entity.Notification, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE sector_id = $1`, sectorID); err != nil {
		logger.Error("NotificationRepository:ListBySector:Count:Error", "error", err)
		return nil, 0, err
	}

	query := `
		SELECT * FROM notifications
		WHERE sector_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	var items []entity.Notification
	err := r.db.SelectContext(ctx, &items, query, sectorID, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("NotificationRepository:ListBySector:Select:Error", "error", err)
		return nil, 0, err
	}
	return items, total, nil
}
