package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postcue/postcue/internal/models"
)

type DeliveryHistoryRepository interface {
	Create(ctx context.Context, dh *models.DeliveryHistory) (int64, error)
	ListByItemID(ctx context.Context, itemID string) ([]*models.DeliveryHistory, error)
}

type deliveryHistoryRepository struct {
	db *sql.DB
}

func NewDeliveryHistoryRepository(db *sql.DB) DeliveryHistoryRepository {
	return &deliveryHistoryRepository{db: db}
}

func (r *deliveryHistoryRepository) Create(ctx context.Context, dh *models.DeliveryHistory) (int64, error) {
	query := `
		INSERT INTO delivery_history (item_id, platform_id, reference, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, dh.ItemID, dh.PlatformID, dh.Reference, dh.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *deliveryHistoryRepository) ListByItemID(ctx context.Context, itemID string) ([]*models.DeliveryHistory, error) {
	query := `
		SELECT id, item_id, platform_id, reference, error_message, created_at
		FROM delivery_history
		WHERE item_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.DeliveryHistory
	for rows.Next() {
		var dh models.DeliveryHistory
		err := rows.Scan(&dh.ID, &dh.ItemID, &dh.PlatformID, &dh.Reference, &dh.ErrorMessage, &dh.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &dh)
	}
	return history, rows.Err()
}
