package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/postcue/postcue/internal/models"
)

type ContentItemRepository interface {
	Create(ctx context.Context, item *models.ContentItem) error
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	Update(ctx context.Context, item *models.ContentItem) error
	List(ctx context.Context, statuses, platformIDs []string) ([]*models.ContentItem, error)
	ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*models.ContentItem, error)
	Remove(ctx context.Context, id string) error
}

type contentItemRepository struct {
	db *sql.DB
}

func NewContentItemRepository(db *sql.DB) ContentItemRepository {
	return &contentItemRepository{db: db}
}

func (r *contentItemRepository) Create(ctx context.Context, item *models.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO content_items (id, caption, title, status, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, query, item.ID, item.Caption, item.Title, item.Status, item.ScheduledAt, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err = r.replaceJunctions(ctx, tx, item); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contentItemRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	query := `SELECT id, caption, title, status, scheduled_at, created_at, updated_at FROM content_items WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var item models.ContentItem
	err := row.Scan(&item.ID, &item.Caption, &item.Title, &item.Status, &item.ScheduledAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	if err = r.loadJunctions(ctx, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// Update writes the whole row plus its junction tables in one transaction,
// so a failed write never leaves an item half mutated.
func (r *contentItemRepository) Update(ctx context.Context, item *models.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE content_items
		SET caption = $1,
			title = $2,
			status = $3,
			scheduled_at = $4,
			updated_at = $5
		WHERE id = $6
	`
	res, err := tx.ExecContext(ctx, query, item.Caption, item.Title, item.Status, item.ScheduledAt, item.UpdatedAt, item.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &models.NotFoundError{ID: item.ID}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM content_item_media WHERE item_id = $1`, item.ID); err != nil {
		slog.Info(err.Error())
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM content_item_platforms WHERE item_id = $1`, item.ID); err != nil {
		slog.Info(err.Error())
		return err
	}
	if err = r.replaceJunctions(ctx, tx, item); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contentItemRepository) List(ctx context.Context, statuses, platformIDs []string) ([]*models.ContentItem, error) {
	query := `
		SELECT id, caption, title, status, scheduled_at, created_at, updated_at
		FROM content_items
		WHERE ($1::text[] IS NULL OR status = ANY($1))
		  AND ($2::text[] IS NULL OR id IN (
				SELECT item_id FROM content_item_platforms WHERE platform_id = ANY($2)))
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, textArray(statuses), textArray(platformIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return r.scanItems(ctx, rows)
}

func (r *contentItemRepository) ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*models.ContentItem, error) {
	query := `
		SELECT id, caption, title, status, scheduled_at, created_at, updated_at
		FROM content_items
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at
	`

	rows, err := r.db.QueryContext(ctx, query, models.StatusScheduled, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return r.scanItems(ctx, rows)
}

func (r *contentItemRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM content_items WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &models.NotFoundError{ID: id}
	}
	return nil
}

func (r *contentItemRepository) scanItems(ctx context.Context, rows *sql.Rows) ([]*models.ContentItem, error) {
	var items []*models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		err := rows.Scan(&item.ID, &item.Caption, &item.Title, &item.Status, &item.ScheduledAt, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	for _, item := range items {
		if err := r.loadJunctions(ctx, item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *contentItemRepository) replaceJunctions(ctx context.Context, tx *sql.Tx, item *models.ContentItem) error {
	for i, ref := range item.MediaRefs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO content_item_media (item_id, media_ref, display_order) VALUES ($1, $2, $3)`,
			item.ID, ref, i)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	for _, pid := range item.PlatformIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO content_item_platforms (item_id, platform_id) VALUES ($1, $2)`,
			item.ID, pid)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *contentItemRepository) loadJunctions(ctx context.Context, item *models.ContentItem) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT media_ref FROM content_item_media WHERE item_id = $1 ORDER BY display_order`,
		item.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			slog.Info(err.Error())
			return err
		}
		item.MediaRefs = append(item.MediaRefs, ref)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	prows, err := r.db.QueryContext(ctx,
		`SELECT platform_id FROM content_item_platforms WHERE item_id = $1 ORDER BY platform_id`,
		item.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer prows.Close()
	for prows.Next() {
		var pid string
		if err := prows.Scan(&pid); err != nil {
			slog.Info(err.Error())
			return err
		}
		item.PlatformIDs = append(item.PlatformIDs, pid)
	}
	return prows.Err()
}

// textArray maps an empty filter to SQL NULL so the query's "no filter"
// branches apply.
func textArray(vals []string) interface{} {
	if len(vals) == 0 {
		return nil
	}
	return pq.Array(vals)
}
