package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postcue/postcue/internal/models"
)

type PlatformRepository interface {
	List(ctx context.Context) ([]*models.PlatformBinding, error)
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, pb *models.PlatformBinding) error
}

type platformRepository struct {
	db *sql.DB
}

func NewPlatformRepository(db *sql.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) List(ctx context.Context) ([]*models.PlatformBinding, error) {
	query := `SELECT id, name, logo_url FROM platforms ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var bindings []*models.PlatformBinding
	for rows.Next() {
		var pb models.PlatformBinding
		if err := rows.Scan(&pb.ID, &pb.Name, &pb.LogoURL); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		bindings = append(bindings, &pb)
	}
	return bindings, rows.Err()
}

func (r *platformRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT 1 FROM platforms WHERE id = $1`

	var result int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *platformRepository) Upsert(ctx context.Context, pb *models.PlatformBinding) error {
	query := `
		INSERT INTO platforms (id, name, logo_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, logo_url = $3
	`
	_, err := r.db.ExecContext(ctx, query, pb.ID, pb.Name, pb.LogoURL)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
