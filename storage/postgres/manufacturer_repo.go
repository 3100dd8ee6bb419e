package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type manufacturerRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewManufacturerRepo(db *pgxpool.Pool, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{db: db, log: log}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	created := *m
	query := `INSERT INTO manufacturers (name, country) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRow(ctx, query, m.Name, m.Country).Scan(&created.ID); err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, translate(err)
	}
	return &created, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) error {
	_, err := r.db.Exec(ctx, `UPDATE manufacturers SET name = $1, country = $2 WHERE id = $3`, m.Name, m.Country, m.ID)
	if err != nil {
		r.log.Error("failed to update manufacturer", logger.Error(err), logger.Int64("id", m.ID))
		return translate(err)
	}
	return nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := r.db.QueryRow(ctx, `SELECT id, name, country FROM manufacturers WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get manufacturer", logger.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *manufacturerRepo) GetAll(ctx context.Context, name string) ([]*models.Manufacturer, error) {
	query := `SELECT id, name, country FROM manufacturers`
	var args []interface{}
	if name != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, storage.ContainsPattern(name))
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to get manufacturers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := []*models.Manufacturer{}
	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	// cars has ON DELETE CASCADE so the manufacturer's cars go with it
	_, err := r.db.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	return err
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
