package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type manufacturerRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO manufacturers (name, country) VALUES (?, ?)`, m.Name, m.Country)
	if err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, translate(err)
	}
	created := *m
	if created.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) error {
	_, err := r.db.ExecContext(ctx, `UPDATE manufacturers SET name = ?, country = ? WHERE id = ?`, m.Name, m.Country, m.ID)
	if err != nil {
		r.log.Error("failed to update manufacturer", logger.Error(err), logger.Int64("id", m.ID))
		return translate(err)
	}
	return nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	err := r.db.QueryRowContext(ctx, `SELECT id, name, country FROM manufacturers WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, storage.ContainsPattern(name))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM manufacturers WHERE id = ?`, id)
	return err
}

func (r *manufacturerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM manufacturers").Scan(&count)
	return count, err
}
