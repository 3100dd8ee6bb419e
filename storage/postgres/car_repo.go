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

const carSelect = `SELECT c.id, c.model, c.manufacturer_id, m.id, m.name, m.country
	FROM cars c JOIN manufacturers m ON m.id = c.manufacturer_id`

type carRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewCarRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICarStorage {
	return &carRepo{db: db, log: log}
}

func scanCar(row pgx.Row) (*models.Car, error) {
	var c models.Car
	var m models.Manufacturer
	if err := row.Scan(&c.ID, &c.Model, &c.ManufacturerID, &m.ID, &m.Name, &m.Country); err != nil {
		return nil, err
	}
	c.Manufacturer = &m
	return &c, nil
}

func (r *carRepo) collect(ctx context.Context, query string, args ...interface{}) ([]*models.Car, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to get cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	cars := []*models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *carRepo) Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := *car
	query := `INSERT INTO cars (model, manufacturer_id) VALUES ($1, $2) RETURNING id`
	if err := tx.QueryRow(ctx, query, car.Model, car.ManufacturerID).Scan(&created.ID); err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, err
	}
	if err := insertCarDrivers(ctx, tx, created.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Error(err))
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE cars SET model = $1, manufacturer_id = $2 WHERE id = $3`, car.Model, car.ManufacturerID, car.ID)
	if err != nil {
		r.log.Error("failed to update car", logger.Error(err), logger.Int64("id", car.ID))
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1`, car.ID); err != nil {
		return err
	}
	if err := insertCarDrivers(ctx, tx, car.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Error(err))
		return err
	}
	return tx.Commit(ctx)
}

func insertCarDrivers(ctx context.Context, tx pgx.Tx, carID int64, driverIDs []int64) error {
	if len(driverIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, id := range driverIDs {
		batch.Queue(`INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, carID, id)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.db.QueryRow(ctx, carSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get car", logger.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *carRepo) GetAll(ctx context.Context, model string) ([]*models.Car, error) {
	if model == "" {
		return r.collect(ctx, carSelect+` ORDER BY c.id`)
	}
	return r.collect(ctx, carSelect+` WHERE c.model ILIKE $1 ORDER BY c.id`, storage.ContainsPattern(model))
}

func (r *carRepo) GetByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	return r.collect(ctx, carSelect+` JOIN car_drivers cd ON cd.car_id = c.id WHERE cd.driver_id = $1 ORDER BY c.id`, driverID)
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.Exec(ctx, `INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, carID, driverID)
	return err
}

func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1 AND driver_id = $2`, carID, driverID)
	return err
}
