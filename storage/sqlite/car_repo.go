package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

const carSelect = `SELECT c.id, c.model, c.manufacturer_id, m.id, m.name, m.country
	FROM cars c JOIN manufacturers m ON m.id = c.manufacturer_id`

type carRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func scanCar(row rowScanner) (*models.Car, error) {
	var c models.Car
	var m models.Manufacturer
	if err := row.Scan(&c.ID, &c.Model, &c.ManufacturerID, &m.ID, &m.Name, &m.Country); err != nil {
		return nil, err
	}
	c.Manufacturer = &m
	return &c, nil
}

func (r *carRepo) collect(ctx context.Context, query string, args ...interface{}) ([]*models.Car, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO cars (model, manufacturer_id) VALUES (?, ?)`, car.Model, car.ManufacturerID)
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, err
	}
	created := *car
	if created.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	if err := insertCarDrivers(ctx, tx, created.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *carRepo) Update(ctx context.Context, car *models.Car, driverIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `UPDATE cars SET model = ?, manufacturer_id = ? WHERE id = ?`, car.Model, car.ManufacturerID, car.ID)
	if err != nil {
		r.log.Error("failed to update car", logger.Error(err), logger.Int64("id", car.ID))
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM car_drivers WHERE car_id = ?`, car.ID); err != nil {
		return err
	}
	if err := insertCarDrivers(ctx, tx, car.ID, driverIDs); err != nil {
		r.log.Error("failed to assign car drivers", logger.Error(err))
		return err
	}
	return tx.Commit()
}

func insertCarDrivers(ctx context.Context, tx *sql.Tx, carID int64, driverIDs []int64) error {
	for _, id := range driverIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO car_drivers (car_id, driver_id) VALUES (?, ?)`, carID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, carSelect+` WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	return r.collect(ctx, carSelect+` WHERE c.model LIKE ? ESCAPE '\' ORDER BY c.id`, storage.ContainsPattern(model))
}

func (r *carRepo) GetByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	return r.collect(ctx, carSelect+` JOIN car_drivers cd ON cd.car_id = c.id WHERE cd.driver_id = ? ORDER BY c.id`, driverID)
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	return err
}

func (r *carRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM cars").Scan(&count)
	return count, err
}

func (r *carRepo) AddDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO car_drivers (car_id, driver_id) VALUES (?, ?)`, carID, driverID)
	return err
}

func (r *carRepo) RemoveDriver(ctx context.Context, carID, driverID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM car_drivers WHERE car_id = ? AND driver_id = ?`, carID, driverID)
	return err
}
