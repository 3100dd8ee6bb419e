package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

const driverColumns = `d.id, d.username, d.password, d.first_name, d.last_name, d.email, d.license_number,
	d.is_staff, d.is_superuser, d.is_active, d.date_joined`

type driverRepo struct {
	db  *sql.DB
	log logger.ILogger
}

func scanDriver(row rowScanner) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID, &d.Username, &d.Password, &d.FirstName, &d.LastName, &d.Email, &d.LicenseNumber,
		&d.IsStaff, &d.IsSuperuser, &d.IsActive, &d.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) get(ctx context.Context, where string, arg interface{}) (*models.Driver, error) {
	d, err := scanDriver(r.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get driver", logger.Error(err))
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Driver, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to get drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	drivers := []*models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	created := *d
	created.DateJoined = time.Now().UTC()

	query := `
		INSERT INTO drivers (username, password, first_name, last_name, email, license_number, is_staff, is_superuser, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		d.Username, d.Password, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.IsStaff, d.IsSuperuser, d.IsActive, created.DateJoined,
	)
	if err != nil {
		r.log.Error("failed to create driver", logger.Error(err), logger.String("username", d.Username))
		return nil, translate(err)
	}
	if created.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *driverRepo) Update(ctx context.Context, d *models.Driver) error {
	query := `
		UPDATE drivers
		SET username = ?, password = ?, first_name = ?, last_name = ?, email = ?,
			license_number = ?, is_staff = ?, is_superuser = ?, is_active = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		d.Username, d.Password, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.IsStaff, d.IsSuperuser, d.IsActive, d.ID,
	)
	if err != nil {
		r.log.Error("failed to update driver", logger.Error(err), logger.Int64("id", d.ID))
		return translate(err)
	}
	return nil
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, licenseNumber string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE drivers SET license_number=? WHERE id=?", licenseNumber, id)
	return err
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.get(ctx, "d.id = ?", id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.get(ctx, "d.username = ?", username)
}

func (r *driverRepo) GetAll(ctx context.Context, username string) ([]*models.Driver, error) {
	if username == "" {
		return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d ORDER BY d.id`)
	}
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE d.username LIKE ? ESCAPE '\' ORDER BY d.id`,
		storage.ContainsPattern(username))
}

func (r *driverRepo) GetByCar(ctx context.Context, carID int64) ([]*models.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id WHERE cd.car_id = ? ORDER BY d.id`, carID)
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	return err
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
