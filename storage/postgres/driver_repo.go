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

const driverColumns = `d.id, d.username, d.password, d.first_name, d.last_name, d.email, d.license_number,
	d.is_staff, d.is_superuser, d.is_active, d.date_joined`

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
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
	d, err := scanDriver(r.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get driver", logger.Error(err))
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
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
	query := `
		INSERT INTO drivers (username, password, first_name, last_name, email, license_number, is_staff, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, date_joined
	`
	err := r.db.QueryRow(ctx, query,
		d.Username, d.Password, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.IsStaff, d.IsSuperuser, d.IsActive,
	).Scan(&created.ID, &created.DateJoined)
	if err != nil {
		r.log.Error("failed to create driver", logger.Error(err), logger.String("username", d.Username))
		return nil, translate(err)
	}
	return &created, nil
}

func (r *driverRepo) Update(ctx context.Context, d *models.Driver) error {
	query := `
		UPDATE drivers
		SET username = $1, password = $2, first_name = $3, last_name = $4, email = $5,
			license_number = $6, is_staff = $7, is_superuser = $8, is_active = $9
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query,
		d.Username, d.Password, d.FirstName, d.LastName, d.Email, d.LicenseNumber, d.IsStaff, d.IsSuperuser, d.IsActive, d.ID,
	)
	if err != nil {
		r.log.Error("failed to update driver", logger.Error(err), logger.Int64("id", d.ID))
		return translate(err)
	}
	return nil
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, licenseNumber string) error {
	_, err := r.db.Exec(ctx, "UPDATE drivers SET license_number=$1 WHERE id=$2", licenseNumber, id)
	return err
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.get(ctx, "d.id = $1", id)
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.get(ctx, "d.username = $1", username)
}

func (r *driverRepo) GetAll(ctx context.Context, username string) ([]*models.Driver, error) {
	if username == "" {
		return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d ORDER BY d.id`)
	}
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d WHERE d.username ILIKE $1 ORDER BY d.id`,
		storage.ContainsPattern(username))
}

func (r *driverRepo) GetByCar(ctx context.Context, carID int64) ([]*models.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id WHERE cd.car_id = $1 ORDER BY d.id`, carID)
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	return err
}

func (r *driverRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM drivers").Scan(&count)
	return count, err
}
