package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/config"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/storage/sqlite"
)

func newTestServices(t *testing.T) IServiceManager {
	t.Helper()
	cfg := config.Config{
		SQLitePath:     filepath.Join(t.TempDir(), "taxi.db"),
		MigrationsPath: filepath.Join("..", "migrations"),
	}
	stg, err := sqlite.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(stg.Close)
	return New(stg, logger.NewNop())
}

func driverForm(username string) forms.DriverCreationForm {
	return forms.DriverCreationForm{
		Username:      username,
		Password1:     "testpass123",
		Password2:     "testpass123",
		LicenseNumber: "test_number",
	}
}

func TestCreateDriverWithLicenseNumber(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Driver().Create(ctx, driverForm("test_name"))
	require.NoError(t, err)

	driver, err := svc.Driver().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "test_name", driver.Username)
	assert.Equal(t, "test_number", driver.LicenseNumber)
	assert.True(t, auth.CheckPassword(driver.Password, "testpass123"))
	assert.True(t, driver.IsActive)
	assert.False(t, driver.IsSuperuser)
}

func TestCreateDriverUsernameTaken(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Driver().Create(ctx, driverForm("taken"))
	require.NoError(t, err)

	_, err = svc.Driver().Create(ctx, driverForm("taken"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateSuperuser(t *testing.T) {
	svc := newTestServices(t)

	admin, err := svc.Driver().CreateSuperuser(context.Background(), "admin", "admin@example.com", "adminpass123", "")
	require.NoError(t, err)
	assert.True(t, admin.CanAccessAdmin())
}

func TestAuthenticate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Driver().Create(ctx, driverForm("driver"))
	require.NoError(t, err)

	got, err := svc.Auth().Authenticate(ctx, "driver", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Auth().Authenticate(ctx, "driver", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Auth().Authenticate(ctx, "nobody", "testpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Driver().AdminUpdate(ctx, created.ID, forms.DriverAdminForm{
		Username:      "driver",
		LicenseNumber: "test_number",
		IsActive:      false,
	})
	require.NoError(t, err)

	_, err = svc.Auth().Authenticate(ctx, "driver", "testpass123")
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = svc.Auth().CurrentDriver(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManufacturerLifecycle(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	bmw, err := svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	_, err = svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "BMW", Country: "Germany"})
	assert.ErrorIs(t, err, ErrManufacturerExists)

	updated, err := svc.Manufacturer().Update(ctx, bmw.ID, forms.ManufacturerForm{Name: "BMW AG", Country: "Germany"})
	require.NoError(t, err)
	assert.Equal(t, "BMW AG Germany", updated.String())

	require.NoError(t, svc.Manufacturer().Delete(ctx, bmw.ID))
	assert.ErrorIs(t, svc.Manufacturer().Delete(ctx, bmw.ID), ErrNotFound)

	_, err = svc.Manufacturer().Get(ctx, bmw.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCarToggleAssign(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	m, err := svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)
	d, err := svc.Driver().Create(ctx, driverForm("driver"))
	require.NoError(t, err)
	car, err := svc.Car().Create(ctx, forms.CarForm{Model: "q4", ManufacturerID: m.ID})
	require.NoError(t, err)

	assigned, err := svc.Car().ToggleAssign(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	withCars, err := svc.Driver().Get(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, withCars.Cars, 1)
	assert.Equal(t, "q4", withCars.Cars[0].Model)

	assigned, err = svc.Car().ToggleAssign(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, assigned)

	reloaded, err := svc.Car().Get(ctx, car.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Drivers)
}

func TestCarRejectsUnknownReferences(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Car().Create(ctx, forms.CarForm{Model: "q4", ManufacturerID: 99})
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)
	_, err = svc.Car().Create(ctx, forms.CarForm{Model: "q4", ManufacturerID: m.ID, DriverIDs: []int64{42}})
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := svc.Car().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateLicense(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	d, err := svc.Driver().Create(ctx, driverForm("driver"))
	require.NoError(t, err)

	require.NoError(t, svc.Driver().UpdateLicense(ctx, d.ID, forms.DriverLicenseUpdateForm{LicenseNumber: "XYZ98765"}))
	got, err := svc.Driver().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "XYZ98765", got.LicenseNumber)

	err = svc.Driver().UpdateLicense(ctx, d.ID+1, forms.DriverLicenseUpdateForm{LicenseNumber: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
