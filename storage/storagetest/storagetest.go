// Package storagetest checks that an IStorage backend behaves like the others.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/pkg/models"
	"taxiservice/storage"
)

// Run executes the suite; newStore must return an empty, migrated store.
func Run(t *testing.T, newStore func(t *testing.T) storage.IStorage) {
	t.Run("ManufacturerSearch", func(t *testing.T) { testManufacturerSearch(t, newStore(t)) })
	t.Run("ManufacturerUnique", func(t *testing.T) { testManufacturerUnique(t, newStore(t)) })
	t.Run("ManufacturerDeleteCascades", func(t *testing.T) { testManufacturerDeleteCascades(t, newStore(t)) })
	t.Run("CarSearchAndDrivers", func(t *testing.T) { testCarSearchAndDrivers(t, newStore(t)) })
	t.Run("DriverLifecycle", func(t *testing.T) { testDriverLifecycle(t, newStore(t)) })
	t.Run("DriverSearch", func(t *testing.T) { testDriverSearch(t, newStore(t)) })
	t.Run("WildcardsAreLiteral", func(t *testing.T) { testWildcardsAreLiteral(t, newStore(t)) })
}

func names(list []*models.Manufacturer) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Name)
	}
	return out
}

func mustManufacturer(t *testing.T, stg storage.IStorage, name string) *models.Manufacturer {
	t.Helper()
	m, err := stg.Manufacturer().Create(context.Background(), &models.Manufacturer{Name: name, Country: "Germany"})
	require.NoError(t, err)
	return m
}

func mustDriver(t *testing.T, stg storage.IStorage, username string) *models.Driver {
	t.Helper()
	d, err := stg.Driver().Create(context.Background(), &models.Driver{Username: username, LicenseNumber: "L-" + username, IsActive: true})
	require.NoError(t, err)
	return d
}

func testManufacturerSearch(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	for _, n := range []string{"Audi", "BMW", "Tesla"} {
		mustManufacturer(t, stg, n)
	}

	all, err := stg.Manufacturer().GetAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Audi", "BMW", "Tesla"}, names(all))

	got, err := stg.Manufacturer().GetAll(ctx, "BMW")
	require.NoError(t, err)
	assert.Equal(t, []string{"BMW"}, names(got))

	got, err = stg.Manufacturer().GetAll(ctx, "tes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tesla"}, names(got))

	got, err = stg.Manufacturer().GetAll(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, got)

	count, err := stg.Manufacturer().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func testManufacturerUnique(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	m := mustManufacturer(t, stg, "Audi")

	_, err := stg.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Audi"})
	assert.ErrorIs(t, err, storage.ErrUniqueViolation)

	m.Country = "DE"
	require.NoError(t, stg.Manufacturer().Update(ctx, m))
	got, err := stg.Manufacturer().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Audi DE", got.String())

	missing, err := stg.Manufacturer().GetByID(ctx, m.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testManufacturerDeleteCascades(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	m := mustManufacturer(t, stg, "Audi")
	car, err := stg.Car().Create(ctx, &models.Car{Model: "q4", ManufacturerID: m.ID}, nil)
	require.NoError(t, err)

	require.NoError(t, stg.Manufacturer().Delete(ctx, m.ID))

	got, err := stg.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testCarSearchAndDrivers(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	m := mustManufacturer(t, stg, "Audi")
	d1 := mustDriver(t, stg, "driver1")
	d2 := mustDriver(t, stg, "driver2")

	q4, err := stg.Car().Create(ctx, &models.Car{Model: "q4", ManufacturerID: m.ID}, []int64{d1.ID})
	require.NoError(t, err)
	_, err = stg.Car().Create(ctx, &models.Car{Model: "m5", ManufacturerID: m.ID}, nil)
	require.NoError(t, err)
	_, err = stg.Car().Create(ctx, &models.Car{Model: "v1", ManufacturerID: m.ID}, []int64{d1.ID, d2.ID})
	require.NoError(t, err)

	got, err := stg.Car().GetAll(ctx, "Q")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "q4", got[0].Model)
	assert.Equal(t, "Audi", got[0].Manufacturer.Name)

	cars, err := stg.Car().GetByDriver(ctx, d1.ID)
	require.NoError(t, err)
	assert.Len(t, cars, 2)

	require.NoError(t, stg.Car().AddDriver(ctx, q4.ID, d2.ID))
	require.NoError(t, stg.Car().AddDriver(ctx, q4.ID, d2.ID))
	drivers, err := stg.Driver().GetByCar(ctx, q4.ID)
	require.NoError(t, err)
	assert.Len(t, drivers, 2)

	require.NoError(t, stg.Car().RemoveDriver(ctx, q4.ID, d1.ID))
	drivers, err = stg.Driver().GetByCar(ctx, q4.ID)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, d2.ID, drivers[0].ID)

	q4.Model = "q5"
	require.NoError(t, stg.Car().Update(ctx, q4, []int64{d1.ID}))
	updated, err := stg.Car().GetByID(ctx, q4.ID)
	require.NoError(t, err)
	assert.Equal(t, "q5", updated.Model)
	drivers, err = stg.Driver().GetByCar(ctx, q4.ID)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, d1.ID, drivers[0].ID)

	require.NoError(t, stg.Car().Delete(ctx, q4.ID))
	count, err := stg.Car().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func testDriverLifecycle(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	created, err := stg.Driver().Create(ctx, &models.Driver{
		Username:      "test_name",
		Password:      "hash",
		FirstName:     "First",
		LastName:      "Last",
		LicenseNumber: "test_number",
		IsActive:      true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.DateJoined.IsZero())

	got, err := stg.Driver().GetByUsername(ctx, "test_name")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test_number", got.LicenseNumber)
	assert.Equal(t, "hash", got.Password)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsSuperuser)

	_, err = stg.Driver().Create(ctx, &models.Driver{Username: "test_name"})
	assert.ErrorIs(t, err, storage.ErrUniqueViolation)

	require.NoError(t, stg.Driver().UpdateLicense(ctx, created.ID, "new_number"))
	got.LicenseNumber = "new_number"
	got.IsStaff = true
	require.NoError(t, stg.Driver().Update(ctx, got))

	reloaded, err := stg.Driver().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new_number", reloaded.LicenseNumber)
	assert.True(t, reloaded.IsStaff)

	require.NoError(t, stg.Driver().Delete(ctx, created.ID))
	gone, err := stg.Driver().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func testDriverSearch(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	for _, u := range []string{"Driver 1", "Driver 2", "Driver 3"} {
		mustDriver(t, stg, u)
	}

	got, err := stg.Driver().GetAll(ctx, "Driver 1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Driver 1", got[0].Username)

	got, err = stg.Driver().GetAll(ctx, "driver")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	count, err := stg.Driver().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func testWildcardsAreLiteral(t *testing.T, stg storage.IStorage) {
	ctx := context.Background()
	mustManufacturer(t, stg, "100% Electric")
	mustManufacturer(t, stg, "Plain")

	got, err := stg.Manufacturer().GetAll(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Electric"}, names(got))

	got, err = stg.Manufacturer().GetAll(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, got)
}
