package storage

import (
	"os"
	"path/filepath"
)

// MigrationsDir resolves the migration folder for a database driver.
// An explicit base wins; otherwise ./migrations/<driver> is used when present,
// falling back to ./migrations.
func MigrationsDir(base, driver string) string {
	if base != "" {
		if _, err := os.Stat(filepath.Join(base, driver)); err == nil {
			return filepath.Join(base, driver)
		}
		return base
	}

	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")
	if _, err := os.Stat(filepath.Join(mPath, driver)); err == nil {
		mPath = filepath.Join(mPath, driver)
	}
	return mPath
}
