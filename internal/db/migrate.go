package db

import (
	"vinylscout/internal/models"
)

// releasesFTS mirrors artist, title and catalog_no from releases so the fuzzy
// matcher can prefilter candidates. The repository keeps it in step on every
// release upsert; content= keeps the index itself rowid-only.
const releasesFTSDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS releases_fts USING fts5(
    artist, title, catalog_no,
    content = releases,
    content_rowid = id
)`

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	if err := db.Gorm.AutoMigrate(
		&models.Release{},
		&models.Listing{},
		&models.Watch{},
		&models.AlertRecord{},
	); err != nil {
		return err
	}

	if err := db.Gorm.Exec(releasesFTSDDL).Error; err != nil {
		return err
	}
	return nil
}
