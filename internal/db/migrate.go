package db

import (
	"time"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.POI{},
		&model.Tag{},
		&model.POITag{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedDefaultTags(); err != nil {
		logger.Error("Failed to seed default tags during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// seedDefaultTags creates the starter tag set if it does not exist yet.
// Existing tags are left alone.
func seedDefaultTags() error {
	names := []string{
		"restaurant",
		"cafe",
		"bar",
		"museum",
		"park",
		"viewpoint",
		"shop",
	}

	now := time.Now()
	created := 0
	for _, name := range names {
		var count int64
		if err := DB.Model(&model.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		tag := model.Tag{Name: name, CreatedAt: now, UpdatedAt: now}
		if err := DB.Create(&tag).Error; err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("Default tags seeded", map[string]interface{}{
			"created": created,
		})
	}
	return nil
}
