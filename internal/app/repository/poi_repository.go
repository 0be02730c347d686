package repository

import (
	"strings"
	"time"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type POIFilter struct {
	Status model.POIStatus // empty means all statuses
	Search string          // case-insensitive substring over name/description
}

type POIRepository interface {
	Create(poi *model.POI) error
	Update(poi *model.POI) error
	Delete(id uint) error
	FindByID(id uint) (*model.POI, error)
	FindAll(filter POIFilter) ([]model.POI, error)
	ReplaceTags(poi *model.POI, tags []model.Tag, now time.Time) error
	AddTag(poi *model.POI, tag *model.Tag, now time.Time) error
	RemoveTag(poi *model.POI, tag *model.Tag, now time.Time) error
	ArchiveTemporariesBefore(cutoff time.Time, now time.Time) (int64, error)
}

type poiRepository struct {
	db *gorm.DB
}

func NewPOIRepository(db *gorm.DB) POIRepository {
	return &poiRepository{db: db}
}

func (r *poiRepository) Create(poi *model.POI) error {
	logger.Debug("Creating POI in database", map[string]interface{}{
		"name":      poi.Name,
		"latitude":  poi.Latitude,
		"longitude": poi.Longitude,
	})

	if err := r.db.Omit(clause.Associations).Create(poi).Error; err != nil {
		logger.Error("Failed to create POI in database", err, map[string]interface{}{
			"name": poi.Name,
		})
		return err
	}

	logger.Debug("POI created in database", map[string]interface{}{
		"poi_id": poi.ID,
		"name":   poi.Name,
	})
	return nil
}

func (r *poiRepository) Update(poi *model.POI) error {
	logger.Debug("Updating POI in database", map[string]interface{}{
		"poi_id": poi.ID,
		"name":   poi.Name,
	})

	// Scalar fields only; the tag set is replaced through ReplaceTags
	if err := r.db.Omit(clause.Associations).Save(poi).Error; err != nil {
		logger.Error("Failed to update POI in database", err, map[string]interface{}{
			"poi_id": poi.ID,
		})
		return err
	}
	return nil
}

func (r *poiRepository) Delete(id uint) error {
	logger.Debug("Deleting POI from database", map[string]interface{}{
		"poi_id": id,
	})

	// Join rows go in the same transaction so no tag ever references a
	// deleted POI
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poi_id = ?", id).Delete(&model.POITag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.POI{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete POI from database", err, map[string]interface{}{
			"poi_id": id,
		})
		return err
	}

	logger.Debug("POI deleted from database", map[string]interface{}{
		"poi_id": id,
	})
	return nil
}

func (r *poiRepository) FindByID(id uint) (*model.POI, error) {
	var poi model.POI
	if err := r.db.Preload("Tags").First(&poi, id).Error; err != nil {
		return nil, err
	}
	return &poi, nil
}

func (r *poiRepository) FindAll(filter POIFilter) ([]model.POI, error) {
	logger.Debug("Finding POIs", map[string]interface{}{
		"status": filter.Status,
		"search": filter.Search,
	})

	query := r.db.Model(&model.POI{}).Preload("Tags")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var pois []model.POI
	if err := query.Find(&pois).Error; err != nil {
		logger.Error("Failed to find POIs", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}

	logger.Debug("POIs found", map[string]interface{}{
		"count": len(pois),
	})
	return pois, nil
}

func (r *poiRepository) ReplaceTags(poi *model.POI, tags []model.Tag, now time.Time) error {
	logger.Debug("Replacing POI tags", map[string]interface{}{
		"poi_id":    poi.ID,
		"tag_count": len(tags),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		assoc := tx.Model(poi).Association("Tags")
		if len(tags) == 0 {
			if err := assoc.Clear(); err != nil {
				return err
			}
		} else if err := assoc.Replace(tags); err != nil {
			return err
		}
		return r.touch(tx, poi.ID, now)
	})
	if err != nil {
		logger.Error("Failed to replace POI tags", err, map[string]interface{}{
			"poi_id": poi.ID,
		})
		return err
	}
	return nil
}

func (r *poiRepository) AddTag(poi *model.POI, tag *model.Tag, now time.Time) error {
	logger.Debug("Attaching tag to POI", map[string]interface{}{
		"poi_id": poi.ID,
		"tag_id": tag.ID,
	})

	// Both sides of the relationship live in the join table, so one
	// transactional append keeps them consistent for every reader
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(poi).Association("Tags").Append(tag); err != nil {
			return err
		}
		return r.touch(tx, poi.ID, now)
	})
	if err != nil {
		logger.Error("Failed to attach tag to POI", err, map[string]interface{}{
			"poi_id": poi.ID,
			"tag_id": tag.ID,
		})
		return err
	}
	return nil
}

func (r *poiRepository) RemoveTag(poi *model.POI, tag *model.Tag, now time.Time) error {
	logger.Debug("Detaching tag from POI", map[string]interface{}{
		"poi_id": poi.ID,
		"tag_id": tag.ID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(poi).Association("Tags").Delete(tag); err != nil {
			return err
		}
		return r.touch(tx, poi.ID, now)
	})
	if err != nil {
		logger.Error("Failed to detach tag from POI", err, map[string]interface{}{
			"poi_id": poi.ID,
			"tag_id": tag.ID,
		})
		return err
	}
	return nil
}

// touch refreshes a POI's updated_at without going through model hooks.
func (r *poiRepository) touch(tx *gorm.DB, poiID uint, now time.Time) error {
	return tx.Model(&model.POI{}).Where("id = ?", poiID).
		UpdateColumn("updated_at", now).Error
}

func (r *poiRepository) ArchiveTemporariesBefore(cutoff time.Time, now time.Time) (int64, error) {
	result := r.db.Model(&model.POI{}).
		Where("status = ? AND updated_at < ?", model.StatusTemporary, cutoff).
		Updates(map[string]interface{}{
			"status":     model.StatusArchived,
			"updated_at": now,
		})
	if result.Error != nil {
		logger.Error("Failed to archive temporary POIs", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
