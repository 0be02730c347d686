package repository

import (
	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *model.Tag) error
	Update(tag *model.Tag) error
	Delete(id uint) error
	FindByID(id uint) (*model.Tag, error)
	FindByName(name string) (*model.Tag, error)
	FindAll() ([]model.Tag, error)
	FindPOIsByTagName(name string) ([]model.POI, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name": tag.Name,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"name": tag.Name,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Update(tag *model.Tag) error {
	logger.Debug("Updating tag in database", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})

	if err := r.db.Save(tag).Error; err != nil {
		logger.Error("Failed to update tag in database", err, map[string]interface{}{
			"tag_id": tag.ID,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Delete(id uint) error {
	logger.Debug("Deleting tag from database", map[string]interface{}{
		"tag_id": id,
	})

	// Detach from every POI in the same transaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.POITag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete tag from database", err, map[string]interface{}{
			"tag_id": id,
		})
		return err
	}
	return nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByName(name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags", err)
		return nil, err
	}
	return tags, nil
}

// FindPOIsByTagName returns every distinct POI carrying the exactly-named
// tag. An unknown name yields an empty list.
func (r *tagRepository) FindPOIsByTagName(name string) ([]model.POI, error) {
	logger.Debug("Finding POIs by tag name", map[string]interface{}{
		"name": name,
	})

	var pois []model.POI
	err := r.db.Model(&model.POI{}).
		Distinct("pois.*").
		Joins("JOIN poi_tags ON poi_tags.poi_id = pois.id").
		Joins("JOIN tags ON tags.id = poi_tags.tag_id").
		Where("tags.name = ?", name).
		Preload("Tags").
		Find(&pois).Error
	if err != nil {
		logger.Error("Failed to find POIs by tag name", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Debug("POIs found by tag name", map[string]interface{}{
		"name":  name,
		"count": len(pois),
	})
	return pois, nil
}
