package service

import (
	"errors"
	"strings"
	"time"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/internal/app/repository"
	"github.com/geopin/geopin-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameExists   = errors.New("a tag with this name already exists")
	ErrTagNameRequired = errors.New("tag name is required")
)

type TagService interface {
	CreateTag(name string) (*model.Tag, error)
	GetTagByID(id uint) (*model.Tag, error)
	ListTags() ([]model.Tag, error)
	UpdateTag(id uint, name string) (*model.Tag, error)
	DeleteTag(id uint) error
	GetPOIsByTagName(name string) ([]model.POI, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// nameInUse reports whether another tag (excluding excludeID) already claims
// the name. Comparison is case-sensitive, matching tag lookup semantics.
func (s *tagService) nameInUse(name string, excludeID uint) (bool, error) {
	existing, err := s.tagRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (s *tagService) CreateTag(name string) (*model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrTagNameRequired
	}

	taken, err := s.nameInUse(name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Duplicate tag name", map[string]interface{}{
			"name": name,
		})
		return nil, ErrTagNameExists
	}

	now := time.Now()
	tag := &model.Tag{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	return tag, nil
}

func (s *tagService) GetTagByID(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Tag not found", map[string]interface{}{
				"tag_id": id,
			})
			return nil, ErrTagNotFound
		}
		logger.Error("Failed to fetch tag", err, map[string]interface{}{
			"tag_id": id,
		})
		return nil, err
	}
	return tag, nil
}

func (s *tagService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *tagService) UpdateTag(id uint, name string) (*model.Tag, error) {
	tag, err := s.GetTagByID(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrTagNameRequired
	}

	taken, err := s.nameInUse(name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTagNameExists
	}

	tag.Name = name
	tag.UpdatedAt = time.Now()
	if err := s.tagRepo.Update(tag); err != nil {
		logger.Error("Failed to update tag", err, map[string]interface{}{
			"tag_id": id,
		})
		return nil, err
	}

	logger.Info("Tag updated", map[string]interface{}{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	return tag, nil
}

// DeleteTag removes the tag and detaches it from every POI that carried it.
func (s *tagService) DeleteTag(id uint) error {
	if _, err := s.GetTagByID(id); err != nil {
		return err
	}

	if err := s.tagRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}

// GetPOIsByTagName returns every distinct POI carrying the exactly-named
// tag. An unknown tag name yields an empty list, not an error.
func (s *tagService) GetPOIsByTagName(name string) ([]model.POI, error) {
	return s.tagRepo.FindPOIsByTagName(name)
}
