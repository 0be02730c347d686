package service

import (
	"errors"
	"strings"
	"time"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/internal/app/repository"
	"github.com/geopin/geopin-backend/pkg/geo"
	"github.com/geopin/geopin-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPOINotFound        = errors.New("POI not found")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrInvalidStatus      = errors.New("unknown POI status")
	ErrInvalidRadius      = errors.New("radius must not be negative")
	ErrInvalidBoundingBox = errors.New("bounding box corners are inverted or cross the antimeridian")
)

// POIInput carries a whole-field replacement payload for a POI. Every scalar
// field is applied as given; TagIDs is the one optional part: nil leaves the
// tag set untouched, non-nil replaces it wholesale.
type POIInput struct {
	Name            string
	Description     string
	Latitude        float64
	Longitude       float64
	SourceReference string
	Status          model.POIStatus // empty: ACTIVE on create, unchanged on update
	TagIDs          *[]uint
}

type POIListOptions struct {
	Status model.POIStatus
	Search string
}

type POIService interface {
	CreatePOI(input POIInput) (*model.POI, error)
	GetPOIByID(id uint) (*model.POI, error)
	ListPOIs(opts POIListOptions) ([]model.POI, error)
	UpdatePOI(id uint, input POIInput) (*model.POI, error)
	DeletePOI(id uint) error
	AddTag(poiID, tagID uint) (*model.POI, error)
	RemoveTag(poiID, tagID uint) (*model.POI, error)
	FindWithinDistance(lat, lon, radiusMeters float64) ([]model.POI, error)
	FindWithinBoundingBox(swLat, swLon, neLat, neLon float64) ([]model.POI, error)
	ArchiveStaleTemporaries(maxAge time.Duration) (int64, error)
}

type poiService struct {
	poiRepo repository.POIRepository
	tagRepo repository.TagRepository
}

func NewPOIService(poiRepo repository.POIRepository, tagRepo repository.TagRepository) POIService {
	return &poiService{
		poiRepo: poiRepo,
		tagRepo: tagRepo,
	}
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// resolveTags loads every referenced tag up front so a bad ID fails the
// operation before anything is written.
func (s *poiService) resolveTags(ids []uint) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		tag, err := s.tagRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTagNotFound
			}
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *poiService) CreatePOI(input POIInput) (*model.POI, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	status := input.Status
	if status == "" {
		status = model.StatusActive
	}
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	// Resolve tags before writing anything
	var tags []model.Tag
	if input.TagIDs != nil {
		resolved, err := s.resolveTags(*input.TagIDs)
		if err != nil {
			return nil, err
		}
		tags = resolved
	}

	now := time.Now()
	poi := &model.POI{
		Name:            input.Name,
		Description:     input.Description,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		SourceReference: input.SourceReference,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.poiRepo.Create(poi); err != nil {
		logger.Error("Failed to create POI", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	if len(tags) > 0 {
		if err := s.poiRepo.ReplaceTags(poi, tags, now); err != nil {
			return nil, err
		}
	}

	logger.Info("POI created", map[string]interface{}{
		"poi_id": poi.ID,
		"name":   poi.Name,
		"status": poi.Status,
	})
	return s.poiRepo.FindByID(poi.ID)
}

func (s *poiService) GetPOIByID(id uint) (*model.POI, error) {
	poi, err := s.poiRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("POI not found", map[string]interface{}{
				"poi_id": id,
			})
			return nil, ErrPOINotFound
		}
		logger.Error("Failed to fetch POI", err, map[string]interface{}{
			"poi_id": id,
		})
		return nil, err
	}
	return poi, nil
}

func (s *poiService) ListPOIs(opts POIListOptions) ([]model.POI, error) {
	if opts.Status != "" && !model.ValidStatus(opts.Status) {
		return nil, ErrInvalidStatus
	}
	return s.poiRepo.FindAll(repository.POIFilter{
		Status: opts.Status,
		Search: opts.Search,
	})
}

func (s *poiService) UpdatePOI(id uint, input POIInput) (*model.POI, error) {
	poi, err := s.GetPOIByID(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	status := input.Status
	if status == "" {
		status = poi.Status
	}
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var tags []model.Tag
	if input.TagIDs != nil {
		resolved, err := s.resolveTags(*input.TagIDs)
		if err != nil {
			return nil, err
		}
		tags = resolved
	}

	now := time.Now()
	poi.Name = input.Name
	poi.Description = input.Description
	poi.Latitude = input.Latitude
	poi.Longitude = input.Longitude
	poi.SourceReference = input.SourceReference
	poi.Status = status
	poi.UpdatedAt = now

	if err := s.poiRepo.Update(poi); err != nil {
		logger.Error("Failed to update POI", err, map[string]interface{}{
			"poi_id": id,
		})
		return nil, err
	}

	// Tags are replaced wholesale when supplied, never merged
	if input.TagIDs != nil {
		if err := s.poiRepo.ReplaceTags(poi, tags, now); err != nil {
			return nil, err
		}
	}

	logger.Info("POI updated", map[string]interface{}{
		"poi_id": poi.ID,
		"name":   poi.Name,
	})
	return s.poiRepo.FindByID(poi.ID)
}

func (s *poiService) DeletePOI(id uint) error {
	if _, err := s.GetPOIByID(id); err != nil {
		return err
	}

	if err := s.poiRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("POI deleted", map[string]interface{}{
		"poi_id": id,
	})
	return nil
}

func (s *poiService) AddTag(poiID, tagID uint) (*model.POI, error) {
	poi, err := s.GetPOIByID(poiID)
	if err != nil {
		return nil, err
	}

	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	if err := s.poiRepo.AddTag(poi, tag, time.Now()); err != nil {
		return nil, err
	}

	logger.Info("Tag attached to POI", map[string]interface{}{
		"poi_id": poiID,
		"tag_id": tagID,
	})
	return s.poiRepo.FindByID(poiID)
}

func (s *poiService) RemoveTag(poiID, tagID uint) (*model.POI, error) {
	poi, err := s.GetPOIByID(poiID)
	if err != nil {
		return nil, err
	}

	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	if err := s.poiRepo.RemoveTag(poi, tag, time.Now()); err != nil {
		return nil, err
	}

	logger.Info("Tag detached from POI", map[string]interface{}{
		"poi_id": poiID,
		"tag_id": tagID,
	})
	return s.poiRepo.FindByID(poiID)
}

// FindWithinDistance returns every POI whose great-circle distance from the
// given center is at most radiusMeters (boundary inclusive). The scan is
// linear over the full collection; at the scale this tool targets (hundreds
// of POIs) a spatial index would be overhead, not a win.
func (s *poiService) FindWithinDistance(lat, lon, radiusMeters float64) ([]model.POI, error) {
	if !validCoordinates(lat, lon) {
		return nil, ErrInvalidCoordinates
	}
	if radiusMeters < 0 {
		return nil, ErrInvalidRadius
	}

	pois, err := s.poiRepo.FindAll(repository.POIFilter{})
	if err != nil {
		return nil, err
	}

	matches := make([]model.POI, 0)
	for _, poi := range pois {
		if geo.Distance(lat, lon, poi.Latitude, poi.Longitude) <= radiusMeters {
			matches = append(matches, poi)
		}
	}

	logger.Debug("Radius search completed", map[string]interface{}{
		"lat":     lat,
		"lon":     lon,
		"radius":  radiusMeters,
		"scanned": len(pois),
		"matched": len(matches),
	})
	return matches, nil
}

// FindWithinBoundingBox returns every POI inside the rectangle spanned by
// the southwest and northeast corners, edges inclusive. Boxes that cross the
// antimeridian (swLon > neLon) are not supported and are rejected rather
// than silently matching nothing.
func (s *poiService) FindWithinBoundingBox(swLat, swLon, neLat, neLon float64) ([]model.POI, error) {
	if !validCoordinates(swLat, swLon) || !validCoordinates(neLat, neLon) {
		return nil, ErrInvalidCoordinates
	}
	if swLat > neLat || swLon > neLon {
		return nil, ErrInvalidBoundingBox
	}

	pois, err := s.poiRepo.FindAll(repository.POIFilter{})
	if err != nil {
		return nil, err
	}

	matches := make([]model.POI, 0)
	for _, poi := range pois {
		if geo.InBoundingBox(poi.Latitude, poi.Longitude, swLat, swLon, neLat, neLon) {
			matches = append(matches, poi)
		}
	}

	logger.Debug("Bounding box search completed", map[string]interface{}{
		"sw_lat":  swLat,
		"sw_lon":  swLon,
		"ne_lat":  neLat,
		"ne_lon":  neLon,
		"scanned": len(pois),
		"matched": len(matches),
	})
	return matches, nil
}

// ArchiveStaleTemporaries flips TEMPORARY POIs that have not been touched
// for maxAge to ARCHIVED. Returns the number of POIs archived.
func (s *poiService) ArchiveStaleTemporaries(maxAge time.Duration) (int64, error) {
	now := time.Now()
	archived, err := s.poiRepo.ArchiveTemporariesBefore(now.Add(-maxAge), now)
	if err != nil {
		return 0, err
	}

	if archived > 0 {
		logger.Info("Stale temporary POIs archived", map[string]interface{}{
			"count":   archived,
			"max_age": maxAge.String(),
		})
	}
	return archived, nil
}
