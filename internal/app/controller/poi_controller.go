package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/geopin/geopin-backend/internal/errors"
	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/internal/app/service"
	"github.com/geopin/geopin-backend/internal/middleware"
)

type POIController struct {
	poiService service.POIService
}

func NewPOIController(poiService service.POIService) *POIController {
	return &POIController{poiService: poiService}
}

type POIRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Latitude        *float64 `json:"latitude" binding:"required"`
	Longitude       *float64 `json:"longitude" binding:"required"`
	SourceReference string   `json:"source_reference"`
	Status          string   `json:"status"`
	TagIDs          *[]uint  `json:"tag_ids"`
}

func (req *POIRequest) toInput() service.POIInput {
	return service.POIInput{
		Name:            req.Name,
		Description:     req.Description,
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
		SourceReference: req.SourceReference,
		Status:          model.POIStatus(req.Status),
		TagIDs:          req.TagIDs,
	}
}

// respondServiceError maps service-level errors onto the API error envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPOINotFound):
		apperrors.NotFound(c, apperrors.POINotFound, "POI not found")
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found")
	case errors.Is(err, service.ErrNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationNameRequired, "Name must not be empty")
	case errors.Is(err, service.ErrTagNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationNameRequired, "Tag name must not be empty")
	case errors.Is(err, service.ErrInvalidCoordinates):
		apperrors.BadRequest(c, apperrors.ValidationInvalidCoords, "Latitude must be within [-90, 90] and longitude within [-180, 180]")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Status must be one of ACTIVE, ARCHIVED, TEMPORARY")
	case errors.Is(err, service.ErrInvalidRadius):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRadius, "Radius must not be negative")
	case errors.Is(err, service.ErrInvalidBoundingBox):
		apperrors.BadRequest(c, apperrors.ValidationInvalidBounds, "Bounding box corners are inverted or the box crosses the antimeridian")
	case errors.Is(err, service.ErrTagNameExists):
		apperrors.Conflict(c, apperrors.TagNameExists, "A tag with this name already exists")
	default:
		apperrors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	value, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Missing or invalid query parameter: "+name)
		return 0, false
	}
	return value, true
}

func (ctrl *POIController) CreatePOI(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req POIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid POI creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	poi, err := ctrl.poiService.CreatePOI(req.toInput())
	if err != nil {
		log.Warn("Failed to create POI", map[string]interface{}{
			"name":  req.Name,
			"error": err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	log.Info("POI created", map[string]interface{}{
		"poi_id": poi.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"poi": poi,
	})
}

func (ctrl *POIController) ListPOIs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.POIListOptions{
		Status: model.POIStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	pois, err := ctrl.poiService.ListPOIs(opts)
	if err != nil {
		log.Warn("Failed to list POIs", map[string]interface{}{
			"error": err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}

func (ctrl *POIController) GetPOIByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	poi, err := ctrl.poiService.GetPOIByID(id)
	if err != nil {
		log.Warn("Failed to fetch POI", map[string]interface{}{
			"poi_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"poi": poi,
	})
}

func (ctrl *POIController) UpdatePOI(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req POIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid POI update request", map[string]interface{}{
			"poi_id": id,
			"error":  err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	poi, err := ctrl.poiService.UpdatePOI(id, req.toInput())
	if err != nil {
		log.Warn("Failed to update POI", map[string]interface{}{
			"poi_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	log.Info("POI updated", map[string]interface{}{
		"poi_id": poi.ID,
	})
	c.JSON(http.StatusOK, gin.H{
		"poi": poi,
	})
}

func (ctrl *POIController) DeletePOI(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.poiService.DeletePOI(id); err != nil {
		log.Warn("Failed to delete POI", map[string]interface{}{
			"poi_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	log.Info("POI deleted", map[string]interface{}{
		"poi_id": id,
	})
	c.Status(http.StatusNoContent)
}

// SearchRadius handles GET /pois/search/radius?lat=..&lng=..&distance=..
func (ctrl *POIController) SearchRadius(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}
	distance, ok := parseFloatQuery(c, "distance")
	if !ok {
		return
	}

	pois, err := ctrl.poiService.FindWithinDistance(lat, lng, distance)
	if err != nil {
		log.Warn("Radius search failed", map[string]interface{}{
			"lat":      lat,
			"lng":      lng,
			"distance": distance,
			"error":    err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}

// SearchBounds handles GET /pois/search/bounds?sw_lat=..&sw_lng=..&ne_lat=..&ne_lng=..
func (ctrl *POIController) SearchBounds(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	swLat, ok := parseFloatQuery(c, "sw_lat")
	if !ok {
		return
	}
	swLng, ok := parseFloatQuery(c, "sw_lng")
	if !ok {
		return
	}
	neLat, ok := parseFloatQuery(c, "ne_lat")
	if !ok {
		return
	}
	neLng, ok := parseFloatQuery(c, "ne_lng")
	if !ok {
		return
	}

	pois, err := ctrl.poiService.FindWithinBoundingBox(swLat, swLng, neLat, neLng)
	if err != nil {
		log.Warn("Bounding box search failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}

// SearchText handles GET /pois/search/text?q=.. with a case-insensitive
// substring match over name and description.
func (ctrl *POIController) SearchText(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	q := c.Query("q")
	if q == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Missing query parameter: q")
		return
	}

	pois, err := ctrl.poiService.ListPOIs(service.POIListOptions{Search: q})
	if err != nil {
		log.Warn("Text search failed", map[string]interface{}{
			"q":     q,
			"error": err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}

func (ctrl *POIController) AddTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	poiID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	poi, err := ctrl.poiService.AddTag(poiID, tagID)
	if err != nil {
		log.Warn("Failed to attach tag to POI", map[string]interface{}{
			"poi_id": poiID,
			"tag_id": tagID,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"poi": poi,
	})
}

func (ctrl *POIController) RemoveTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	poiID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	poi, err := ctrl.poiService.RemoveTag(poiID, tagID)
	if err != nil {
		log.Warn("Failed to detach tag from POI", map[string]interface{}{
			"poi_id": poiID,
			"tag_id": tagID,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"poi": poi,
	})
}
