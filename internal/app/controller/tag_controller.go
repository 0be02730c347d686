package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/geopin/geopin-backend/internal/errors"
	"github.com/geopin/geopin-backend/internal/app/service"
	"github.com/geopin/geopin-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

func (ctrl *TagController) CreateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tag creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	tag, err := ctrl.tagService.CreateTag(req.Name)
	if err != nil {
		log.Warn("Failed to create tag", map[string]interface{}{
			"name":  req.Name,
			"error": err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	log.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"tag": tag,
	})
}

func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		log.Error("Failed to list tags", err, nil)
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  tags,
		"count": len(tags),
	})
}

func (ctrl *TagController) GetTagByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTagByID(id)
	if err != nil {
		log.Warn("Failed to fetch tag", map[string]interface{}{
			"tag_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag": tag,
	})
}

func (ctrl *TagController) UpdateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tag update request", map[string]interface{}{
			"tag_id": id,
			"error":  err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	tag, err := ctrl.tagService.UpdateTag(id, req.Name)
	if err != nil {
		log.Warn("Failed to update tag", map[string]interface{}{
			"tag_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tag": tag,
	})
}

func (ctrl *TagController) DeleteTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.tagService.DeleteTag(id); err != nil {
		log.Warn("Failed to delete tag", map[string]interface{}{
			"tag_id": id,
			"error":  err.Error(),
		})
		respondServiceError(c, err)
		return
	}

	log.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	c.Status(http.StatusNoContent)
}

// GetPOIsByTagName handles GET /tags/search/:name/pois. An unknown tag name
// returns an empty list, not a 404.
func (ctrl *TagController) GetPOIsByTagName(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.Param("name")

	pois, err := ctrl.tagService.GetPOIsByTagName(name)
	if err != nil {
		log.Error("Failed to find POIs by tag name", err, map[string]interface{}{
			"name": name,
		})
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}
