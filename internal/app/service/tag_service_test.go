package service

import (
	"testing"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_CreateTag(t *testing.T) {
	_, tagService, _ := setupPOIServiceTest(t)

	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	assert.NotZero(t, tag.ID)
	assert.Equal(t, "restaurant", tag.Name)
	assert.False(t, tag.CreatedAt.IsZero())

	_, err = tagService.CreateTag("restaurant")
	assert.ErrorIs(t, err, ErrTagNameExists)

	_, err = tagService.CreateTag("   ")
	assert.ErrorIs(t, err, ErrTagNameRequired)

	// Names are case-sensitive, so this is a different tag
	_, err = tagService.CreateTag("Restaurant")
	assert.NoError(t, err)
}

func TestTagService_GetTagByID_NotFound(t *testing.T) {
	_, tagService, _ := setupPOIServiceTest(t)

	tag, err := tagService.GetTagByID(9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.Nil(t, tag)
}

func TestTagService_ListTags(t *testing.T) {
	_, tagService, _ := setupPOIServiceTest(t)

	for _, name := range []string{"cafe", "bar", "restaurant"} {
		_, err := tagService.CreateTag(name)
		require.NoError(t, err)
	}

	tags, err := tagService.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 3)
}

func TestTagService_UpdateTag(t *testing.T) {
	_, tagService, _ := setupPOIServiceTest(t)

	tag, err := tagService.CreateTag("restuarant")
	require.NoError(t, err)
	other, err := tagService.CreateTag("cafe")
	require.NoError(t, err)

	updated, err := tagService.UpdateTag(tag.ID, "restaurant")
	require.NoError(t, err)
	assert.Equal(t, "restaurant", updated.Name)

	// Renaming onto an existing name is a conflict
	_, err = tagService.UpdateTag(other.ID, "restaurant")
	assert.ErrorIs(t, err, ErrTagNameExists)

	// Renaming a tag to its own name is fine
	_, err = tagService.UpdateTag(tag.ID, "restaurant")
	assert.NoError(t, err)

	_, err = tagService.UpdateTag(9999, "whatever")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagService_DeleteTag_DetachesFromPOIs(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	_, err = poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)

	require.NoError(t, tagService.DeleteTag(tag.ID))

	// The POI survives and no longer carries the tag
	got, err := poiService.GetPOIByID(poi.ID)
	require.NoError(t, err)
	assert.False(t, got.HasTag("restaurant"))

	assert.ErrorIs(t, tagService.DeleteTag(tag.ID), ErrTagNotFound)
}

func TestTagService_GetPOIsByTagName(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	trafalgar := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	leicester := createPOI(t, poiService, "Leicester Square", 51.5113, -0.1283)
	createPOI(t, poiService, "St Paul's", 51.5138, -0.0983)

	restaurant, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	_, err = poiService.AddTag(trafalgar.ID, restaurant.ID)
	require.NoError(t, err)
	_, err = poiService.AddTag(leicester.ID, restaurant.ID)
	require.NoError(t, err)

	tagged, err := tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Trafalgar Square", "Leicester Square"}, poiNames(tagged))

	// Lookup is case-sensitive
	tagged, err = tagService.GetPOIsByTagName("Restaurant")
	require.NoError(t, err)
	assert.Len(t, tagged, 0)

	// Unknown names yield an empty list, not an error
	tagged, err = tagService.GetPOIsByTagName("penguin-exhibit")
	require.NoError(t, err)
	assert.Len(t, tagged, 0)
}

func TestTagService_GetPOIsByTagName_Distinct(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)

	// Attaching twice is a no-op, not a duplicate row
	_, err = poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)
	withTag, err := poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)
	assert.Len(t, withTag.Tags, 1)

	tagged, err := tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)
}

func TestTagService_TagsSurviveStatusChanges(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	_, err = poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)

	_, err = poiService.UpdatePOI(poi.ID, POIInput{
		Name:      poi.Name,
		Latitude:  poi.Latitude,
		Longitude: poi.Longitude,
		Status:    model.StatusArchived,
	})
	require.NoError(t, err)

	tagged, err := tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.Len(t, tagged, 1, "archiving a POI does not detach its tags")
}
