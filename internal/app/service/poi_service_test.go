package service

import (
	"testing"
	"time"

	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/internal/app/repository"
	"github.com/geopin/geopin-backend/internal/db"
	"github.com/geopin/geopin-backend/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPOIServiceTest(t *testing.T) (POIService, TagService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	poiRepo := repository.NewPOIRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	return NewPOIService(poiRepo, tagRepo), NewTagService(tagRepo), testDB
}

func createPOI(t *testing.T, svc POIService, name string, lat, lon float64) *model.POI {
	t.Helper()
	poi, err := svc.CreatePOI(POIInput{Name: name, Latitude: lat, Longitude: lon})
	require.NoError(t, err)
	return poi
}

// The three central-London fixtures used by the search scenarios.
func createLondonPOIs(t *testing.T, svc POIService) (trafalgar, leicester, stPauls *model.POI) {
	t.Helper()
	trafalgar = createPOI(t, svc, "Trafalgar Square", 51.5080, -0.1284)
	leicester = createPOI(t, svc, "Leicester Square", 51.5113, -0.1283)
	stPauls = createPOI(t, svc, "St Paul's", 51.5138, -0.0983)
	return
}

func poiNames(pois []model.POI) []string {
	names := make([]string, 0, len(pois))
	for _, poi := range pois {
		names = append(names, poi.Name)
	}
	return names
}

func TestPOIService_CreatePOI(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	poi, err := poiService.CreatePOI(POIInput{
		Name:            "Trafalgar Square",
		Description:     "Public square with Nelson's Column",
		Latitude:        51.5080,
		Longitude:       -0.1284,
		SourceReference: "seen on social media",
	})
	require.NoError(t, err)

	assert.NotZero(t, poi.ID)
	assert.Equal(t, "Trafalgar Square", poi.Name)
	assert.Equal(t, model.StatusActive, poi.Status, "status should default to ACTIVE")
	assert.Equal(t, "seen on social media", poi.SourceReference)
	assert.False(t, poi.CreatedAt.IsZero())
	assert.False(t, poi.UpdatedAt.IsZero())

	// The derived geometry view must always agree with the stored fields
	location := poi.Location()
	assert.Equal(t, poi.Latitude, location.Latitude)
	assert.Equal(t, poi.Longitude, location.Longitude)
}

func TestPOIService_CreatePOI_Validation(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	badTagIDs := []uint{9999}
	tests := []struct {
		name    string
		input   POIInput
		wantErr error
	}{
		{
			name:    "Empty name",
			input:   POIInput{Name: "   ", Latitude: 51.5, Longitude: -0.1},
			wantErr: ErrNameRequired,
		},
		{
			name:    "Latitude above range",
			input:   POIInput{Name: "North of north", Latitude: 90.1, Longitude: 0},
			wantErr: ErrInvalidCoordinates,
		},
		{
			name:    "Latitude below range",
			input:   POIInput{Name: "South of south", Latitude: -90.1, Longitude: 0},
			wantErr: ErrInvalidCoordinates,
		},
		{
			name:    "Longitude out of range",
			input:   POIInput{Name: "Beyond the antimeridian", Latitude: 0, Longitude: -180.5},
			wantErr: ErrInvalidCoordinates,
		},
		{
			name:    "Unknown status",
			input:   POIInput{Name: "Somewhere", Latitude: 0, Longitude: 0, Status: "HIDDEN"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "Unknown tag id",
			input:   POIInput{Name: "Somewhere", Latitude: 0, Longitude: 0, TagIDs: &badTagIDs},
			wantErr: ErrTagNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poi, err := poiService.CreatePOI(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, poi)
		})
	}

	// Nothing was written by any of the failed creates
	pois, err := poiService.ListPOIs(POIListOptions{})
	require.NoError(t, err)
	assert.Len(t, pois, 0)
}

func TestPOIService_CreatePOI_BoundaryCoordinates(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	corners := [][2]float64{
		{90, 180},
		{-90, -180},
		{0, 0},
	}
	for _, c := range corners {
		_, err := poiService.CreatePOI(POIInput{Name: "Edge case", Latitude: c[0], Longitude: c[1]})
		assert.NoError(t, err)
	}
}

func TestPOIService_GetPOIByID_NotFound(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	poi, err := poiService.GetPOIByID(9999)
	assert.ErrorIs(t, err, ErrPOINotFound)
	assert.Nil(t, poi)
}

func TestPOIService_UpdatePOI(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	createdAt := poi.CreatedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := poiService.UpdatePOI(poi.ID, POIInput{
		Name:        "Trafalgar Square (renamed)",
		Description: "Now with a description",
		Latitude:    51.5081,
		Longitude:   -0.1285,
		Status:      model.StatusArchived,
	})
	require.NoError(t, err)

	assert.Equal(t, "Trafalgar Square (renamed)", updated.Name)
	assert.Equal(t, "Now with a description", updated.Description)
	assert.Equal(t, 51.5081, updated.Latitude)
	assert.Equal(t, model.StatusArchived, updated.Status)
	assert.Equal(t, createdAt.Unix(), updated.CreatedAt.Unix(), "createdAt is immutable")
	assert.True(t, updated.UpdatedAt.After(createdAt))

	// Derived geometry follows the new coordinates
	assert.Equal(t, updated.Longitude, updated.Location().Longitude)

	// Tag set untouched when TagIDs is nil, replaced wholesale when supplied
	restaurant, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	cafe, err := tagService.CreateTag("cafe")
	require.NoError(t, err)

	withTags := []uint{restaurant.ID, cafe.ID}
	updated, err = poiService.UpdatePOI(poi.ID, POIInput{
		Name:      updated.Name,
		Latitude:  updated.Latitude,
		Longitude: updated.Longitude,
		TagIDs:    &withTags,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)

	onlyCafe := []uint{cafe.ID}
	updated, err = poiService.UpdatePOI(poi.ID, POIInput{
		Name:      updated.Name,
		Latitude:  updated.Latitude,
		Longitude: updated.Longitude,
		TagIDs:    &onlyCafe,
	})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "cafe", updated.Tags[0].Name)

	updated, err = poiService.UpdatePOI(poi.ID, POIInput{
		Name:      updated.Name,
		Latitude:  updated.Latitude,
		Longitude: updated.Longitude,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 1, "nil TagIDs leaves the tag set alone")
}

func TestPOIService_UpdatePOI_NotFoundLeavesStoreUnchanged(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)

	_, err := poiService.UpdatePOI(9999, POIInput{
		Name:      "Ghost",
		Latitude:  0,
		Longitude: 0,
	})
	assert.ErrorIs(t, err, ErrPOINotFound)

	pois, err := poiService.ListPOIs(POIListOptions{})
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "Trafalgar Square", pois[0].Name)
}

func TestPOIService_DeletePOI(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)
	_, err = poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)

	require.NoError(t, poiService.DeletePOI(poi.ID))

	_, err = poiService.GetPOIByID(poi.ID)
	assert.ErrorIs(t, err, ErrPOINotFound)

	// Detached from the tag's back-reference, but the tag itself survives
	pois, err := tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.Len(t, pois, 0)
	_, err = tagService.GetTagByID(tag.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, poiService.DeletePOI(poi.ID), ErrPOINotFound)
}

func TestPOIService_FindWithinDistance_LondonScenario(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)
	createLondonPOIs(t, poiService)

	within1km, err := poiService.FindWithinDistance(51.5080, -0.1284, 1000)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Trafalgar Square", "Leicester Square"}, poiNames(within1km))

	within3km, err := poiService.FindWithinDistance(51.5080, -0.1284, 3000)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"Trafalgar Square", "Leicester Square", "St Paul's"},
		poiNames(within3km))
}

func TestPOIService_FindWithinDistance_Monotonicity(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)
	createLondonPOIs(t, poiService)

	radii := []float64{0, 500, 1000, 2500, 5000}
	var previous map[string]bool
	for _, radius := range radii {
		pois, err := poiService.FindWithinDistance(51.5080, -0.1284, radius)
		require.NoError(t, err)

		current := make(map[string]bool, len(pois))
		for _, name := range poiNames(pois) {
			current[name] = true
		}

		for name := range previous {
			assert.True(t, current[name],
				"POI %q inside radius %v must stay inside every larger radius", name, radius)
		}
		previous = current
	}
}

func TestPOIService_FindWithinDistance_BoundaryInclusive(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	center := [2]float64{51.5080, -0.1284}
	poi := createPOI(t, poiService, "Leicester Square", 51.5113, -0.1283)

	exact := geo.Distance(center[0], center[1], poi.Latitude, poi.Longitude)

	pois, err := poiService.FindWithinDistance(center[0], center[1], exact)
	require.NoError(t, err)
	assert.Len(t, pois, 1, "a POI exactly on the radius boundary is included")
}

func TestPOIService_FindWithinDistance_Validation(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	_, err := poiService.FindWithinDistance(91, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = poiService.FindWithinDistance(51.5, -0.1, -1)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestPOIService_FindWithinBoundingBox(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)
	createLondonPOIs(t, poiService)

	// Box around the West End: catches the two squares, excludes St Paul's
	pois, err := poiService.FindWithinBoundingBox(51.50, -0.13, 51.52, -0.12)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Trafalgar Square", "Leicester Square"}, poiNames(pois))
}

func TestPOIService_FindWithinBoundingBox_EdgeInclusive(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)

	// Degenerate box collapsed onto the POI itself: all four edges touch it
	pois, err := poiService.FindWithinBoundingBox(poi.Latitude, poi.Longitude, poi.Latitude, poi.Longitude)
	require.NoError(t, err)
	assert.Len(t, pois, 1)
}

func TestPOIService_FindWithinBoundingBox_Validation(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	tests := []struct {
		name                       string
		swLat, swLon, neLat, neLon float64
		wantErr                    error
	}{
		{"Crosses antimeridian", -1, 179.0, 1, -179.0, ErrInvalidBoundingBox},
		{"Inverted latitudes", 51.52, -0.13, 51.50, -0.12, ErrInvalidBoundingBox},
		{"Corner out of range", -91, 0, 1, 1, ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := poiService.FindWithinBoundingBox(tt.swLat, tt.swLon, tt.neLat, tt.neLon)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPOIService_ListPOIs_ByStatus(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	_, err := poiService.CreatePOI(POIInput{Name: "Open spot", Latitude: 51.50, Longitude: -0.12})
	require.NoError(t, err)
	_, err = poiService.CreatePOI(POIInput{Name: "Old spot", Latitude: 51.51, Longitude: -0.11, Status: model.StatusArchived})
	require.NoError(t, err)
	_, err = poiService.CreatePOI(POIInput{Name: "Pop-up", Latitude: 51.52, Longitude: -0.10, Status: model.StatusTemporary})
	require.NoError(t, err)

	active, err := poiService.ListPOIs(POIListOptions{Status: model.StatusActive})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Open spot"}, poiNames(active))

	archived, err := poiService.ListPOIs(POIListOptions{Status: model.StatusArchived})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Old spot"}, poiNames(archived))

	all, err := poiService.ListPOIs(POIListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = poiService.ListPOIs(POIListOptions{Status: "BOGUS"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPOIService_ListPOIs_Search(t *testing.T) {
	poiService, _, _ := setupPOIServiceTest(t)

	_, err := poiService.CreatePOI(POIInput{Name: "Trafalgar Square", Latitude: 51.5080, Longitude: -0.1284})
	require.NoError(t, err)
	_, err = poiService.CreatePOI(POIInput{Name: "Leicester Square", Latitude: 51.5113, Longitude: -0.1283})
	require.NoError(t, err)
	_, err = poiService.CreatePOI(POIInput{
		Name:        "St Paul's",
		Description: "Cathedral on Ludgate Hill",
		Latitude:    51.5138,
		Longitude:   -0.0983,
	})
	require.NoError(t, err)

	squares, err := poiService.ListPOIs(POIListOptions{Search: "SQUARE"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Trafalgar Square", "Leicester Square"}, poiNames(squares))

	// Matches the description as well as the name
	cathedral, err := poiService.ListPOIs(POIListOptions{Search: "cathedral"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"St Paul's"}, poiNames(cathedral))

	none, err := poiService.ListPOIs(POIListOptions{Search: "colosseum"})
	require.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestPOIService_AddRemoveTag_Bidirectional(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)

	withTag, err := poiService.AddTag(poi.ID, tag.ID)
	require.NoError(t, err)
	assert.True(t, withTag.HasTag("restaurant"))

	tagged, err := tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Trafalgar Square"}, poiNames(tagged))

	withoutTag, err := poiService.RemoveTag(poi.ID, tag.ID)
	require.NoError(t, err)
	assert.False(t, withoutTag.HasTag("restaurant"))

	tagged, err = tagService.GetPOIsByTagName("restaurant")
	require.NoError(t, err)
	assert.Len(t, tagged, 0)

	// Removing the tag from the POI never deletes the tag entity
	_, err = tagService.GetTagByID(tag.ID)
	assert.NoError(t, err)
}

func TestPOIService_AddTag_UnknownIDs(t *testing.T) {
	poiService, tagService, _ := setupPOIServiceTest(t)

	poi := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)
	tag, err := tagService.CreateTag("restaurant")
	require.NoError(t, err)

	_, err = poiService.AddTag(9999, tag.ID)
	assert.ErrorIs(t, err, ErrPOINotFound)

	_, err = poiService.AddTag(poi.ID, 9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestPOIService_ArchiveStaleTemporaries(t *testing.T) {
	poiService, _, testDB := setupPOIServiceTest(t)

	stale, err := poiService.CreatePOI(POIInput{
		Name:      "Winter market",
		Latitude:  51.50,
		Longitude: -0.12,
		Status:    model.StatusTemporary,
	})
	require.NoError(t, err)
	fresh, err := poiService.CreatePOI(POIInput{
		Name:      "Pop-up gallery",
		Latitude:  51.51,
		Longitude: -0.11,
		Status:    model.StatusTemporary,
	})
	require.NoError(t, err)
	active := createPOI(t, poiService, "Trafalgar Square", 51.5080, -0.1284)

	// Backdate the stale one past the cutoff
	require.NoError(t, testDB.Model(&model.POI{}).
		Where("id = ?", stale.ID).
		UpdateColumn("updated_at", time.Now().Add(-40*24*time.Hour)).Error)

	archived, err := poiService.ArchiveStaleTemporaries(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), archived)

	got, err := poiService.GetPOIByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, got.Status)

	got, err = poiService.GetPOIByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTemporary, got.Status, "fresh temporaries stay put")

	got, err = poiService.GetPOIByID(active.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status, "only TEMPORARY POIs are archived")
}
