package main

import (
	"errors"

	"github.com/geopin/geopin-backend/config"
	"github.com/geopin/geopin-backend/internal/app/repository"
	"github.com/geopin/geopin-backend/internal/app/service"
	"github.com/geopin/geopin-backend/internal/db"
	"github.com/geopin/geopin-backend/internal/app/model"
	"github.com/geopin/geopin-backend/pkg/logger"
)

type fixture struct {
	name        string
	description string
	latitude    float64
	longitude   float64
	source      string
	status      model.POIStatus
	tags        []string
}

var fixtures = []fixture{
	{
		name:        "Trafalgar Square",
		description: "Public square with Nelson's Column and the fountains",
		latitude:    51.5080,
		longitude:   -0.1284,
		source:      "seen on social media",
		tags:        []string{"viewpoint"},
	},
	{
		name:        "Leicester Square",
		description: "Cinema square in the West End",
		latitude:    51.5113,
		longitude:   -0.1283,
		tags:        []string{"restaurant"},
	},
	{
		name:        "St Paul's Cathedral",
		description: "Wren's dome on Ludgate Hill",
		latitude:    51.5138,
		longitude:   -0.0983,
		tags:        []string{"museum", "viewpoint"},
	},
	{
		name:        "Borough Market",
		description: "Food market by London Bridge",
		latitude:    51.5055,
		longitude:   -0.0910,
		tags:        []string{"restaurant", "shop"},
	},
	{
		name:        "Winter Lights Festival",
		description: "Canary Wharf light installations, January only",
		latitude:    51.5054,
		longitude:   -0.0235,
		status:      model.StatusTemporary,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	poiRepo := repository.NewPOIRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	poiService := service.NewPOIService(poiRepo, tagRepo)
	tagService := service.NewTagService(tagRepo)

	seeded := 0
	for _, f := range fixtures {
		tagIDs := make([]uint, 0, len(f.tags))
		for _, name := range f.tags {
			id, err := ensureTag(tagService, name)
			if err != nil {
				logger.Fatal("Failed to ensure tag", err, map[string]interface{}{
					"name": name,
				})
			}
			tagIDs = append(tagIDs, id)
		}

		input := service.POIInput{
			Name:            f.name,
			Description:     f.description,
			Latitude:        f.latitude,
			Longitude:       f.longitude,
			SourceReference: f.source,
			Status:          f.status,
		}
		if len(tagIDs) > 0 {
			input.TagIDs = &tagIDs
		}

		poi, err := poiService.CreatePOI(input)
		if err != nil {
			logger.Fatal("Failed to seed POI", err, map[string]interface{}{
				"name": f.name,
			})
		}

		logger.Info("Seeded POI", map[string]interface{}{
			"poi_id": poi.ID,
			"name":   poi.Name,
			"tags":   f.tags,
		})
		seeded++
	}

	logger.Info("Seeding finished", map[string]interface{}{
		"pois": seeded,
	})
}

// ensureTag creates the tag if missing and returns its id either way.
func ensureTag(tagService service.TagService, name string) (uint, error) {
	tag, err := tagService.CreateTag(name)
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, service.ErrTagNameExists) {
		return 0, err
	}

	tags, err := tagService.ListTags()
	if err != nil {
		return 0, err
	}
	for _, t := range tags {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return 0, service.ErrTagNotFound
}
