package model

import (
	"time"
)

type POIStatus string

const (
	// StatusActive is a normal, visible POI that is currently relevant
	StatusActive POIStatus = "ACTIVE"
	// StatusArchived is a POI that has been hidden but preserved
	StatusArchived POIStatus = "ARCHIVED"
	// StatusTemporary marks a time-limited location or event
	StatusTemporary POIStatus = "TEMPORARY"
)

// ValidStatus reports whether s is one of the known POI statuses.
func ValidStatus(s POIStatus) bool {
	switch s {
	case StatusActive, StatusArchived, StatusTemporary:
		return true
	}
	return false
}

// POI is a point of interest: a named geographic location the user wants to
// remember. Latitude and longitude are the single stored representation of
// the location; any geometry view is derived from them on demand (see
// Location), so the two can never diverge.
type POI struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	Latitude        float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`   // WGS84, [-90, 90]
	Longitude       float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`  // WGS84, [-180, 180]
	SourceReference string    `gorm:"type:text" json:"source_reference"`             // where the user found the place
	Status          POIStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// POI owns the many-to-many relationship with tags
	Tags []Tag `gorm:"many2many:poi_tags;" json:"tags"`
}

func (POI) TableName() string {
	return "pois"
}

// Point is a GeoJSON-style coordinate pair (x = longitude, y = latitude).
type Point struct {
	Longitude float64 `json:"lng"`
	Latitude  float64 `json:"lat"`
}

// Location derives the point geometry from the stored coordinates.
func (p *POI) Location() Point {
	return Point{Longitude: p.Longitude, Latitude: p.Latitude}
}

// HasTag reports whether the POI carries a tag with the given name.
// Comparison is case-sensitive.
func (p *POI) HasTag(name string) bool {
	for _, tag := range p.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}
