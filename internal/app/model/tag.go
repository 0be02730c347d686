package model

import (
	"time"
)

// Tag is a free-form label that can be attached to any number of POIs.
// Names are unique and case-sensitive.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Back-reference, derived from the join table; POI.Tags owns the
	// relationship.
	POIs []POI `gorm:"many2many:poi_tags;" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}

// POITag represents the many-to-many relationship between POIs and tags
type POITag struct {
	POIID     uint      `gorm:"primaryKey;index" json:"poi_id"`
	TagID     uint      `gorm:"primaryKey;index" json:"tag_id"`
	POI       POI       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Tag       Tag       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (POITag) TableName() string {
	return "poi_tags"
}
