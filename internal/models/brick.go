package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Brick struct {
	gorm.Model

	// Manufacturer part code, uppercased on write. Optional; uniqueness is
	// only enforced when present, so it stays a nullable column.
	PartCode       *string `gorm:"uniqueIndex"`
	Name           string  `gorm:"not null;index"`
	Category       string  `gorm:"index"` // lowercased on write
	ColorVariants  datatypes.JSON `gorm:"type:jsonb"`
	ImageURLs      datatypes.JSON `gorm:"type:jsonb"`
	Description    string         `gorm:"size:2000"`
	SetAppearances datatypes.JSON `gorm:"type:jsonb"`
	Dimensions     datatypes.JSON `gorm:"type:jsonb"`
	CreatedByID    *uint          `gorm:"index"` // nullable: the creator may be deleted later
	Status         string         `gorm:"not null;default:published;index"` // "published", "pending", "rejected"
	Views          int64          `gorm:"not null;default:0"`

	// Relationships
	CreatedBy  *User       `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Favourites []Favourite `gorm:"foreignKey:BrickID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
