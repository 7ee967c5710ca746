package models

import "gorm.io/gorm"

// Favourite links a user to a brick they bookmarked. One row per pair.
type Favourite struct {
	gorm.Model

	UserID  uint `gorm:"not null;uniqueIndex:idx_favourites_user_brick"`
	BrickID uint `gorm:"not null;uniqueIndex:idx_favourites_user_brick;index"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Brick Brick `gorm:"foreignKey:BrickID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
