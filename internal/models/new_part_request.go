package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NewPartRequest struct {
	gorm.Model

	UserID        uint    `gorm:"not null;index"`
	PartCode      *string // uppercased on write, copied (not checked) until promotion
	Name          string  `gorm:"not null"`
	Category      string  // lowercased on write
	ColorVariants datatypes.JSON `gorm:"type:jsonb"`
	ImageURLs     datatypes.JSON `gorm:"type:jsonb"`
	Description   string         `gorm:"size:2000"`
	Status        string         `gorm:"not null;default:submitted;index"` // "submitted", "approved", "rejected"
	AdminComment  string
	DateHandled   *time.Time
	ReviewedByID  *uint `gorm:"index"`

	// Relationships
	User       User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
