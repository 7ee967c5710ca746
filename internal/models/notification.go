package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	UserID   uint   `gorm:"not null;index"`
	Type     string `gorm:"not null"` // "request_approved", "request_rejected", "edit_approved", "edit_rejected", "new_comment", "system"
	Message  string `gorm:"not null"`
	Read     bool   `gorm:"not null;default:false;index"`
	Link     string
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
