package services

import (
	"errors"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"gorm.io/gorm"
)

type FavouriteService struct {
	db *gorm.DB
}

func NewFavouriteService(db *gorm.DB) *FavouriteService {
	return &FavouriteService{db: db}
}

// List resolves the user's favourites to brick records, newest bookmark
// first. Favourites whose brick was deleted have already been pruned by the
// catalog's cleanup.
func (s *FavouriteService) List(userID uint) ([]models.Brick, error) {
	var favourites []models.Favourite

	err := s.db.Preload("Brick").Preload("Brick.CreatedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favourites).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	bricks := make([]models.Brick, 0, len(favourites))

	for _, favourite := range favourites {
		bricks = append(bricks, favourite.Brick)
	}

	return bricks, nil
}

// Add bookmarks a brick for the user. The brick must exist; bookmarking it
// twice is a conflict.
func (s *FavouriteService) Add(userID, brickID uint) error {
	var brick models.Brick

	if err := s.db.First(&brick, brickID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Brick not found")
		}
		return apperr.Internal(err)
	}

	var count int64

	err := s.db.Model(&models.Favourite{}).
		Where("user_id = ? AND brick_id = ?", userID, brickID).
		Count(&count).Error

	if err != nil {
		return apperr.Internal(err)
	}

	if count > 0 {
		return apperr.Conflict("Brick already in favourites")
	}

	favourite := models.Favourite{UserID: userID, BrickID: brickID}

	if err := s.db.Create(&favourite).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// Remove drops a bookmark. Removing one that is not there is a no-op.
func (s *FavouriteService) Remove(userID, brickID uint) error {
	err := s.db.Unscoped().
		Where("user_id = ? AND brick_id = ?", userID, brickID).
		Delete(&models.Favourite{}).Error

	if err != nil {
		return apperr.Internal(err)
	}

	return nil
}
