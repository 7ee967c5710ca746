package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type BrickInput struct {
	PartCode       string
	Name           string
	Category       string
	ColorVariants  []types.ColorVariant
	ImageURLs      []string
	Description    string
	SetAppearances []types.SetAppearance
	Dimensions     *types.Dimensions
	Status         string
}

// BrickUpdate carries the allow-listed mutable fields. Nil means
// "leave untouched"; anything outside this set never reaches the row.
type BrickUpdate struct {
	PartCode       *string
	Name           *string
	Category       *string
	ColorVariants  *[]types.ColorVariant
	ImageURLs      *[]string
	Description    *string
	SetAppearances *[]types.SetAppearance
	Dimensions     *types.Dimensions
}

type BrickFilters struct {
	Query    string
	Category string
	Color    string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

type BrickPage struct {
	Data  []models.Brick
	Total int64
	Page  int
	Limit int
	Pages int
}

// Create inserts a new brick. Submissions from the "user" role are forced
// to pending so they never bypass the review gate; privileged roles may
// pick a status and default to published.
func (s *CatalogService) Create(actor auth.Identity, input BrickInput) (*models.Brick, error) {
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, apperr.Validation("Brick name is required")
	}

	partCode := normalizePartCode(input.PartCode)

	if partCode != nil {
		taken, err := s.partCodeTaken(*partCode, 0)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if taken {
			return nil, apperr.Conflict("A brick with this part code already exists")
		}
	}

	status := types.BrickStatusPublished

	if actor.Role == types.RoleUser {
		status = types.BrickStatusPending
	} else if input.Status != "" {
		if !validBrickStatus(input.Status) {
			return nil, apperr.Validation("Invalid brick status")
		}
		status = input.Status
	}

	createdBy := actor.ID

	brick := models.Brick{
		PartCode:       partCode,
		Name:           name,
		Category:       normalizeCategory(input.Category),
		ColorVariants:  toJSON(input.ColorVariants),
		ImageURLs:      toJSON(input.ImageURLs),
		Description:    input.Description,
		SetAppearances: toJSON(input.SetAppearances),
		CreatedByID:    &createdBy,
		Status:         status,
	}

	if input.Dimensions != nil {
		brick.Dimensions = toJSON(input.Dimensions)
	}

	if err := s.db.Create(&brick).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if err := s.db.Preload("CreatedBy").First(&brick, brick.ID).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &brick, nil
}

// Get fetches one brick and bumps its view counter. The creator reference
// may dangle; it resolves to nil rather than failing.
func (s *CatalogService) Get(id uint) (*models.Brick, error) {
	var brick models.Brick

	if err := s.db.Preload("CreatedBy").First(&brick, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Brick not found")
		}
		return nil, apperr.Internal(err)
	}

	if err := s.db.Model(&brick).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	brick.Views++

	return &brick, nil
}

// Update mutates the allow-listed fields of a brick owned by the actor (or
// any brick for admins). Changing the part code re-checks uniqueness
// against every other brick before applying.
func (s *CatalogService) Update(id uint, actor auth.Identity, update BrickUpdate) (*models.Brick, error) {
	var brick models.Brick

	if err := s.db.First(&brick, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Brick not found")
		}
		return nil, apperr.Internal(err)
	}

	if !auth.OwnerOrAdmin(actor, brick.CreatedByID) {
		return nil, apperr.Forbidden("You do not have permission to edit this brick")
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Validation("Brick name is required")
		}
		brick.Name = name
	}
	if update.Category != nil {
		brick.Category = normalizeCategory(*update.Category)
	}
	if update.ColorVariants != nil {
		brick.ColorVariants = toJSON(*update.ColorVariants)
	}
	if update.ImageURLs != nil {
		brick.ImageURLs = toJSON(*update.ImageURLs)
	}
	if update.Description != nil {
		brick.Description = *update.Description
	}
	if update.SetAppearances != nil {
		brick.SetAppearances = toJSON(*update.SetAppearances)
	}
	if update.Dimensions != nil {
		brick.Dimensions = toJSON(update.Dimensions)
	}

	if update.PartCode != nil {
		if partCode := normalizePartCode(*update.PartCode); partCode != nil {
			if brick.PartCode == nil || *brick.PartCode != *partCode {
				taken, err := s.partCodeTaken(*partCode, brick.ID)
				if err != nil {
					return nil, apperr.Internal(err)
				}
				if taken {
					return nil, apperr.Conflict("Part code already in use")
				}
				brick.PartCode = partCode
			}
		}
	}

	if err := s.db.Save(&brick).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &brick, nil
}

// Delete removes a brick and prunes it from every user's favourites. The
// cleanup runs immediately after the row delete and is a no-op when the
// brick was never favourited.
func (s *CatalogService) Delete(id uint, actor auth.Identity) error {
	var brick models.Brick

	if err := s.db.First(&brick, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Brick not found")
		}
		return apperr.Internal(err)
	}

	if !auth.OwnerOrAdmin(actor, brick.CreatedByID) {
		return apperr.Forbidden("You do not have permission to delete this brick")
	}

	if err := s.db.Unscoped().Delete(&brick).Error; err != nil {
		return apperr.Internal(err)
	}

	if err := s.db.Unscoped().Where("brick_id = ?", brick.ID).Delete(&models.Favourite{}).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// List returns a page of bricks. Non-admin and anonymous callers only ever
// see published bricks, regardless of a requested status filter.
func (s *CatalogService) List(actor *auth.Identity, filters BrickFilters) (*BrickPage, error) {
	page, limit := normalizePage(filters.Page, filters.Limit)

	var total int64

	if err := s.scopedBricks(actor, filters).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var bricks []models.Brick

	err := s.scopedBricks(actor, filters).
		Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bricks).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &BrickPage{
		Data:  bricks,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pageCount(total, limit),
	}, nil
}

// Categories lists the distinct non-empty categories of published bricks,
// alphabetically.
func (s *CatalogService) Categories() ([]string, error) {
	var categories []string

	err := s.db.Model(&models.Brick{}).
		Distinct("category").
		Where("status = ? AND category <> ''", types.BrickStatusPublished).
		Order("category ASC").
		Pluck("category", &categories).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	return categories, nil
}

func (s *CatalogService) scopedBricks(actor *auth.Identity, filters BrickFilters) *gorm.DB {
	query := s.db.Model(&models.Brick{})

	if actor != nil && actor.IsAdmin() {
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		}
	} else {
		query = query.Where("status = ?", types.BrickStatusPublished)
	}

	if filters.Category != "" {
		query = query.Where("category = ?", normalizeCategory(filters.Category))
	}

	if filters.Color != "" {
		query = query.Where("LOWER(CAST(color_variants AS TEXT)) LIKE ?", containsPattern(filters.Color))
	}

	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}

	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if filters.Query != "" {
		pattern := containsPattern(filters.Query)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(part_code) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	return query
}

func (s *CatalogService) partCodeTaken(partCode string, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Brick{}).Where("part_code = ?", partCode)

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func validBrickStatus(status string) bool {
	switch status {
	case types.BrickStatusPublished, types.BrickStatusPending, types.BrickStatusRejected:
		return true
	}
	return false
}

func normalizePartCode(partCode string) *string {
	partCode = strings.ToUpper(strings.TrimSpace(partCode))

	if partCode == "" {
		return nil
	}

	return &partCode
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func containsPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func pageCount(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func toJSON(value interface{}) datatypes.JSON {
	if value == nil {
		return nil
	}

	raw, err := json.Marshal(value)

	if err != nil {
		return nil
	}

	return datatypes.JSON(raw)
}
