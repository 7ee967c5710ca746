package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/auth"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"gorm.io/gorm"
)

type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

type RequestInput struct {
	PartCode      string
	Name          string
	Category      string
	ColorVariants []types.ColorVariant
	ImageURLs     []string
	Description   string
}

type RequestDecision struct {
	Status       string
	AdminComment string
}

type RequestFilters struct {
	Status string
	UserID uint
	Query  string
	Page   int
	Limit  int
}

type RequestPage struct {
	Data  []models.NewPartRequest
	Total int64
	Page  int
	Limit int
	Pages int
}

// HandleResult is the outcome of a moderation decision. Brick is only set
// for approvals.
type HandleResult struct {
	Request      *models.NewPartRequest
	Brick        *models.Brick
	Notification *models.Notification
}

// Submit files a new-part proposal owned by the actor. The descriptive
// fields are copied verbatim into a brick if the request is later approved.
func (s *RequestService) Submit(actor auth.Identity, input RequestInput) (*models.NewPartRequest, error) {
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, apperr.Validation("Request must have a name")
	}

	request := models.NewPartRequest{
		UserID:        actor.ID,
		PartCode:      normalizePartCode(input.PartCode),
		Name:          name,
		Category:      normalizeCategory(input.Category),
		ColorVariants: toJSON(input.ColorVariants),
		ImageURLs:     toJSON(input.ImageURLs),
		Description:   input.Description,
		Status:        types.RequestStatusSubmitted,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &request, nil
}

// Handle applies an admin decision to a submitted request, exactly once.
//
// The transition is a conditional update keyed on the stored status still
// being "submitted": of two concurrent decisions on the same request, one
// wins the row and the other observes InvalidState. That is what guarantees
// at most one brick and one outcome notification per request, even under
// retried calls.
//
// Approval copies the request into a published brick credited to the
// submitter. If the copied part code now collides with an existing brick it
// is dropped rather than failing the approval.
func (s *RequestService) Handle(id uint, admin auth.Identity, decision RequestDecision) (*HandleResult, error) {
	if decision.Status != types.RequestStatusApproved && decision.Status != types.RequestStatusRejected {
		return nil, apperr.Validation(`Status must be either "approved" or "rejected"`)
	}

	now := time.Now()

	transition := s.db.Model(&models.NewPartRequest{}).
		Where("id = ? AND status = ?", id, types.RequestStatusSubmitted).
		Updates(map[string]interface{}{
			"status":         decision.Status,
			"admin_comment":  decision.AdminComment,
			"date_handled":   now,
			"reviewed_by_id": admin.ID,
		})

	if transition.Error != nil {
		return nil, apperr.Internal(transition.Error)
	}

	if transition.RowsAffected == 0 {
		var existing models.NewPartRequest
		if err := s.db.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Request not found")
			}
			return nil, apperr.Internal(err)
		}
		return nil, apperr.InvalidState("This request has already been handled")
	}

	var request models.NewPartRequest

	if err := s.db.Preload("User").Preload("ReviewedBy").First(&request, id).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if decision.Status == types.RequestStatusApproved {
		return s.promote(&request)
	}

	notification, err := s.notify(request.UserID, types.NotificationRequestRejected,
		strings.TrimSpace(fmt.Sprintf("Your request %q was rejected. %s", request.Name, decision.AdminComment)),
		"/my-contributions")

	if err != nil {
		return nil, err
	}

	return &HandleResult{Request: &request, Notification: notification}, nil
}

// promote copies an approved request into the catalog. Attribution goes to
// the original submitter, not the approving admin.
func (s *RequestService) promote(request *models.NewPartRequest) (*HandleResult, error) {
	partCode := request.PartCode

	if partCode != nil {
		var count int64
		err := s.db.Model(&models.Brick{}).Where("part_code = ?", *partCode).Count(&count).Error
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if count > 0 {
			// Never lose an approval to a code collision: ship the brick
			// without the code instead of blocking promotion.
			partCode = nil
		}
	}

	submitter := request.UserID

	brick := models.Brick{
		PartCode:      partCode,
		Name:          request.Name,
		Category:      request.Category,
		ColorVariants: request.ColorVariants,
		ImageURLs:     request.ImageURLs,
		Description:   request.Description,
		CreatedByID:   &submitter,
		Status:        types.BrickStatusPublished,
	}

	if err := s.db.Create(&brick).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	notification, err := s.notify(request.UserID, types.NotificationRequestApproved,
		fmt.Sprintf("Your new part request %q has been approved and added to the catalog!", request.Name),
		fmt.Sprintf("/bricks/%d", brick.ID))

	if err != nil {
		return nil, err
	}

	return &HandleResult{Request: request, Brick: &brick, Notification: notification}, nil
}

func (s *RequestService) notify(userID uint, notificationType, message, link string) (*models.Notification, error) {
	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Message: message,
		Link:    link,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &notification, nil
}

// Get returns one request, visible to its submitter and to admins only.
func (s *RequestService) Get(id uint, actor auth.Identity) (*models.NewPartRequest, error) {
	var request models.NewPartRequest

	if err := s.db.Preload("User").Preload("ReviewedBy").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Request not found")
		}
		return nil, apperr.Internal(err)
	}

	if !actor.IsAdmin() && request.UserID != actor.ID {
		return nil, apperr.Forbidden("You do not have permission to view this request")
	}

	return &request, nil
}

// List pages through requests, newest first. Non-admin actors are pinned to
// their own submissions whatever user filter they ask for.
func (s *RequestService) List(actor auth.Identity, filters RequestFilters) (*RequestPage, error) {
	page, limit := normalizePage(filters.Page, filters.Limit)

	var total int64

	if err := s.scopedRequests(actor, filters).Count(&total).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var requests []models.NewPartRequest

	err := s.scopedRequests(actor, filters).
		Preload("User").
		Preload("ReviewedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &RequestPage{
		Data:  requests,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pageCount(total, limit),
	}, nil
}

// Delete removes a request permanently. Admin-only by routing; no
// notification is emitted.
func (s *RequestService) Delete(id uint) error {
	var request models.NewPartRequest

	if err := s.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Request not found")
		}
		return apperr.Internal(err)
	}

	if err := s.db.Unscoped().Delete(&request).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}

func (s *RequestService) scopedRequests(actor auth.Identity, filters RequestFilters) *gorm.DB {
	query := s.db.Model(&models.NewPartRequest{})

	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	} else if filters.UserID != 0 {
		query = query.Where("user_id = ?", filters.UserID)
	}

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.Query != "" {
		pattern := containsPattern(filters.Query)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(part_code) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	return query
}
