package services

import (
	"errors"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

type NotificationFilters struct {
	Read  *bool
	Page  int
	Limit int
}

type NotificationPage struct {
	Data        []models.Notification
	Total       int64
	UnreadCount int64
	Page        int
	Limit       int
	Pages       int
}

// List pages through the user's own notifications, newest first. The
// unread count ignores the read filter: it is always the total unread.
func (s *NotificationService) List(userID uint, filters NotificationFilters) (*NotificationPage, error) {
	page, limit := normalizePage(filters.Page, filters.Limit)

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if filters.Read != nil {
		query = query.Where("read = ?", *filters.Read)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var notifications []models.Notification

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	var unreadCount int64

	err = s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unreadCount).Error

	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &NotificationPage{
		Data:        notifications,
		Total:       total,
		UnreadCount: unreadCount,
		Page:        page,
		Limit:       limit,
		Pages:       pageCount(total, limit),
	}, nil
}

// MarkRead flags one of the user's notifications as read. The lookup is
// scoped to the owner, so someone else's notification id is
// indistinguishable from a missing one.
func (s *NotificationService) MarkRead(id, userID uint) (*models.Notification, error) {
	notification, err := s.owned(id, userID)

	if err != nil {
		return nil, err
	}

	notification.Read = true

	if err := s.db.Save(notification).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return notification, nil
}

// MarkAllRead bulk-flags every unread notification of the user. No-op when
// nothing is unread.
func (s *NotificationService) MarkAllRead(userID uint) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error

	if err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// Delete removes one of the user's notifications, with the same
// owner-scoped lookup as MarkRead.
func (s *NotificationService) Delete(id, userID uint) error {
	notification, err := s.owned(id, userID)

	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(notification).Error; err != nil {
		return apperr.Internal(err)
	}

	return nil
}

func (s *NotificationService) owned(id, userID uint) (*models.Notification, error) {
	var notification models.Notification

	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Notification not found")
		}
		return nil, apperr.Internal(err)
	}

	return &notification, nil
}
