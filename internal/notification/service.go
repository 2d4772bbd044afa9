package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new notification
func (s *Service) Create(ctx context.Context, recipientID int64, message string, entityType *string, entityID *int64) (*Notification, error) {
	return s.repo.Create(ctx, recipientID, message, entityType, entityID)
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves all notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Helper methods for creating specific notification types

// NotifyFriendRequest creates a notification for an incoming friend request
func (s *Service) NotifyFriendRequest(ctx context.Context, recipientID int64, requesterName string, friendshipID int64) (*Notification, error) {
	message := requesterName + " sent you a friend request"
	entityType := "FRIENDSHIP"
	return s.repo.Create(ctx, recipientID, message, &entityType, &friendshipID)
}

// NotifyGroupJoined creates a notification when someone joins a group by invitation
func (s *Service) NotifyGroupJoined(ctx context.Context, recipientID int64, memberName, groupName string, groupID int64) (*Notification, error) {
	message := memberName + " joined group: " + groupName
	entityType := "GROUP"
	return s.repo.Create(ctx, recipientID, message, &entityType, &groupID)
}

// NotifyExpenseAdded creates a notification for a new expense
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, creatorName string, amount decimal.Decimal, currency string, expenseID int64) (*Notification, error) {
	message := fmt.Sprintf("%s added an expense of %s %s that includes you", creatorName, amount.StringFixed(2), currency)
	entityType := "EXPENSE"
	return s.repo.Create(ctx, recipientID, message, &entityType, &expenseID)
}

// NotifyCommentAdded creates a notification for a new comment on an expense
func (s *Service) NotifyCommentAdded(ctx context.Context, recipientID int64, authorName string, expenseID int64) (*Notification, error) {
	message := authorName + " commented on an expense you are part of"
	entityType := "EXPENSE"
	return s.repo.Create(ctx, recipientID, message, &entityType, &expenseID)
}

// NotifySettlementRecorded creates a notification when someone records a payment to you
func (s *Service) NotifySettlementRecorded(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, settlementID int64) (*Notification, error) {
	message := fmt.Sprintf("%s recorded a payment of %s to you", payerName, amount.StringFixed(2))
	entityType := "SETTLEMENT"
	return s.repo.Create(ctx, recipientID, message, &entityType, &settlementID)
}
