package friend

import (
	"context"
	"errors"
	"log"

	"github.com/hamadalm/divvy/internal/notification"
)

// Common errors
var (
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrCannotFriendSelf   = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends     = errors.New("friendship already exists")
	ErrNotAddressee       = errors.New("only the addressee can accept a friend request")
	ErrNotParticipant     = errors.New("not a participant of this friendship")
	ErrAlreadyAccepted    = errors.New("friend request already accepted")
)

// Service handles friendship business logic
type Service struct {
	repo          *Repository
	notifications *notification.Service
}

// NewService creates a new friendship service
func NewService(repo *Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, notifications: notifications}
}

// SendRequest creates a pending friendship from the requester to another user
func (s *Service) SendRequest(ctx context.Context, requesterID, addresseeID int64) (*Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrCannotFriendSelf
	}

	existing, err := s.repo.GetBetweenUsers(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyFriends
	}

	created, err := s.repo.Create(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}

	// Notifying is best-effort; the request itself already succeeded.
	if full, err := s.repo.GetByID(ctx, created.ID); err == nil && full != nil {
		if _, err := s.notifications.NotifyFriendRequest(ctx, addresseeID, full.RequesterUsername, full.ID); err != nil {
			log.Printf("failed to notify friend request: %v", err)
		}
		return full, nil
	}

	return created, nil
}

// Accept lets the addressee accept a pending friend request
func (s *Service) Accept(ctx context.Context, friendshipID, userID int64) (*Friendship, error) {
	friendship, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, ErrFriendshipNotFound
	}

	if friendship.AddresseeID != userID {
		return nil, ErrNotAddressee
	}
	if friendship.Status == FriendshipStatusAccepted {
		return nil, ErrAlreadyAccepted
	}

	return s.repo.UpdateStatus(ctx, friendshipID, FriendshipStatusAccepted)
}

// List retrieves a user's friendships, optionally filtered by status
func (s *Service) List(ctx context.Context, userID int64, status *FriendshipStatus) ([]*Friendship, error) {
	return s.repo.ListByUserID(ctx, userID, status)
}

// Remove deletes a friendship; either side can remove it
func (s *Service) Remove(ctx context.Context, friendshipID, userID int64) error {
	friendship, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if friendship == nil {
		return ErrFriendshipNotFound
	}

	if friendship.RequesterID != userID && friendship.AddresseeID != userID {
		return ErrNotParticipant
	}

	return s.repo.Delete(ctx, friendshipID)
}
