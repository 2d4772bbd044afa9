package group

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hamadalm/divvy/internal/notification"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvitationUsed      = errors.New("invitation has already been used")
)

// Service handles group business logic
type Service struct {
	repo          *Repository
	notifications *notification.Service
	now           func() time.Time
}

// NewService creates a new group service
func NewService(repo *Repository, notifications *notification.Service) *Service {
	return &Service{repo: repo, notifications: notifications, now: time.Now}
}

// Create creates a new group and adds the creator as admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, creatorID, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, creatorID, MemberRoleAdmin); err != nil {
		// TODO: Should rollback group creation in a transaction
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group, checking the caller is a member
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.requireMember(ctx, id, userID); err != nil {
		return nil, err
	}

	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id, userID int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update modifies a group; admin only
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireAdmin(ctx, id, userID); err != nil {
		return nil, err
	}

	group, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return group, nil
}

// Delete removes a group; admin only
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	if err := s.requireAdmin(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddMember adds a user to a group; admin only
func (s *Service) AddMember(ctx context.Context, groupID, adminID int64, req *AddMemberRequest) (*GroupMember, error) {
	if err := s.requireAdmin(ctx, groupID, adminID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	return s.repo.AddMember(ctx, groupID, req.UserID, role)
}

// RemoveMember removes a user from a group; admins can remove anyone,
// members can remove themselves
func (s *Service) RemoveMember(ctx context.Context, groupID, targetUserID, callerID int64) error {
	if targetUserID != callerID {
		if err := s.requireAdmin(ctx, groupID, callerID); err != nil {
			return err
		}
	} else {
		if err := s.requireMember(ctx, groupID, callerID); err != nil {
			return err
		}
	}

	return s.repo.RemoveMember(ctx, groupID, targetUserID)
}

// CreateInvite generates a single-use invitation code; admin only
func (s *Service) CreateInvite(ctx context.Context, groupID, inviterID int64) (*Invitation, error) {
	if err := s.requireAdmin(ctx, groupID, inviterID); err != nil {
		return nil, err
	}

	code := uuid.New()
	expiresAt := s.now().Add(InviteTTL)

	return s.repo.CreateInvitation(ctx, groupID, inviterID, code, expiresAt)
}

// ListInvites retrieves a group's invitations; admin only
func (s *Service) ListInvites(ctx context.Context, groupID, userID int64) ([]*Invitation, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListInvitations(ctx, groupID)
}

// RevokeInvite deletes an unused invitation; admin only
func (s *Service) RevokeInvite(ctx context.Context, groupID, inviteID, userID int64) error {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	return s.repo.DeleteInvitation(ctx, inviteID)
}

// JoinByCode redeems an invitation code and adds the caller as a member
func (s *Service) JoinByCode(ctx context.Context, userID int64, code uuid.UUID) (*GroupMember, error) {
	inv, err := s.repo.GetInvitationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	if inv.Used() {
		return nil, ErrInvitationUsed
	}
	if inv.Expired(s.now()) {
		return nil, ErrInvitationExpired
	}

	existing, err := s.repo.GetMember(ctx, inv.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	member, err := s.repo.AddMember(ctx, inv.GroupID, userID, MemberRoleMember)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkInvitationUsed(ctx, inv.ID, userID); err != nil {
		return nil, err
	}

	// Tell the inviter their code was redeemed. Best-effort.
	if joined, err := s.repo.GetMember(ctx, inv.GroupID, userID); err == nil && joined != nil {
		if group, err := s.repo.GetByID(ctx, inv.GroupID); err == nil && group != nil {
			if _, err := s.notifications.NotifyGroupJoined(ctx, inv.InviterID, joined.Username, group.Name, group.ID); err != nil {
				log.Printf("failed to notify group join: %v", err)
			}
		}
		return joined, nil
	}

	return member, nil
}

// requireMember returns ErrNotAuthorized unless the user belongs to the group
func (s *Service) requireMember(ctx context.Context, groupID, userID int64) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotAuthorized
	}
	return nil
}

// requireAdmin returns ErrNotAuthorized unless the user is a group admin
func (s *Service) requireAdmin(ctx context.Context, groupID, userID int64) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Role != MemberRoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}
