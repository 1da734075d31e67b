package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/storage"
)

// GroupService manages groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group with the creator as its first member. Extra
// member IDs are deduplicated and must reference existing users.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name, description, currency string, memberIDs []string) (*models.Group, error) {
	slog.Info("CreateGroup request", "creator_id", creatorID, "name", name, "members_count", len(memberIDs))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}
	if currency == "" {
		currency = calculator.DefaultCurrency
	}

	now := time.Now().Unix()
	members := []models.Member{{UserID: creatorID, JoinedAt: now}}
	seen := map[string]bool{creatorID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		user, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, internalErr("failed to look up member", err)
		}
		if user == nil {
			return nil, apperr.Validation("user %s does not exist", id)
		}
		members = append(members, models.Member{UserID: id, JoinedAt: now})
		seen[id] = true
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		Currency:    currency,
		CreatorID:   creatorID,
		Members:     members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, internalErr("failed to create group", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group. Members only.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	return requireMember(ctx, s.store, userID, groupID)
}

// ListMyGroups retrieves every group the user belongs to, newest first.
func (s *GroupService) ListMyGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		slog.Error("ListMyGroups failed", "user_id", userID, "error", err)
		return nil, internalErr("failed to list groups", err)
	}
	return groups, nil
}

// AddMember adds a user to a group. Any existing member may add; the new
// user must exist and must not already be a member.
func (s *GroupService) AddMember(ctx context.Context, requesterID, groupID, newUserID string) (*models.Group, error) {
	slog.Info("AddMember request", "group_id", groupID, "user_id", newUserID)

	if _, err := requireMember(ctx, s.store, requesterID, groupID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, newUserID)
	if err != nil {
		return nil, internalErr("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.Validation("user %s does not exist", newUserID)
	}

	if err := s.store.AddGroupMember(ctx, groupID, newUserID, time.Now().Unix()); err != nil {
		slog.Warn("AddMember failed", "group_id", groupID, "user_id", newUserID, "error", err)
		return nil, internalErr("failed to add member", err)
	}

	slog.Info("Member added", "group_id", groupID, "user_id", newUserID)
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup removes a group. Creator only.
func (s *GroupService) DeleteGroup(ctx context.Context, requesterID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return apperr.Permission("only the group creator can delete the group")
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return internalErr("failed to delete group", err)
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// GroupBalances folds the group's complete expense and settlement history
// into per-member net balances. Members only.
func (s *GroupService) GroupBalances(ctx context.Context, userID, groupID string) ([]models.MemberBalance, error) {
	group, err := requireMember(ctx, s.store, userID, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GroupBalances failed to list expenses", "group_id", groupID, "error", err)
		return nil, internalErr("failed to list expenses", err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GroupBalances failed to list settlements", "group_id", groupID, "error", err)
		return nil, internalErr("failed to list settlements", err)
	}

	balances := calculator.GroupBalances(group.MemberIDs(), expenses, settlements)

	slog.Debug("GroupBalances computed",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
	)
	return balances, nil
}
