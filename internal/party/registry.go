package party

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/metrics"
	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/storage"
)

// MemberLeftNotifier is told when a user stops being part of a party, so an
// open order stops waiting for their payment.
type MemberLeftNotifier interface {
	HandleMemberLeft(partyID, userEmail string) error
}

// RegistryOption configures a GroupRegistry.
type RegistryOption func(*GroupRegistry)

// WithLeaderRole controls whether a group's creator becomes its leader.
// Leaderless groups are deleted when their last member leaves.
func WithLeaderRole(enabled bool) RegistryOption {
	return func(r *GroupRegistry) { r.leaderRole = enabled }
}

// WithMemberLeftNotifier registers n to hear about departures.
func WithMemberLeftNotifier(n MemberLeftNotifier) RegistryOption {
	return func(r *GroupRegistry) { r.notifier = n }
}

// WithRegistryMetrics records membership transitions in m.
func WithRegistryMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *GroupRegistry) { r.metrics = m }
}

// GroupRegistry owns the group membership state machine and enforces that a
// user belongs to at most one group.
type GroupRegistry struct {
	users      storage.UserStore
	groups     storage.GroupStore
	locks      *keyedMutex
	leaderRole bool
	notifier   MemberLeftNotifier
	metrics    *metrics.Metrics
}

// NewGroupRegistry creates a registry backed by the given stores.
// The leader role is enabled unless overridden.
func NewGroupRegistry(users storage.UserStore, groups storage.GroupStore, opts ...RegistryOption) *GroupRegistry {
	r := &GroupRegistry{
		users:      users,
		groups:     groups,
		locks:      newKeyedMutex(),
		leaderRole: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new group with userID as its only member.
func (r *GroupRegistry) Create(ctx context.Context, userID, name string) (*models.Group, error) {
	slog.Info("Creating group", "user_id", userID, "name", name)

	unlock := r.locks.Lock(userKey(userID))
	defer unlock()

	user, err := r.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.InGroup() {
		slog.Warn("User attempted to create group while already in one", "user_id", userID, "group_id", user.GroupID)
		return nil, apperr.ErrAlreadyInGroup
	}

	group := &models.Group{
		Name:    name,
		Members: []string{userID},
		Status:  models.GroupActive,
	}
	if r.leaderRole {
		group.LeaderID = userID
	}

	if err := r.groups.CreateGroup(ctx, group); err != nil {
		return nil, translate(err)
	}

	r.metrics.IncGroupEvent("created")
	slog.Info("Group created", "group_id", group.ID, "leader_id", group.LeaderID)
	return group, nil
}

// FindOne returns the group with the given ID.
func (r *GroupRegistry) FindOne(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := r.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Group not found", "group_id", groupID)
		}
		return nil, translate(err)
	}
	return group, nil
}

// Join adds userID to an active group.
func (r *GroupRegistry) Join(ctx context.Context, groupID, userID string) (*models.Group, error) {
	slog.Info("User attempting to join group", "user_id", userID, "group_id", groupID)

	unlock := r.locks.Lock(groupKey(groupID), userKey(userID))
	defer unlock()

	group, err := r.FindOne(ctx, groupID)
	if err != nil {
		return nil, err
	}
	user, err := r.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.InGroup() {
		slog.Warn("User attempted to join group while already in one", "user_id", userID, "group_id", user.GroupID)
		return nil, apperr.ErrAlreadyInGroup
	}
	if !group.IsActive() {
		slog.Warn("User attempted to join inactive group", "user_id", userID, "group_id", groupID, "status", group.Status)
		return nil, apperr.ErrGroupNotActive
	}

	if err := r.groups.AddGroupMember(ctx, groupID, userID); err != nil {
		return nil, translate(err)
	}

	r.metrics.IncGroupEvent("joined")
	slog.Info("User joined group", "user_id", userID, "group_id", groupID)
	return r.FindOne(ctx, groupID)
}

// Leave removes userID from the group. A leader leaving disbands the group
// and evicts every member; the last member leaving deletes it.
func (r *GroupRegistry) Leave(ctx context.Context, groupID, userID string) error {
	slog.Info("User attempting to leave group", "user_id", userID, "group_id", groupID)

	unlock := r.locks.Lock(groupKey(groupID), userKey(userID))
	defer unlock()

	group, err := r.FindOne(ctx, groupID)
	if err != nil {
		return err
	}
	user, err := r.lookupUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.GroupID != groupID {
		slog.Warn("User attempted to leave group they're not in", "user_id", userID, "group_id", groupID)
		return apperr.ErrUserNotInGroup
	}

	if group.LeaderID != "" && group.LeaderID == userID {
		return r.disband(ctx, group)
	}

	deleted, err := r.groups.RemoveGroupMember(ctx, groupID, userID)
	if err != nil {
		return translate(err)
	}

	r.metrics.IncGroupEvent("left")
	if deleted {
		r.metrics.IncGroupEvent("deleted")
		slog.Info("Last member left, group deleted", "user_id", userID, "group_id", groupID)
	} else {
		slog.Info("User left group", "user_id", userID, "group_id", groupID)
	}

	r.notifyLeft(groupID, user.Email)
	return nil
}

func (r *GroupRegistry) disband(ctx context.Context, group *models.Group) error {
	slog.Info("Leader leaving group, disbanding", "leader_id", group.LeaderID, "group_id", group.ID)

	evicted, err := r.groups.DisbandGroup(ctx, group.ID)
	if err != nil {
		return translate(err)
	}

	r.metrics.IncGroupEvent("disbanded")
	slog.Info("Group disbanded", "group_id", group.ID, "evicted", len(evicted))

	if r.notifier == nil {
		return nil
	}
	users, err := r.users.GetUsersByIDs(ctx, evicted)
	if err != nil {
		slog.Warn("Could not resolve evicted members", "group_id", group.ID, "error", err)
		return nil
	}
	for _, id := range evicted {
		if u, ok := users[id]; ok {
			r.notifyLeft(group.ID, u.Email)
		}
	}
	return nil
}

func (r *GroupRegistry) notifyLeft(groupID, email string) {
	if r.notifier == nil {
		return
	}
	err := r.notifier.HandleMemberLeft(groupID, email)
	if err != nil && !errors.Is(err, apperr.ErrOrderNotFound) {
		slog.Warn("Failed to drop departed member from order", "group_id", groupID, "email", email, "error", err)
	}
}

func (r *GroupRegistry) lookupUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := r.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("User not found", "user_id", userID)
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	return user, nil
}

// translate maps storage sentinels onto domain errors.
func translate(err error) error {
	switch {
	case errors.Is(err, storage.ErrConflict):
		return apperr.ErrAlreadyInGroup
	case errors.Is(err, storage.ErrInvalidState):
		return apperr.ErrGroupNotActive
	case errors.Is(err, storage.ErrNotFound):
		return apperr.ErrGroupNotFound
	default:
		return err
	}
}
