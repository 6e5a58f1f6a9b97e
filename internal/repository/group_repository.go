package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/events"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
)

// GroupRepository owns group documents, the membership subcollection and the
// cascading updates to the linked chat's participant list. Cascades are
// separate store calls in a fixed order with no cross-operation atomicity: a
// mid-sequence failure surfaces to the caller with the earlier steps applied.
type GroupRepository struct {
	store store.Store
	log   *zap.SugaredLogger
	pub   events.Publisher
}

func NewGroupRepository(st store.Store, log *zap.SugaredLogger, pub events.Publisher) *GroupRepository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &GroupRepository{store: st, log: log, pub: pub}
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	if id == "" {
		return nil, apperr.InvalidArgumentf("group id must not be empty")
	}
	doc, err := r.store.Get(ctx, store.Groups, id)
	if err != nil {
		return nil, apperr.FromStore(err, "get group %s", id)
	}
	var g models.Group
	if err := store.Decode(doc, &g); err != nil {
		return nil, apperr.Storef(err, "decode group %s", id)
	}
	return &g, nil
}

// GetForUser returns every group whose member list contains the user.
func (r *GroupRepository) GetForUser(ctx context.Context, userID string) ([]models.Group, error) {
	if userID == "" {
		return nil, apperr.InvalidArgumentf("user id must not be empty")
	}
	docs, err := r.store.QueryContains(ctx, store.Groups, "member_ids", userID)
	if err != nil {
		return nil, apperr.FromStore(err, "query groups for user %s", userID)
	}
	out := make([]models.Group, 0, len(docs))
	for _, doc := range docs {
		var g models.Group
		if err := store.Decode(doc, &g); err != nil {
			return nil, apperr.Storef(err, "decode group")
		}
		out = append(out, g)
	}
	return out, nil
}

// Create writes the group, a membership document per initial member, and the
// linked chat (same id, is_group=true), in that order. The admin is added to
// the member list when missing.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group == nil || group.Name == "" || group.AdminID == "" {
		return apperr.InvalidArgumentf("group, group.name and group.admin_id must not be empty")
	}
	if group.ID == "" {
		group.ID = r.store.NewID()
	}
	if !group.HasMember(group.AdminID) {
		group.MemberIDs = append(group.MemberIDs, group.AdminID)
	}
	now := nowMillis()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	doc, err := store.Encode(group)
	if err != nil {
		return apperr.Storef(err, "encode group %s", group.ID)
	}
	if err := r.store.Set(ctx, store.Groups, group.ID, doc); err != nil {
		return apperr.FromStore(err, "create group %s", group.ID)
	}

	for _, uid := range group.MemberIDs {
		if err := r.putMembership(ctx, group.ID, uid, uid == group.AdminID, now); err != nil {
			return err
		}
	}

	chat := models.Chat{
		ID:             group.ID,
		ParticipantIDs: group.MemberIDs,
		IsGroup:        true,
		UpdatedAt:      now,
	}
	chatDoc, err := store.Encode(&chat)
	if err != nil {
		return apperr.Storef(err, "encode chat %s", chat.ID)
	}
	if err := r.store.Set(ctx, store.Chats, chat.ID, chatDoc); err != nil {
		return apperr.FromStore(err, "create linked chat %s", chat.ID)
	}

	r.publish(ctx, events.Event{Type: events.TypeGroupCreated, GroupID: group.ID, ChatID: chat.ID, Payload: group.MemberIDs})
	r.log.Infow("group created", "group_id", group.ID, "members", len(group.MemberIDs))
	return nil
}

// Update merges group metadata. Transferring the admin requires the new
// admin to already be a member; the membership admin flags are moved along
// with the group field.
func (r *GroupRepository) Update(ctx context.Context, patch *models.GroupPatch) error {
	if patch == nil || patch.ID == "" {
		return apperr.InvalidArgumentf("patch and patch.id must not be empty")
	}
	partial := bson.M{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return apperr.InvalidArgumentf("group name must not be empty")
		}
		partial["name"] = *patch.Name
	}
	if patch.Description != nil {
		partial["description"] = *patch.Description
	}
	if patch.GroupImageURL != nil {
		partial["group_image_url"] = *patch.GroupImageURL
	}
	if patch.UpdatedAt != nil {
		partial["updated_at"] = *patch.UpdatedAt
	} else {
		partial["updated_at"] = nowMillis()
	}

	var oldAdmin string
	if patch.AdminID != nil {
		group, err := r.GetByID(ctx, patch.ID)
		if err != nil {
			return err
		}
		if !group.HasMember(*patch.AdminID) {
			return apperr.InvalidArgumentf("new admin %s is not a member of group %s", *patch.AdminID, patch.ID)
		}
		oldAdmin = group.AdminID
		partial["admin_id"] = *patch.AdminID
	}

	if err := r.store.Patch(ctx, store.Groups, patch.ID, partial); err != nil {
		return apperr.FromStore(err, "update group %s", patch.ID)
	}

	if patch.AdminID != nil && oldAdmin != *patch.AdminID {
		members := store.GroupMembers(patch.ID)
		if err := r.store.Patch(ctx, members, models.MembershipID(*patch.AdminID, patch.ID), bson.M{"is_admin": true}); err != nil {
			return apperr.FromStore(err, "promote member %s", *patch.AdminID)
		}
		if err := r.store.Patch(ctx, members, models.MembershipID(oldAdmin, patch.ID), bson.M{"is_admin": false}); err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return apperr.FromStore(err, "demote member %s", oldAdmin)
		}
	}
	return nil
}

// AddMember appends the user to the group and cascades into the membership
// subcollection and the linked chat's participant list.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string, isAdmin bool) error {
	if groupID == "" || userID == "" {
		return apperr.InvalidArgumentf("group id and user id must not be empty")
	}
	group, err := r.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.HasMember(userID) {
		return apperr.InvalidArgumentf("user %s is already a member of group %s", userID, groupID)
	}

	now := nowMillis()
	memberIDs := append(group.MemberIDs, userID)
	partial := bson.M{"member_ids": memberIDs, "updated_at": now}
	if err := r.store.Patch(ctx, store.Groups, groupID, partial); err != nil {
		return apperr.FromStore(err, "add member to group %s", groupID)
	}
	if err := r.putMembership(ctx, groupID, userID, isAdmin, now); err != nil {
		return err
	}
	if err := r.addChatParticipant(ctx, groupID, userID, now); err != nil {
		return err
	}

	r.publish(ctx, events.Event{Type: events.TypeGroupMemberAdded, GroupID: groupID, ChatID: groupID, UserID: userID})
	return nil
}

// RemoveMember takes the user out of the group, its membership subcollection
// and the linked chat. Removing the last remaining admin is rejected; when a
// co-admin exists the group's admin_id is transferred to one of them first.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	if groupID == "" || userID == "" {
		return apperr.InvalidArgumentf("group id and user id must not be empty")
	}
	group, err := r.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return apperr.NotFoundf("user %s is not a member of group %s", userID, groupID)
	}

	now := nowMillis()
	partial := bson.M{"updated_at": now}
	if group.IsAdmin(userID) {
		successor, err := r.coAdmin(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if successor == "" {
			return apperr.InvalidArgumentf("cannot remove user %s: sole admin of group %s", userID, groupID)
		}
		partial["admin_id"] = successor
	}

	memberIDs := make([]string, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		if id != userID {
			memberIDs = append(memberIDs, id)
		}
	}
	partial["member_ids"] = memberIDs
	if err := r.store.Patch(ctx, store.Groups, groupID, partial); err != nil {
		return apperr.FromStore(err, "remove member from group %s", groupID)
	}

	err = r.store.Delete(ctx, store.GroupMembers(groupID), models.MembershipID(userID, groupID))
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return apperr.FromStore(err, "delete membership of %s", userID)
	}
	if err := r.removeChatParticipant(ctx, groupID, userID, now); err != nil {
		return err
	}

	r.publish(ctx, events.Event{Type: events.TypeGroupMemberRemoved, GroupID: groupID, ChatID: groupID, UserID: userID})
	return nil
}

// Delete cascades in a fixed order: chat messages, linked chat, membership
// documents, then the group itself. The order leaves at worst a dangling
// group record if a step fails; each step tolerates an already-missing
// target so a partially applied delete can be retried.
func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	if groupID == "" {
		return apperr.InvalidArgumentf("group id must not be empty")
	}
	if _, err := r.GetByID(ctx, groupID); err != nil {
		return err
	}

	if err := r.store.DeleteNamespace(ctx, store.ChatMessages(groupID)); err != nil {
		return apperr.FromStore(err, "delete messages of chat %s", groupID)
	}
	if err := r.store.Delete(ctx, store.Chats, groupID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return apperr.FromStore(err, "delete linked chat %s", groupID)
	}
	if err := r.store.DeleteNamespace(ctx, store.GroupMembers(groupID)); err != nil {
		return apperr.FromStore(err, "delete memberships of group %s", groupID)
	}
	if err := r.store.Delete(ctx, store.Groups, groupID); err != nil {
		return apperr.FromStore(err, "delete group %s", groupID)
	}

	r.publish(ctx, events.Event{Type: events.TypeGroupDeleted, GroupID: groupID, ChatID: groupID})
	r.log.Infow("group deleted", "group_id", groupID)
	return nil
}

// coAdmin returns the id of another member whose membership carries the
// admin flag, or "" when the departing user is the only admin left.
func (r *GroupRepository) coAdmin(ctx context.Context, groupID, departing string) (string, error) {
	docs, err := r.store.Scan(ctx, store.GroupMembers(groupID))
	if err != nil {
		return "", apperr.FromStore(err, "scan memberships of group %s", groupID)
	}
	for _, doc := range docs {
		var m models.Membership
		if err := store.Decode(doc, &m); err != nil {
			return "", apperr.Storef(err, "decode membership")
		}
		if m.IsAdmin && m.UserID != departing {
			return m.UserID, nil
		}
	}
	return "", nil
}

func (r *GroupRepository) putMembership(ctx context.Context, groupID, userID string, isAdmin bool, now int64) error {
	m := models.Membership{
		ID:       models.MembershipID(userID, groupID),
		UserID:   userID,
		GroupID:  groupID,
		IsAdmin:  isAdmin,
		JoinedAt: now,
	}
	doc, err := store.Encode(&m)
	if err != nil {
		return apperr.Storef(err, "encode membership %s", m.ID)
	}
	if err := r.store.Set(ctx, store.GroupMembers(groupID), m.ID, doc); err != nil {
		return apperr.FromStore(err, "put membership %s", m.ID)
	}
	return nil
}

func (r *GroupRepository) addChatParticipant(ctx context.Context, chatID, userID string, now int64) error {
	chat, err := r.chat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.HasParticipant(userID) {
		return nil
	}
	partial := bson.M{"participant_ids": append(chat.ParticipantIDs, userID), "updated_at": now}
	if err := r.store.Patch(ctx, store.Chats, chatID, partial); err != nil {
		return apperr.FromStore(err, "add participant to chat %s", chatID)
	}
	return nil
}

func (r *GroupRepository) removeChatParticipant(ctx context.Context, chatID, userID string, now int64) error {
	chat, err := r.chat(ctx, chatID)
	if err != nil {
		return err
	}
	participants := make([]string, 0, len(chat.ParticipantIDs))
	for _, id := range chat.ParticipantIDs {
		if id != userID {
			participants = append(participants, id)
		}
	}
	partial := bson.M{"participant_ids": participants, "updated_at": now}
	if err := r.store.Patch(ctx, store.Chats, chatID, partial); err != nil {
		return apperr.FromStore(err, "remove participant from chat %s", chatID)
	}
	return nil
}

func (r *GroupRepository) chat(ctx context.Context, chatID string) (*models.Chat, error) {
	doc, err := r.store.Get(ctx, store.Chats, chatID)
	if err != nil {
		return nil, apperr.FromStore(err, "get linked chat %s", chatID)
	}
	var c models.Chat
	if err := store.Decode(doc, &c); err != nil {
		return nil, apperr.Storef(err, "decode chat %s", chatID)
	}
	return &c, nil
}

// publish is fire-and-forget: a broker outage must not fail the write that
// already happened.
func (r *GroupRepository) publish(ctx context.Context, ev events.Event) {
	if err := r.pub.Publish(ctx, ev); err != nil {
		r.log.Errorw("event publish failed", "type", ev.Type, "group_id", ev.GroupID, "err", err)
	}
}
