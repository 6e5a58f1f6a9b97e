package models

import "fmt"

// Membership is the join document between a user and a group, one per
// (user, group) pair, stored under groups/{groupId}/members.
type Membership struct {
	ID       string `bson:"_id" json:"id"`
	UserID   string `bson:"user_id" json:"user_id"`
	GroupID  string `bson:"group_id" json:"group_id"`
	IsAdmin  bool   `bson:"is_admin" json:"is_admin"`
	JoinedAt int64  `bson:"joined_at" json:"joined_at"`
}

// MembershipID builds the canonical membership document key.
func MembershipID(userID, groupID string) string {
	return fmt.Sprintf("%s_%s", userID, groupID)
}
