package models

// Group is a named multi-user conversation. A group shares its ID with the
// linked Chat document (is_group=true). AdminID must always be present in
// MemberIDs.
type Group struct {
	ID            string   `bson:"_id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Description   string   `bson:"description,omitempty" json:"description,omitempty"`
	AdminID       string   `bson:"admin_id" json:"admin_id"`
	MemberIDs     []string `bson:"member_ids" json:"member_ids"`
	GroupImageURL string   `bson:"group_image_url,omitempty" json:"group_image_url,omitempty"`
	CreatedAt     int64    `bson:"created_at" json:"created_at"`
	UpdatedAt     int64    `bson:"updated_at" json:"updated_at"`
}

func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (g *Group) IsAdmin(userID string) bool {
	return userID != "" && userID == g.AdminID
}

// GroupPatch is a partial update for group metadata. Membership changes go
// through AddMember/RemoveMember, never through a patch.
type GroupPatch struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	AdminID       *string `json:"admin_id,omitempty"`
	GroupImageURL *string `json:"group_image_url,omitempty"`
	UpdatedAt     *int64  `json:"updated_at,omitempty"`
}
