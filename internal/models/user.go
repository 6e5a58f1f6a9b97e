package models

// User is a registered account. ID matches the auth subject and is the
// document key; it never changes after creation.
type User struct {
	ID              string `bson:"_id" json:"id"`
	DisplayName     string `bson:"display_name" json:"display_name"`
	Email           string `bson:"email" json:"email"`
	ProfileImageURL string `bson:"profile_image_url,omitempty" json:"profile_image_url,omitempty"`
	IsOnline        bool   `bson:"is_online" json:"is_online"`
	LastSeen        int64  `bson:"last_seen" json:"last_seen"`
	CreatedAt       int64  `bson:"created_at" json:"created_at"`
	UpdatedAt       int64  `bson:"updated_at" json:"updated_at"`
}

// UserPatch is a partial update. Nil fields are left untouched in the
// stored document, so "unset" and "zero value" stay distinguishable.
type UserPatch struct {
	ID              string  `json:"id"`
	DisplayName     *string `json:"display_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	IsOnline        *bool   `json:"is_online,omitempty"`
	LastSeen        *int64  `json:"last_seen,omitempty"`
	UpdatedAt       *int64  `json:"updated_at,omitempty"`
}
