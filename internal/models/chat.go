package models

// Chat is a conversation container. The last_message_* fields are a
// denormalized preview refreshed as a side effect of message send.
type Chat struct {
	ID                   string   `bson:"_id" json:"id"`
	ParticipantIDs       []string `bson:"participant_ids" json:"participant_ids"`
	LastMessageID        string   `bson:"last_message_id,omitempty" json:"last_message_id,omitempty"`
	LastMessageText      string   `bson:"last_message_text,omitempty" json:"last_message_text,omitempty"`
	LastMessageTimestamp int64    `bson:"last_message_timestamp" json:"last_message_timestamp"`
	IsGroup              bool     `bson:"is_group" json:"is_group"`
	UpdatedAt            int64    `bson:"updated_at" json:"updated_at"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
