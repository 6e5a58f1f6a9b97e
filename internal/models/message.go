package models

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeAudio:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusSeen      DeliveryStatus = "seen"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusSeen:
		return true
	}
	return false
}

// Message is a single chat message. Content is immutable once written; the
// only mutation after send is the delivery status.
type Message struct {
	ID             string         `bson:"_id" json:"id"`
	SenderID       string         `bson:"sender_id" json:"sender_id"`
	ReceiverID     string         `bson:"receiver_id,omitempty" json:"receiver_id,omitempty"`
	ChatID         string         `bson:"chat_id" json:"chat_id"`
	Content        string         `bson:"content" json:"content"`
	MediaURL       string         `bson:"media_url,omitempty" json:"media_url,omitempty"`
	MessageType    MessageType    `bson:"message_type" json:"message_type"`
	DeliveryStatus DeliveryStatus `bson:"delivery_status" json:"delivery_status"`
	Timestamp      int64          `bson:"timestamp" json:"timestamp"`
}
