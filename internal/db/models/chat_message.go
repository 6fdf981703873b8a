package models

import "time"

// ChatSender indicates which side of a conversation produced a message.
type ChatSender string

const (
	// ChatSenderUser marks a message written by the user.
	ChatSenderUser ChatSender = "user"
	// ChatSenderSoul marks a message written by the soul.
	ChatSenderSoul ChatSender = "soul"
)

// ChatMessage represents one message in a user/soul conversation transcript.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID uint64 `gorm:"primaryKey"`
	// SoulID is the ID of the soul in the conversation.
	SoulID uint64 `gorm:"column:soul_id;not null"`
	// Soul is the associated soul (enforced with a foreign key constraint).
	Soul Soul `gorm:"foreignKey:SoulID;references:ID;constraint:OnDelete:CASCADE"`
	// UserID is the ID of the user in the conversation.
	UserID uint64 `gorm:"column:user_id;not null"`
	// User is the associated user (enforced with a foreign key constraint).
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	// Sender indicates whether the user or the soul wrote the message.
	Sender ChatSender `gorm:"type:varchar(10);not null"`
	// Body is the message text.
	Body string `gorm:"size:4000;not null"`
	// CreatedAt is the timestamp when the message was written (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
