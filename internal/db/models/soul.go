package models

import "time"

// SoulStatus represents the lifecycle state of a soul.
type SoulStatus string

const (
	// SoulStatusActive indicates the soul is available for chat.
	SoulStatusActive SoulStatus = "active"
	// SoulStatusTraining indicates the soul is in a training cycle and hidden from chat.
	SoulStatusTraining SoulStatus = "training"
	// SoulStatusRetired indicates the soul has been taken out of rotation.
	SoulStatusRetired SoulStatus = "retired"
)

// Soul represents a trainable AI persona managed by the console.
// Souls are chatted with by users, trained by trainers, and reviewed
// by counselors when a conversation gets flagged.
type Soul struct {
	// ID is the unique identifier for the soul.
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique display name of the soul.
	Name string `gorm:"unique;size:100;not null"`
	// Archetype is the persona template the soul was created from (e.g., "mentor", "companion").
	Archetype string `gorm:"size:100;not null"`
	// Temperament is a free-form description of the soul's conversational style.
	Temperament string `gorm:"size:255"`
	// Status is the lifecycle state of the soul.
	Status SoulStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// SessionCount is the number of completed training sessions.
	SessionCount int `gorm:"not null;default:0"`
	// CreatedAt is the timestamp when the soul was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the soul was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Soul model.
func (Soul) TableName() string {
	return "souls"
}
