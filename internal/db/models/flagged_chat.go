package models

import "time"

// FlagStatus represents the workflow state of a flagged chat.
type FlagStatus string

const (
	// FlagStatusOpen indicates the flag is waiting in the queue.
	FlagStatusOpen FlagStatus = "open"
	// FlagStatusClaimed indicates a counselor has taken the flag.
	FlagStatusClaimed FlagStatus = "claimed"
	// FlagStatusResolved indicates the flag has been reviewed and closed.
	FlagStatusResolved FlagStatus = "resolved"
)

// FlaggedChat represents a conversation excerpt reported for counselor review.
// Flags move through the queue as open -> claimed -> resolved.
type FlaggedChat struct {
	// ID is the unique identifier for the flag.
	ID uint64 `gorm:"primaryKey"`
	// SoulID is the ID of the soul whose conversation was flagged.
	SoulID uint64 `gorm:"column:soul_id;not null"`
	// Soul is the associated soul (enforced with a foreign key constraint).
	Soul Soul `gorm:"foreignKey:SoulID;references:ID;constraint:OnDelete:CASCADE"`
	// ReporterID is the ID of the user who raised the flag.
	ReporterID uint64 `gorm:"column:reporter_id;not null"`
	// Reporter is the associated user (enforced with a foreign key constraint).
	Reporter User `gorm:"foreignKey:ReporterID;references:ID;constraint:OnDelete:RESTRICT"`
	// Reason is the short report reason given by the reporter.
	Reason string `gorm:"size:255;not null"`
	// Excerpt is the quoted part of the conversation under review.
	Excerpt string `gorm:"size:2000"`
	// Status is the workflow state of the flag.
	Status FlagStatus `gorm:"type:varchar(20);not null;default:'open'"`
	// ClaimedByID is the ID of the counselor working the flag (nil while open).
	ClaimedByID *uint64 `gorm:"column:claimed_by_id"`
	// Resolution holds the counselor's closing note.
	Resolution string `gorm:"size:2000"`
	// CreatedAt is the timestamp when the flag was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the flag was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the FlaggedChat model.
func (FlaggedChat) TableName() string {
	return "flagged_chats"
}
