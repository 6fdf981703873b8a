package models

import "time"

// TrainingSession represents a single training run a trainer performs on a soul.
// A session is open from StartedAt until CompletedAt is set.
type TrainingSession struct {
	// ID is the unique identifier for the session.
	ID uint64 `gorm:"primaryKey"`
	// SoulID is the ID of the soul being trained.
	SoulID uint64 `gorm:"column:soul_id;not null"`
	// Soul is the associated soul (enforced with a foreign key constraint).
	Soul Soul `gorm:"foreignKey:SoulID;references:ID;constraint:OnDelete:CASCADE"`
	// TrainerID is the ID of the user running the session.
	TrainerID uint64 `gorm:"column:trainer_id;not null"`
	// Trainer is the associated user (enforced with a foreign key constraint).
	Trainer User `gorm:"foreignKey:TrainerID;references:ID;constraint:OnDelete:RESTRICT"`
	// Focus is the training objective for this session (e.g., "empathy", "boundaries").
	Focus string `gorm:"size:100;not null"`
	// Notes holds the trainer's observations for the session.
	Notes string `gorm:"size:2000"`
	// Score is the trainer's session rating from 0 to 100 (set on completion).
	Score int
	// StartedAt is the timestamp when the session was started.
	StartedAt time.Time
	// CompletedAt is the timestamp when the session was completed (nil while open).
	CompletedAt *time.Time
}

// TableName specifies the database table name for the TrainingSession model.
func (TrainingSession) TableName() string {
	return "training_sessions"
}

// Open reports whether the session has not been completed yet.
func (t *TrainingSession) Open() bool {
	return t.CompletedAt == nil
}
