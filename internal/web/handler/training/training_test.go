package training

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/db/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Soul{},
		&models.TrainingSession{},
	))

	return &Service{db: db}
}

func createTrainer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	trainer := models.User{
		Username: "trainer",
		Email:    "trainer@example.com",
		Password: "x",
		Active:   true,
		Role:     "Trainer",
	}
	require.NoError(t, db.Create(&trainer).Error)

	return &trainer
}

func TestStartSession(t *testing.T) {
	svc := newTestService(t)
	trainer := createTrainer(t, svc.db)

	soul := models.Soul{Name: "Aurora", Status: models.SoulStatusActive}
	require.NoError(t, svc.db.Create(&soul).Error)

	t.Run("starts session and moves soul into training", func(t *testing.T) {
		session, err := svc.startSession(soul.ID, trainer.ID, "empathy drills")
		require.NoError(t, err)

		assert.Equal(t, soul.ID, session.SoulID)
		assert.Equal(t, trainer.ID, session.TrainerID)
		assert.Equal(t, "empathy drills", session.Focus)
		assert.True(t, session.Open())

		var updated models.Soul
		require.NoError(t, svc.db.First(&updated, soul.ID).Error)
		assert.Equal(t, models.SoulStatusTraining, updated.Status)
		assert.Equal(t, 1, updated.SessionCount)
	})

	t.Run("soul already in training can not start again", func(t *testing.T) {
		_, err := svc.startSession(soul.ID, trainer.ID, "more drills")
		assert.ErrorIs(t, err, ErrSoulNotTrainable)
	})

	t.Run("unknown soul", func(t *testing.T) {
		_, err := svc.startSession(999, trainer.ID, "focus")
		assert.ErrorIs(t, err, ErrSoulNotTrainable)
	})

	t.Run("retired soul can not enter training", func(t *testing.T) {
		retired := models.Soul{Name: "Cinder", Status: models.SoulStatusRetired}
		require.NoError(t, svc.db.Create(&retired).Error)

		_, err := svc.startSession(retired.ID, trainer.ID, "focus")
		assert.ErrorIs(t, err, ErrSoulNotTrainable)
	})
}

func TestCompleteSession(t *testing.T) {
	svc := newTestService(t)
	trainer := createTrainer(t, svc.db)

	soul := models.Soul{Name: "Aurora", Status: models.SoulStatusActive}
	require.NoError(t, svc.db.Create(&soul).Error)

	session, err := svc.startSession(soul.ID, trainer.ID, "empathy drills")
	require.NoError(t, err)

	t.Run("score out of range", func(t *testing.T) {
		assert.ErrorIs(t, svc.completeSession(session.ID, "notes", 101), ErrInvalidScore)
		assert.ErrorIs(t, svc.completeSession(session.ID, "notes", -1), ErrInvalidScore)
	})

	t.Run("completes session and returns soul to active", func(t *testing.T) {
		require.NoError(t, svc.completeSession(session.ID, "went well", 85))

		var updated models.TrainingSession
		require.NoError(t, svc.db.First(&updated, session.ID).Error)
		assert.False(t, updated.Open())
		assert.Equal(t, "went well", updated.Notes)
		assert.Equal(t, 85, updated.Score)

		var updatedSoul models.Soul
		require.NoError(t, svc.db.First(&updatedSoul, soul.ID).Error)
		assert.Equal(t, models.SoulStatusActive, updatedSoul.Status)
	})

	t.Run("completing twice fails", func(t *testing.T) {
		assert.ErrorIs(t, svc.completeSession(session.ID, "again", 50), ErrSessionClosed)
	})

	t.Run("unknown session", func(t *testing.T) {
		assert.ErrorIs(t, svc.completeSession(999, "notes", 50), ErrSessionNotFound)
	})
}

func TestCompleteSessionKeepsSoulInTrainingWhileOthersOpen(t *testing.T) {
	svc := newTestService(t)
	trainer := createTrainer(t, svc.db)

	soul := models.Soul{Name: "Aurora", Status: models.SoulStatusTraining, SessionCount: 2}
	require.NoError(t, svc.db.Create(&soul).Error)

	first := models.TrainingSession{SoulID: soul.ID, TrainerID: trainer.ID, Focus: "a", StartedAt: time.Now()}
	second := models.TrainingSession{SoulID: soul.ID, TrainerID: trainer.ID, Focus: "b", StartedAt: time.Now()}
	require.NoError(t, svc.db.Create(&first).Error)
	require.NoError(t, svc.db.Create(&second).Error)

	require.NoError(t, svc.completeSession(first.ID, "done", 70))

	var updatedSoul models.Soul
	require.NoError(t, svc.db.First(&updatedSoul, soul.ID).Error)
	assert.Equal(t, models.SoulStatusTraining, updatedSoul.Status)

	require.NoError(t, svc.completeSession(second.ID, "done", 75))

	require.NoError(t, svc.db.First(&updatedSoul, soul.ID).Error)
	assert.Equal(t, models.SoulStatusActive, updatedSoul.Status)
}
