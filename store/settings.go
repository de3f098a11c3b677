package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caption-service/database"
	"caption-service/models"

	"github.com/jmoiron/sqlx"
)

// SettingsStore keeps one settings row per user.
type SettingsStore struct {
	db database.DBTX
}

func NewSettingsStore(db database.DBTX) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context, userID int) (*models.Settings, error) {
	var st models.Settings
	err := sqlx.GetContext(ctx, s.db, &st, `
		SELECT id, user_id, preferred_language, automate_translate, speech_voice, automate_speech, created_at
		FROM settings WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for user %d: %w", userID, err)
	}
	return &st, nil
}

// Upsert inserts the row for st.UserID or overwrites every field of the
// existing one, in a single statement.
func (s *SettingsStore) Upsert(ctx context.Context, st *models.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, preferred_language, automate_translate, speech_voice, automate_speech)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			preferred_language = excluded.preferred_language,
			automate_translate = excluded.automate_translate,
			speech_voice = excluded.speech_voice,
			automate_speech = excluded.automate_speech
	`, st.UserID, st.PreferredLanguage, st.AutomateTranslate, st.SpeechVoice, st.AutomateSpeech)
	if err != nil {
		return fmt.Errorf("failed to save settings for user %d: %w", st.UserID, err)
	}
	return nil
}
