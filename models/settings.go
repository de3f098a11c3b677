package models

import "time"

// Defaults applied to every settings field the client leaves out.
const (
	DefaultLanguage    = "en"
	DefaultSpeechVoice = "female"
)

// Settings holds one user's caption preferences; at most one row per user.
type Settings struct {
	ID                int       `db:"id"`
	UserID            int       `db:"user_id"`
	PreferredLanguage string    `db:"preferred_language"`
	AutomateTranslate bool      `db:"automate_translate"`
	SpeechVoice       string    `db:"speech_voice"`
	AutomateSpeech    bool      `db:"automate_speech"`
	CreatedAt         time.Time `db:"created_at"`
}

// SaveSettingsRequest represents the POST /savesettings body.
// Every field is optional; nil means "use the default".
type SaveSettingsRequest struct {
	PreferredLanguage *string `json:"preferredLanguage,omitempty"` // Default: "en"
	TranslateCaptions *bool   `json:"translateCaptions,omitempty"` // Default: false
	SpeechVoice       *string `json:"speechVoice,omitempty"`       // Default: "female"
	AutomateSpeech    *bool   `json:"automateSpeech,omitempty"`    // Default: false
}

// ToSettings expands the request into a complete row for userID.
func (r SaveSettingsRequest) ToSettings(userID int) Settings {
	s := Settings{
		UserID:            userID,
		PreferredLanguage: DefaultLanguage,
		SpeechVoice:       DefaultSpeechVoice,
	}
	if r.PreferredLanguage != nil && *r.PreferredLanguage != "" {
		s.PreferredLanguage = *r.PreferredLanguage
	}
	if r.TranslateCaptions != nil {
		s.AutomateTranslate = *r.TranslateCaptions
	}
	if r.SpeechVoice != nil && *r.SpeechVoice != "" {
		s.SpeechVoice = *r.SpeechVoice
	}
	if r.AutomateSpeech != nil {
		s.AutomateSpeech = *r.AutomateSpeech
	}
	return s
}

// SettingsResponse is the GET /getsettings payload
type SettingsResponse struct {
	Username          string `json:"username"`
	PreferredLanguage string `json:"preferredLanguage"`
	TranslateCaptions bool   `json:"translateCaptions"`
	SpeechVoice       string `json:"speechVoice"`
	AutomateSpeech    bool   `json:"automateSpeech"`
}

// NewSettingsResponse pairs a stored row with its owner's username.
func NewSettingsResponse(username string, s *Settings) SettingsResponse {
	return SettingsResponse{
		Username:          username,
		PreferredLanguage: s.PreferredLanguage,
		TranslateCaptions: s.AutomateTranslate,
		SpeechVoice:       s.SpeechVoice,
		AutomateSpeech:    s.AutomateSpeech,
	}
}
