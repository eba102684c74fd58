package domain

// UserProfile carries the accessibility and health context of a user.
// Loaded once per session from the catalogue or supplied inline by the
// client; the core never mutates it.
type UserProfile struct {
	Name        string   `json:"name" yaml:"name"`
	Allergies   []string `json:"allergies" yaml:"allergies"`
	Conditions  []string `json:"conditions" yaml:"conditions"`
	Preferences []string `json:"preferences" yaml:"preferences"`
	Mobility    string   `json:"mobility" yaml:"mobility"`
	TTSEnabled  bool     `json:"tts_enabled" yaml:"tts_enabled"`
}
