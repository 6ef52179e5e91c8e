package domain

// Settings holds the user-tunable scan parameters. They are persisted as a
// single document and re-saved before every scan.
type Settings struct {
	Model       string `json:"model"`
	BatchSize   int    `json:"batch_size"`
	MaxMessages int    `json:"max_messages"`
	Query       string `json:"query"`
}

// DefaultSettings returns the settings used before the user saves anything.
func DefaultSettings() Settings {
	return Settings{
		Model:       "gpt-4o-mini",
		BatchSize:   10,
		MaxMessages: 50,
		Query:       "category:promotions",
	}
}

// Normalize fills zero or out-of-range fields with defaults so a partially
// persisted document never breaks a scan.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.Model == "" {
		s.Model = def.Model
	}
	if s.BatchSize <= 0 {
		s.BatchSize = def.BatchSize
	}
	if s.MaxMessages <= 0 {
		s.MaxMessages = def.MaxMessages
	}
	if s.Query == "" {
		s.Query = def.Query
	}
	return s
}
