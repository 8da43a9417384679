package model

// AxisPoint is one raw axis sample retained for plotting sinks.
type AxisPoint struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// LastPlayed records the most recent play, or is absent before the first.
type LastPlayed struct {
	Chord int     `json:"chord"`
	Label string  `json:"label"`
	At    float64 `json:"at"`
}

// Stats is the derived view over Counters.
type Stats struct {
	Counters
	UpPercent   float64 `json:"up_percent"`
	DownPercent float64 `json:"down_percent"`
}

// Snapshot is the immutable per-tick view handed to sinks. Slices are
// copies; sinks must never see the engine's live buffers.
type Snapshot struct {
	SessionID string  `json:"session_id"`
	At        float64 `json:"at"`

	ActiveChord int    `json:"active_chord"`
	ChordLabel  string `json:"chord_label"`

	// CurrentStrum is nil once the display window has elapsed.
	CurrentStrum *StrumEvent `json:"current_strum,omitempty"`

	LastPlayed    *LastPlayed `json:"last_played,omitempty"`
	SinceLastPlay float64     `json:"since_last_play"`

	Stats Stats `json:"stats"`

	RecentStrums []StrumEvent `json:"recent_strums"`
	RecentPlays  []PlayEvent  `json:"recent_plays"`

	Axis []AxisPoint `json:"axis,omitempty"`
}

// SessionSummary is written once at shutdown.
type SessionSummary struct {
	SessionID string   `json:"session_id"`
	StartedAt float64  `json:"started_at"`
	EndedAt   float64  `json:"ended_at"`
	Counters  Counters `json:"counters"`
}
