package model

// Record is one decoded datagram payload: arbitrary JSON keys from
// whichever ESP happened to send it.
type Record = map[string]any

type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// RecordKind is the closed set of things a Record can classify into.
type RecordKind int

const (
	KindUnrecognized RecordKind = iota
	KindTouch
	KindStrum
)

func (k RecordKind) String() string {
	switch k {
	case KindTouch:
		return "touch"
	case KindStrum:
		return "strum"
	}
	return "unrecognized"
}

// TouchEvent selects the active chord slot. Slot is already validated
// to be in [1,5] by the decoder.
type TouchEvent struct {
	Slot int
}

// StrumSample is everything strum-related a single record can carry.
// Raw-axis deployments fill Axis; pre-segmented firmware fills
// Direction/Peak/Duration instead.
type StrumSample struct {
	HasAxis   bool
	Axis      float64
	Direction Direction // empty unless pre-classified
	Peak      float64
	Duration  float64
	At        float64 // seconds, sensor clock if the record carried one
}

// StrumEvent is one detected directional gesture. Immutable once emitted.
type StrumEvent struct {
	Direction Direction `json:"direction"`
	Peak      float64   `json:"peak"`
	Duration  float64   `json:"duration"`
	EmittedAt float64   `json:"emitted_at"`
}

// PlayEvent is the (chord, direction) decision made for one StrumEvent.
type PlayEvent struct {
	Chord      int       `json:"chord"`
	ChordLabel string    `json:"chord_label"`
	Direction  Direction `json:"direction"`
	EmittedAt  float64   `json:"emitted_at"`
}

// Counters are monotonically non-decreasing for the process lifetime.
// TotalStrums == UpStrums + DownStrums always holds.
type Counters struct {
	Packets     uint64 `json:"packets"`
	UpStrums    uint64 `json:"up_strums"`
	DownStrums  uint64 `json:"down_strums"`
	TotalStrums uint64 `json:"total_strums"`
	TotalPlays  uint64 `json:"total_plays"`
}
