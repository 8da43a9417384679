// Package audio is the outbound play side. The engine only ever asks for
// "play this chord in this direction"; which notes, ports, or files that
// maps to is the adapter's business.
package audio

import (
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"go.uber.org/zap"
)

// Adapter receives fire-and-forget play requests. Implementations must
// not block the caller; errors are reported but never retried.
type Adapter interface {
	Play(chordSlot int, direction model.Direction) error
	Close() error
}

// NopAdapter just logs. Used in tests and when no MIDI port exists.
type NopAdapter struct {
	log *zap.Logger
}

func NewNopAdapter(log *zap.Logger) *NopAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &NopAdapter{log: log}
}

func (a *NopAdapter) Play(chordSlot int, direction model.Direction) error {
	a.log.Info("play (no audio device)",
		zap.Int("chord", chordSlot),
		zap.String("direction", string(direction)))
	return nil
}

func (a *NopAdapter) Close() error { return nil }
