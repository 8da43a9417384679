package audio

import (
	"fmt"
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"go.uber.org/zap"
)

// voicings holds the MIDI pitches for each chord slot: A, C, D, Em, G.
var voicings = map[int][]uint8{
	1: {45, 57, 64, 69, 73},
	2: {48, 60, 64, 67, 72},
	3: {50, 62, 66, 69, 74},
	4: {40, 52, 59, 64, 67},
	5: {43, 55, 59, 62, 67},
}

const (
	midiChannel  = 0
	noteVelocity = 100
	sustain      = 900 * time.Millisecond
)

// MIDIAdapter plays chord voicings on a MIDI out port. Note-offs are
// scheduled on timers so Play never blocks the engine tick.
type MIDIAdapter struct {
	send func(midi.Message) error
	log  *zap.Logger
}

// NewMIDIAdapter opens the MIDI out port at the given index.
func NewMIDIAdapter(portIndex int, log *zap.Logger) (*MIDIAdapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	out, err := midi.OutPort(portIndex)
	if err != nil {
		return nil, fmt.Errorf("midi out port %d: %w", portIndex, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("midi sender: %w", err)
	}
	log.Info("midi adapter ready", zap.String("port", out.String()))
	return &MIDIAdapter{send: send, log: log}, nil
}

func (a *MIDIAdapter) Play(chordSlot int, direction model.Direction) error {
	notes, ok := voicings[chordSlot]
	if !ok {
		return fmt.Errorf("no voicing for chord slot %d", chordSlot)
	}

	// A down strum hits the low strings first, an up strum the high ones.
	ordered := make([]uint8, len(notes))
	copy(ordered, notes)
	if direction == model.DirectionUp {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	for _, note := range ordered {
		if err := a.send(midi.NoteOn(midiChannel, note, noteVelocity)); err != nil {
			return fmt.Errorf("note on %d: %w", note, err)
		}
	}

	released := make([]uint8, len(ordered))
	copy(released, ordered)
	time.AfterFunc(sustain, func() {
		for _, note := range released {
			if err := a.send(midi.NoteOff(midiChannel, note)); err != nil {
				a.log.Warn("note off failed", zap.Uint8("note", note), zap.Error(err))
			}
		}
	})
	return nil
}

func (a *MIDIAdapter) Close() error {
	midi.CloseDriver()
	return nil
}
