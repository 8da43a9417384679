package sink

import (
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/bep/debounce"
	"go.uber.org/zap"
)

// Console renders snapshots as log lines. Chord changes arrive in storms
// when a pad bounces, so those are debounced down to the final value;
// strums and plays are always worth a line.
type Console struct {
	log       *zap.Logger
	debounced func(func())

	lastChord int
	lastPlays uint64
	lastStrum float64
}

func NewConsole(log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		log:       log,
		debounced: debounce.New(200 * time.Millisecond),
		lastChord: -1,
	}
}

// OnSnapshot is invoked once per tick, event or no event.
func (c *Console) OnSnapshot(snap model.Snapshot) {
	if snap.ActiveChord != c.lastChord {
		c.lastChord = snap.ActiveChord
		chord, label := snap.ActiveChord, snap.ChordLabel
		c.debounced(func() {
			c.log.Info("active chord",
				zap.Int("slot", chord),
				zap.String("label", label))
		})
	}

	if snap.CurrentStrum != nil && snap.CurrentStrum.EmittedAt != c.lastStrum {
		c.lastStrum = snap.CurrentStrum.EmittedAt
		c.log.Info("strum",
			zap.String("direction", string(snap.CurrentStrum.Direction)),
			zap.Float64("peak", snap.CurrentStrum.Peak),
			zap.Float64("duration_ms", snap.CurrentStrum.Duration*1000))
	}

	if snap.Stats.TotalPlays != c.lastPlays {
		c.lastPlays = snap.Stats.TotalPlays
		c.log.Info("stats",
			zap.Uint64("up", snap.Stats.UpStrums),
			zap.Uint64("down", snap.Stats.DownStrums),
			zap.Uint64("strums", snap.Stats.TotalStrums),
			zap.Uint64("plays", snap.Stats.TotalPlays),
			zap.Float64("up_pct", snap.Stats.UpPercent),
			zap.Float64("down_pct", snap.Stats.DownPercent),
			zap.Uint64("packets", snap.Stats.Packets))
	}
}
