// Package strum turns a stream of acceleration samples into discrete
// up/down strum gestures.
package strum

import (
	"math"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"go.uber.org/zap"
)

// Phase is the detector's position in the gesture lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRisingUp
	PhaseRisingDown
)

// Config holds the detection thresholds. Thresholds are in sensor units
// (m/s² for the MPU6050), timings in seconds.
type Config struct {
	UpThreshold   float64
	DownThreshold float64
	Cooldown      float64
	MinDuration   float64
}

// Detector is a hysteresis/cooldown state machine. It is not safe for
// concurrent use; the engine is its only caller.
//
// Two modes share the cooldown gate and counters: Sample consumes one raw
// axis value and finds gesture edges itself, Classified consumes a
// direction/peak/duration the sensor firmware already segmented.
type Detector struct {
	cfg Config
	log *zap.Logger

	phase     Phase
	startTime float64
	peak      float64

	lastEnd    float64
	hasLastEnd bool

	up, down uint64
}

func NewDetector(cfg Config, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{cfg: cfg, log: log}
}

// Sample feeds one raw axis value observed at time t. It returns a strum
// event and true when the sample completes a valid gesture.
//
// A gesture already underway when sampling starts is treated as beginning
// at the first sample observed; there is no retroactive backfill.
func (d *Detector) Sample(v, t float64) (model.StrumEvent, bool) {
	if d.inCooldown(t) {
		return model.StrumEvent{}, false
	}

	switch {
	case v > d.cfg.UpThreshold:
		d.rise(PhaseRisingUp, v, t)
	case v < -d.cfg.DownThreshold:
		d.rise(PhaseRisingDown, math.Abs(v), t)
	default:
		// Value relaxed inside both thresholds: the gesture, if any, ended.
		return d.settle(t)
	}
	return model.StrumEvent{}, false
}

// Classified applies cooldown gating and counting to a pre-segmented
// sample. Samples without a usable direction are dropped.
func (d *Detector) Classified(s model.StrumSample, t float64) (model.StrumEvent, bool) {
	if s.Direction != model.DirectionUp && s.Direction != model.DirectionDown {
		return model.StrumEvent{}, false
	}
	if d.inCooldown(t) {
		d.log.Debug("strum suppressed by cooldown",
			zap.String("direction", string(s.Direction)),
			zap.Float64("t", t))
		return model.StrumEvent{}, false
	}

	evt := model.StrumEvent{
		Direction: s.Direction,
		Peak:      s.Peak,
		Duration:  s.Duration,
		EmittedAt: t,
	}
	d.emit(evt, t)
	return evt, true
}

// Phase exposes the current gesture phase for rendering.
func (d *Detector) Phase() Phase {
	return d.phase
}

// Counts returns (up, down, total) strums detected so far.
func (d *Detector) Counts() (uint64, uint64, uint64) {
	return d.up, d.down, d.up + d.down
}

func (d *Detector) inCooldown(t float64) bool {
	return d.hasLastEnd && t-d.lastEnd < d.cfg.Cooldown
}

func (d *Detector) rise(phase Phase, magnitude, t float64) {
	if d.phase != phase {
		d.phase = phase
		d.startTime = t
		d.peak = magnitude
		return
	}
	d.peak = math.Max(d.peak, magnitude)
}

func (d *Detector) settle(t float64) (model.StrumEvent, bool) {
	if d.phase == PhaseIdle {
		return model.StrumEvent{}, false
	}

	duration := t - d.startTime
	direction := model.DirectionUp
	if d.phase == PhaseRisingDown {
		direction = model.DirectionDown
	}
	peak := d.peak

	d.phase = PhaseIdle
	d.startTime = 0
	d.peak = 0

	if duration < d.cfg.MinDuration {
		// Single-sample spike, not a strum.
		d.log.Debug("gesture too short, discarded",
			zap.Float64("duration", duration),
			zap.String("direction", string(direction)))
		return model.StrumEvent{}, false
	}

	evt := model.StrumEvent{
		Direction: direction,
		Peak:      peak,
		Duration:  duration,
		EmittedAt: t,
	}
	d.emit(evt, t)
	return evt, true
}

func (d *Detector) emit(evt model.StrumEvent, t float64) {
	if evt.Direction == model.DirectionUp {
		d.up++
	} else {
		d.down++
	}
	d.lastEnd = t
	d.hasLastEnd = true

	d.log.Info("strum detected",
		zap.String("direction", string(evt.Direction)),
		zap.Float64("peak", evt.Peak),
		zap.Float64("duration_ms", evt.Duration*1000))
}
