// Package engine owns all mutable core state: chord selection, strum
// detection, play dispatch, counters, and the bounded history buffers.
// Exactly one goroutine may call into an Engine; sinks only ever see the
// immutable Snapshot it builds at the end of a tick.
package engine

import (
	"github.com/Ayman-Singh/IoT-InvisiStrings/audio"
	"github.com/Ayman-Singh/IoT-InvisiStrings/chord"
	"github.com/Ayman-Singh/IoT-InvisiStrings/event"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/Ayman-Singh/IoT-InvisiStrings/strum"
	"github.com/Ayman-Singh/IoT-InvisiStrings/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Engine struct {
	cfg model.Config
	log *zap.Logger

	sessionID string
	startedAt float64

	chords   *chord.State
	detector *strum.Detector
	adapter  audio.Adapter

	packets      uint64
	unrecognized uint64
	plays        uint64

	sensorOffset  float64
	hasSensorBase bool

	lastStrum    *model.StrumEvent
	lastPlayed   *model.LastPlayed
	recentStrums []model.StrumEvent
	recentPlays  []model.PlayEvent
	axisWindow   []model.AxisPoint
}

func New(cfg model.Config, adapter audio.Adapter, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if adapter == nil {
		adapter = audio.NewNopAdapter(log)
	}
	det := strum.NewDetector(strum.Config{
		UpThreshold:   cfg.UpThreshold,
		DownThreshold: cfg.DownThreshold,
		Cooldown:      cfg.CooldownSeconds,
		MinDuration:   cfg.MinStrumDuration,
	}, log.Named("strum"))

	return &Engine{
		cfg:       cfg,
		log:       log,
		sessionID: uuid.NewString(),
		startedAt: -1,
		chords:    chord.NewState(),
		detector:  det,
		adapter:   adapter,
	}
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

// Unrecognized reports how many records matched no known payload shape.
func (e *Engine) Unrecognized() uint64 {
	return e.unrecognized
}

// ProcessBatch runs one tick's worth of records through the pipeline,
// at most BatchCapPerTick of them. The remainder is returned as backlog
// for the caller to carry into the next tick.
func (e *Engine) ProcessBatch(records []model.Record, arrivalAt float64) []model.Record {
	n := util.Min(len(records), e.cfg.BatchCapPerTick)
	for _, rec := range records[:n] {
		e.ProcessRecord(rec, arrivalAt)
	}
	return records[n:]
}

// ProcessRecord classifies one record and routes it. Nothing here is
// fatal: noise is counted and dropped, malformed fields already became
// defaults in the decoder.
func (e *Engine) ProcessRecord(rec model.Record, arrivalAt float64) {
	e.packets++
	if e.startedAt < 0 {
		e.startedAt = arrivalAt
	}

	c := event.Classify(rec, arrivalAt)
	switch c.Kind {
	case model.KindTouch:
		if e.chords.SetActive(c.Touch.Slot) {
			e.log.Info("chord changed",
				zap.Int("slot", c.Touch.Slot),
				zap.String("label", chord.Label(c.Touch.Slot)))
		}

	case model.KindStrum:
		e.handleStrum(c.Strum, arrivalAt)

	case model.KindUnrecognized:
		e.unrecognized++
	}
}

func (e *Engine) handleStrum(s model.StrumSample, arrivalAt float64) {
	if s.HasAxis && s.Direction == "" {
		// Sensor timestamps start at the sensor's boot, not ours. Rebase
		// them onto the receiver clock at first sight so every timestamp
		// in the run shares one basis; sample spacing is preserved.
		if !e.hasSensorBase {
			e.sensorOffset = arrivalAt - s.At
			e.hasSensorBase = true
		}
		t := s.At + e.sensorOffset
		e.axisWindow = util.PushBounded(e.axisWindow,
			model.AxisPoint{T: t, V: s.Axis}, e.cfg.AxisHistoryCap)
		if evt, ok := e.detector.Sample(s.Axis, t); ok {
			e.dispatch(evt)
		}
		return
	}

	if evt, ok := e.detector.Classified(s, arrivalAt); ok {
		e.dispatch(evt)
	}
}

// dispatch turns one detected strum into exactly one play. Bookkeeping
// commits before the audio request goes out; a failed playback is logged
// and the play still counts.
func (e *Engine) dispatch(evt model.StrumEvent) {
	e.lastStrum = &evt
	e.recentStrums = util.PushBounded(e.recentStrums, evt, e.cfg.StrumHistoryCap)

	active := e.chords.Active()
	play := model.PlayEvent{
		Chord:      active,
		ChordLabel: chord.Label(active),
		Direction:  evt.Direction,
		EmittedAt:  evt.EmittedAt,
	}
	e.recentPlays = util.PushBounded(e.recentPlays, play, e.cfg.PlayHistoryCap)
	e.plays++
	e.lastPlayed = &model.LastPlayed{Chord: active, Label: play.ChordLabel, At: evt.EmittedAt}

	e.log.Info("play",
		zap.String("chord", play.ChordLabel),
		zap.String("direction", string(play.Direction)),
		zap.Float64("peak", evt.Peak))

	if err := e.adapter.Play(active, evt.Direction); err != nil {
		// No retry: a missed strum cannot sensibly be replayed later.
		e.log.Warn("audio playback failed",
			zap.Int("chord", active),
			zap.String("direction", string(evt.Direction)),
			zap.Error(err))
	}
}

// Counters assembles the monotonic counter view.
func (e *Engine) Counters() model.Counters {
	up, down, total := e.detector.Counts()
	return model.Counters{
		Packets:     e.packets,
		UpStrums:    up,
		DownStrums:  down,
		TotalStrums: total,
		TotalPlays:  e.plays,
	}
}

// Stats derives the percentage view; zero when nothing was detected yet.
func (e *Engine) Stats() model.Stats {
	c := e.Counters()
	s := model.Stats{Counters: c}
	if c.TotalStrums > 0 {
		s.UpPercent = float64(c.UpStrums) / float64(c.TotalStrums) * 100
		s.DownPercent = float64(c.DownStrums) / float64(c.TotalStrums) * 100
	}
	return s
}

// Snapshot builds the immutable per-tick view for sinks. now must be on
// the same clock basis as the timestamps fed into ProcessRecord.
func (e *Engine) Snapshot(now float64) model.Snapshot {
	active := e.chords.Active()
	snap := model.Snapshot{
		SessionID:    e.sessionID,
		At:           now,
		ActiveChord:  active,
		ChordLabel:   chord.Label(active),
		Stats:        e.Stats(),
		RecentStrums: append([]model.StrumEvent(nil), e.recentStrums...),
		RecentPlays:  append([]model.PlayEvent(nil), e.recentPlays...),
		Axis:         append([]model.AxisPoint(nil), e.axisWindow...),
	}

	if e.lastStrum != nil && now-e.lastStrum.EmittedAt < e.cfg.StrumDisplaySecs {
		s := *e.lastStrum
		snap.CurrentStrum = &s
	}
	if e.lastPlayed != nil {
		lp := *e.lastPlayed
		snap.LastPlayed = &lp
		snap.SinceLastPlay = now - lp.At
	}
	return snap
}

// Summary reports the whole session, for the shutdown log line and the
// optional DynamoDB record.
func (e *Engine) Summary(now float64) model.SessionSummary {
	started := e.startedAt
	if started < 0 {
		started = now
	}
	return model.SessionSummary{
		SessionID: e.sessionID,
		StartedAt: started,
		EndedAt:   now,
		Counters:  e.Counters(),
	}
}
