package strum

import (
	"testing"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{
		UpThreshold:   7.5,
		DownThreshold: 7.5,
		Cooldown:      0.15,
		MinDuration:   0.015,
	}
}

func feed(d *Detector, values, times []float64) []model.StrumEvent {
	var events []model.StrumEvent
	for i := range values {
		if evt, ok := d.Sample(values[i], times[i]); ok {
			events = append(events, evt)
		}
	}
	return events
}

func TestUpStrumDetected(t *testing.T) {
	d := NewDetector(testConfig(), nil)
	events := feed(d,
		[]float64{0, 8.0, 8.2, 2.0},
		[]float64{0, 0.02, 0.03, 0.05})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(model.DirectionUp, events[0].Direction)
	assert.Equal(8.2, events[0].Peak)
	assert.InDelta(0.03, events[0].Duration, 1e-9)
	assert.Equal(0.05, events[0].EmittedAt)

	up, down, total := d.Counts()
	assert.Equal(uint64(1), up)
	assert.Equal(uint64(0), down)
	assert.Equal(uint64(1), total)
}

func TestTooShortGestureDiscarded(t *testing.T) {
	d := NewDetector(testConfig(), nil)
	events := feed(d,
		[]float64{0, 8.0, 8.2, 2.0},
		[]float64{0, 0.001, 0.002, 0.003})

	assert := assert.New(t)
	assert.Empty(events)
	_, _, total := d.Counts()
	assert.Equal(uint64(0), total)
	assert.Equal(PhaseIdle, d.Phase())
}

func TestDownStrumUsesAbsolutePeak(t *testing.T) {
	d := NewDetector(testConfig(), nil)
	events := feed(d,
		[]float64{0, -9.0, -11.5, -1.0},
		[]float64{0, 0.02, 0.04, 0.06})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(model.DirectionDown, events[0].Direction)
	assert.Equal(11.5, events[0].Peak)
}

func TestCooldownIgnoresSamplesEntirely(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	first := feed(d,
		[]float64{8.0, 8.5, 1.0},
		[]float64{0.00, 0.02, 0.04})
	assert.Len(t, first, 1)

	// A second burst 0.05s later falls inside the 0.15s cooldown: no
	// state transition happens, so even its relaxation sample is inert.
	second := feed(d,
		[]float64{9.0, 9.5, 1.0},
		[]float64{0.09, 0.10, 0.12})

	assert := assert.New(t)
	assert.Empty(second)
	assert.Equal(PhaseIdle, d.Phase())
	_, _, total := d.Counts()
	assert.Equal(uint64(1), total)
}

func TestStrumAfterCooldownElapses(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	feed(d, []float64{8.0, 1.0}, []float64{0.00, 0.02})
	events := feed(d,
		[]float64{8.0, 8.1, 1.0},
		[]float64{0.20, 0.22, 0.24})

	assert.Len(t, events, 1)
	_, _, total := d.Counts()
	assert.Equal(t, uint64(2), total)
}

func TestEmittedEventsRespectCooldownSpacing(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	// Alternating bursts every 20ms for 2 simulated seconds.
	var events []model.StrumEvent
	for i := 0; i < 100; i++ {
		base := float64(i) * 0.02
		v := 9.0
		if i%2 == 1 {
			v = -9.0
		}
		if evt, ok := d.Sample(v, base); ok {
			events = append(events, evt)
		}
		if evt, ok := d.Sample(0, base+0.018); ok {
			events = append(events, evt)
		}
	}

	assert := assert.New(t)
	assert.NotEmpty(events)
	for i := 1; i < len(events); i++ {
		gap := events[i].EmittedAt - events[i-1].EmittedAt
		assert.GreaterOrEqual(gap, testConfig().Cooldown)
	}

	up, down, total := d.Counts()
	assert.Equal(total, up+down)
	assert.Equal(uint64(len(events)), total)
}

func TestDirectionReversalMidGesture(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	// Sign flips while still outside thresholds restart the gesture in
	// the opposite phase; the relaxation then closes the down gesture.
	events := feed(d,
		[]float64{8.0, -8.0, -8.5, 0.5},
		[]float64{0.00, 0.03, 0.05, 0.07})

	assert := assert.New(t)
	assert.Len(events, 1)
	assert.Equal(model.DirectionDown, events[0].Direction)
	assert.InDelta(0.04, events[0].Duration, 1e-9)
}

func TestMidGestureStartCountsFromFirstSample(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	// Process starts while the hand is already swinging: the first
	// observed sample opens the gesture.
	events := feed(d,
		[]float64{9.9, 9.8, 0.2},
		[]float64{5.00, 5.02, 5.04})

	assert.Len(t, events, 1)
	assert.InDelta(t, 0.04, events[0].Duration, 1e-9)
}

func TestClassifiedModeEmitsAsGiven(t *testing.T) {
	d := NewDetector(testConfig(), nil)

	evt, ok := d.Classified(model.StrumSample{
		Direction: model.DirectionDown,
		Peak:      12.0,
		Duration:  0.05,
	}, 3.0)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(model.DirectionDown, evt.Direction)
	assert.Equal(12.0, evt.Peak)
	assert.Equal(0.05, evt.Duration)
	assert.Equal(3.0, evt.EmittedAt)

	_, down, total := d.Counts()
	assert.Equal(uint64(1), down)
	assert.Equal(uint64(1), total)
}

func TestClassifiedModeCooldownGating(t *testing.T) {
	d := NewDetector(testConfig(), nil)
	sample := model.StrumSample{Direction: model.DirectionUp, Peak: 9.0}

	_, ok := d.Classified(sample, 1.00)
	assert.True(t, ok)

	_, ok = d.Classified(sample, 1.05)
	assert.False(t, ok)

	_, ok = d.Classified(sample, 1.16)
	assert.True(t, ok)

	up, _, total := d.Counts()
	assert.Equal(t, uint64(2), up)
	assert.Equal(t, uint64(2), total)
}

func TestClassifiedModeDropsDirectionlessSamples(t *testing.T) {
	d := NewDetector(testConfig(), nil)
	_, ok := d.Classified(model.StrumSample{Peak: 9.0}, 1.0)

	assert.False(t, ok)
	_, _, total := d.Counts()
	assert.Equal(t, uint64(0), total)
}
