package event

import (
	"testing"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifyTouchByDevice(t *testing.T) {
	rec := model.Record{"device": "touch_esp", "sensor": float64(3)}
	c := Classify(rec, 1.0)

	assert := assert.New(t)
	assert.Equal(model.KindTouch, c.Kind)
	assert.Equal(3, c.Touch.Slot)
}

func TestClassifyTouchBySensorFieldAlone(t *testing.T) {
	c := Classify(model.Record{"sensor": float64(5)}, 1.0)
	assert.Equal(t, model.KindTouch, c.Kind)
	assert.Equal(t, 5, c.Touch.Slot)
}

func TestClassifyTouchSlotFallbackKeys(t *testing.T) {
	c := Classify(model.Record{"device": "touch_esp", "s": float64(2)}, 1.0)
	assert.Equal(t, model.KindTouch, c.Kind)
	assert.Equal(t, 2, c.Touch.Slot)
}

func TestTouchWithStringSlotCoerces(t *testing.T) {
	c := Classify(model.Record{"sensor": "4"}, 1.0)
	assert.Equal(t, model.KindTouch, c.Kind)
	assert.Equal(t, 4, c.Touch.Slot)
}

func TestTouchOutOfRangeIsUnrecognized(t *testing.T) {
	assert := assert.New(t)
	for _, slot := range []float64{0, 6, -3} {
		c := Classify(model.Record{"sensor": slot}, 1.0)
		assert.Equal(model.KindUnrecognized, c.Kind)
	}
}

func TestTouchWithGarbageSlotIsUnrecognized(t *testing.T) {
	c := Classify(model.Record{"device": "touch_esp", "sensor": "not-a-number"}, 1.0)
	assert.Equal(t, model.KindUnrecognized, c.Kind)
}

func TestClassifyStrumExplicitDirection(t *testing.T) {
	rec := model.Record{"type": "strum", "direction": "down", "peak": 9.1, "duration": 0.03}
	c := Classify(rec, 2.5)

	assert := assert.New(t)
	assert.Equal(model.KindStrum, c.Kind)
	assert.Equal(model.DirectionDown, c.Strum.Direction)
	assert.Equal(9.1, c.Strum.Peak)
	assert.Equal(0.03, c.Strum.Duration)
	assert.Equal(2.5, c.Strum.At)
}

func TestClassifyStrumDeltaSignInference(t *testing.T) {
	assert := assert.New(t)

	up := Classify(model.Record{"delta": 3.2}, 1.0)
	assert.Equal(model.KindStrum, up.Kind)
	assert.Equal(model.DirectionUp, up.Strum.Direction)

	down := Classify(model.Record{"delta": -1.1}, 1.0)
	assert.Equal(model.DirectionDown, down.Strum.Direction)

	// Zero delta counts as down, matching the positive-means-up rule.
	flat := Classify(model.Record{"delta": 0.0}, 1.0)
	assert.Equal(model.KindStrum, flat.Kind)
	assert.Equal(model.DirectionDown, flat.Strum.Direction)
}

func TestExplicitDirectionBeatsDelta(t *testing.T) {
	rec := model.Record{"direction": "UP", "delta": -5.0}
	c := Classify(rec, 1.0)
	assert.Equal(t, model.DirectionUp, c.Strum.Direction)
}

func TestStrumMissingNumericsDefaultToZero(t *testing.T) {
	rec := model.Record{"direction": "UP", "peak": "garbage"}
	c := Classify(rec, 1.0)

	assert := assert.New(t)
	assert.Equal(model.KindStrum, c.Kind)
	assert.Equal(0.0, c.Strum.Peak)
	assert.Equal(0.0, c.Strum.Duration)
}

func TestClassifyRawAxisSample(t *testing.T) {
	rec := model.Record{"ax": 0.1, "ay": 8.4, "az": -0.2, "t": float64(12500)}
	c := Classify(rec, 99.0)

	assert := assert.New(t)
	assert.Equal(model.KindStrum, c.Kind)
	assert.True(c.Strum.HasAxis)
	assert.Equal(8.4, c.Strum.Axis)
	assert.Equal(12.5, c.Strum.At)
}

func TestRawAxisWithoutSensorClockUsesArrival(t *testing.T) {
	c := Classify(model.Record{"ay": 2.0}, 7.0)
	assert.Equal(t, 7.0, c.Strum.At)
}

func TestNoiseIsUnrecognized(t *testing.T) {
	assert := assert.New(t)
	for _, rec := range []model.Record{
		{},
		{"device": "unknown_esp"},
		{"battery": 0.93},
		{"type": "heartbeat"},
	} {
		c := Classify(rec, 1.0)
		assert.Equal(model.KindUnrecognized, c.Kind)
	}
}
