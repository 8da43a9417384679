// Package event classifies decoded datagram payloads into the closed set
// of record kinds the engine understands: touch, strum, or noise.
package event

import (
	"strconv"
	"strings"

	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
)

// Classified is the tagged result of classifying one record. Exactly one
// of Touch/Strum is meaningful, selected by Kind.
type Classified struct {
	Kind  model.RecordKind
	Touch model.TouchEvent
	Strum model.StrumSample
}

// Classify turns one generic record into a typed event. arrivalAt is the
// receiver's clock in seconds; a sensor-supplied "t" field (milliseconds)
// takes precedence for the sample timestamp so raw-axis runs keep a single
// clock basis. Classification never fails: malformed numeric fields fall
// back to documented defaults and out-of-schema records come back
// Unrecognized.
func Classify(rec model.Record, arrivalAt float64) Classified {
	if isTouch(rec) {
		slot, ok := touchSlot(rec)
		if !ok || slot < 1 || slot > constants.ChordCount {
			return Classified{Kind: model.KindUnrecognized}
		}
		return Classified{
			Kind:  model.KindTouch,
			Touch: model.TouchEvent{Slot: slot},
		}
	}

	if isStrum(rec) {
		return Classified{
			Kind:  model.KindStrum,
			Strum: strumSample(rec, arrivalAt),
		}
	}

	if v, ok := numField(rec, "ay"); ok {
		s := model.StrumSample{HasAxis: true, Axis: v, At: sampleTime(rec, arrivalAt)}
		return Classified{Kind: model.KindStrum, Strum: s}
	}

	return Classified{Kind: model.KindUnrecognized}
}

func isTouch(rec model.Record) bool {
	if dev, ok := rec["device"].(string); ok && dev == "touch_esp" {
		return true
	}
	_, ok := rec["sensor"]
	return ok
}

func isStrum(rec model.Record) bool {
	if typ, ok := rec["type"].(string); ok && typ == "strum" {
		return true
	}
	if _, ok := rec["direction"]; ok {
		return true
	}
	_, ok := rec["delta"]
	return ok
}

func touchSlot(rec model.Record) (int, bool) {
	for _, key := range []string{"sensor", "s", "value"} {
		if raw, ok := rec[key]; ok {
			if slot, ok := coerceInt(raw); ok {
				return slot, true
			}
		}
	}
	return 0, false
}

func strumSample(rec model.Record, arrivalAt float64) model.StrumSample {
	s := model.StrumSample{At: sampleTime(rec, arrivalAt)}

	// An explicit direction field always beats delta-sign inference.
	if dir, ok := direction(rec); ok {
		s.Direction = dir
	} else if delta, ok := numField(rec, "delta"); ok {
		// Positive means up, anything else down, zero included.
		if delta > 0 {
			s.Direction = model.DirectionUp
		} else {
			s.Direction = model.DirectionDown
		}
	}

	s.Peak, _ = numField(rec, "peak")
	s.Duration, _ = numField(rec, "duration")

	if v, ok := numField(rec, "ay"); ok {
		s.HasAxis = true
		s.Axis = v
	}
	return s
}

func direction(rec model.Record) (model.Direction, bool) {
	raw, ok := rec["direction"].(string)
	if !ok {
		return "", false
	}
	switch strings.ToUpper(raw) {
	case "UP":
		return model.DirectionUp, true
	case "DOWN":
		return model.DirectionDown, true
	}
	return "", false
}

func sampleTime(rec model.Record, arrivalAt float64) float64 {
	if ms, ok := numField(rec, "t"); ok {
		return ms / 1000.0
	}
	return arrivalAt
}

func numField(rec model.Record, key string) (float64, bool) {
	raw, ok := rec[key]
	if !ok {
		return 0, false
	}
	return coerceFloat(raw)
}

func coerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func coerceInt(raw any) (int, bool) {
	f, ok := coerceFloat(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}
