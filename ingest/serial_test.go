package ingest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestSerial() *SerialSource {
	return &SerialSource{
		log:     zap.NewNop(),
		records: make(chan model.Record, 64),
	}
}

func TestParseLineEmitsOnRisingEdgeOnly(t *testing.T) {
	s := newTestSerial()

	var recs []model.Record
	recs = append(recs, s.parseLine("S1: 0  S2: 0  S3: 0  S4: 0  S5: 0")...)
	recs = append(recs, s.parseLine("S1: 0  S2: 1  S3: 0  S4: 0  S5: 0")...)
	recs = append(recs, s.parseLine("S1: 0  S2: 1  S3: 0  S4: 0  S5: 0")...) // held, no retrigger
	recs = append(recs, s.parseLine("S1: 0  S2: 0  S3: 0  S4: 1  S5: 0")...)

	assert := assert.New(t)
	assert.Len(recs, 2)
	assert.Equal(float64(2), recs[0]["sensor"])
	assert.Equal(float64(4), recs[1]["sensor"])
	assert.Equal("touch_esp", recs[0]["device"])
}

func TestParseLineIgnoresGarbage(t *testing.T) {
	s := newTestSerial()
	assert.Empty(t, s.parseLine("Touch sensors initialized..."))
	assert.Empty(t, s.parseLine("S9: 1"))
}

func TestParseLineReleaseThenPressRetriggers(t *testing.T) {
	s := newTestSerial()
	recs := s.parseLine("S3: 1")
	recs = append(recs, s.parseLine("S3: 0")...)
	recs = append(recs, s.parseLine("S3: 1")...)
	assert.Len(t, recs, 2)
}

func TestReadBatchDrainsStream(t *testing.T) {
	s := newTestSerial()
	lines := "S1: 0  S2: 0  S3: 0  S4: 0  S5: 0\n" +
		"S1: 1  S2: 0  S3: 0  S4: 0  S5: 0\n" +
		"S1: 0  S2: 0  S3: 0  S4: 0  S5: 1\n"
	go s.readLoop(strings.NewReader(lines))

	var recs []model.Record
	deadline := time.After(time.Second)
	for len(recs) < 2 {
		batch, err := s.ReadBatch(10)
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, batch...)
		select {
		case <-deadline:
			t.Fatalf("only %d records after 1s", len(recs))
		default:
		}
	}

	assert := assert.New(t)
	assert.Equal(float64(1), recs[0]["sensor"])
	assert.Equal(float64(5), recs[1]["sensor"])
}

// A glove with nothing pressed streams all-zero status lines forever.
// ReadBatch must still return promptly so the caller's tick completes.
func TestReadBatchDoesNotBlockOnQuietGlove(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s := newTestSerial()
	go s.readLoop(pr)
	go func() {
		for i := 0; i < 50; i++ {
			io.WriteString(pw, "S1: 0  S2: 0  S3: 0  S4: 0  S5: 0\n")
			time.Sleep(time.Millisecond)
		}
	}()

	done := make(chan []model.Record, 1)
	go func() {
		batch, _ := s.ReadBatch(10)
		done <- batch
	}()

	select {
	case batch := <-done:
		assert.Empty(t, batch)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("ReadBatch blocked on a quiet stream")
	}
}
