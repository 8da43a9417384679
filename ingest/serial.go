package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"sync"

	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// pinLine matches the touch firmware's status lines:
// "S1: 0  S2: 1  S3: 0  S4: 0  S5: 0"
var pinLine = regexp.MustCompile(`S(\d):\s*(\d)`)

// SerialSource reads the touch glove over USB instead of UDP. The
// firmware prints the level of every pin each cycle; a record is emitted
// only on a LOW→HIGH transition so holding a pad does not retrigger.
//
// Line reading happens on its own goroutine. ReadBatch only drains the
// record channel, so a quiet glove never stalls the caller's tick.
type SerialSource struct {
	port    serial.Port
	log     *zap.Logger
	records chan model.Record

	// high is owned by the reader goroutine.
	high [constants.ChordCount + 1]bool

	mu      sync.Mutex
	readErr error
}

func OpenSerial(device string, baud int, log *zap.Logger) (*SerialSource, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %q: %w", device, err)
	}
	log.Info("serial touch source opened",
		zap.String("device", device), zap.Int("baud", baud))
	s := &SerialSource{
		port:    port,
		log:     log,
		records: make(chan model.Record, 64),
	}
	go s.readLoop(port)
	return s, nil
}

// readLoop scans firmware lines until the port closes or errors, then
// closes the record channel.
func (s *SerialSource) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		for _, rec := range s.parseLine(scanner.Text()) {
			s.records <- rec
		}
	}
	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		s.readErr = fmt.Errorf("serial read: %w", err)
		s.mu.Unlock()
	}
	close(s.records)
}

// ReadBatch drains up to max already-read records and returns
// immediately; it never waits on the wire.
func (s *SerialSource) ReadBatch(max int) ([]model.Record, error) {
	var batch []model.Record
	for len(batch) < max {
		select {
		case rec, ok := <-s.records:
			if !ok {
				s.mu.Lock()
				defer s.mu.Unlock()
				return batch, s.readErr
			}
			batch = append(batch, rec)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

func (s *SerialSource) parseLine(line string) []model.Record {
	var out []model.Record
	for _, m := range pinLine.FindAllStringSubmatch(line, -1) {
		pin, err := strconv.Atoi(m[1])
		if err != nil || pin < 1 || pin > constants.ChordCount {
			continue
		}
		level := m[2] == "1"
		if level && !s.high[pin] {
			out = append(out, model.Record{
				"device": "touch_esp",
				"sensor": float64(pin),
			})
			s.log.Debug("touch pad pressed", zap.Int("sensor", pin))
		}
		s.high[pin] = level
	}
	return out
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}
