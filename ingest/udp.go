package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"go.uber.org/zap"
)

// readTimeout keeps ReadBatch from blocking a whole tick when the
// sensors go quiet.
const readTimeout = 10 * time.Millisecond

// UDPListener reads JSON datagrams from the ESPs. Non-JSON payloads are
// counted and skipped; they are noise, not errors.
type UDPListener struct {
	conn *net.UDPConn
	log  *zap.Logger
	buf  []byte

	// mu guards the fields below; the HTTP handlers read them from
	// other goroutines.
	mu        sync.Mutex
	malformed uint64
	lastSeen  map[string]time.Time
}

func ListenUDP(addr string, log *zap.Logger) (*UDPListener, error) {
	if log == nil {
		log = zap.NewNop()
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %q: %w", addr, err)
	}
	log.Info("listening for touch and strum events",
		zap.String("addr", conn.LocalAddr().String()))
	return &UDPListener{
		conn:     conn,
		log:      log,
		buf:      make([]byte, constants.DatagramBufSize),
		lastSeen: make(map[string]time.Time),
	}, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (l *UDPListener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// ReadBatch drains up to max datagrams. It returns early on the read
// timeout, leaving any backlog to the next tick; UDP buffers or drops
// the rest on its own.
func (l *UDPListener) ReadBatch(max int) ([]model.Record, error) {
	var records []model.Record
	for len(records) < max {
		if err := l.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return records, err
		}
		n, _, err := l.conn.ReadFromUDP(l.buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return records, nil
			}
			if errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) {
				return records, err
			}
			l.log.Warn("udp read error", zap.Error(err))
			return records, nil
		}

		var rec model.Record
		if err := json.Unmarshal(l.buf[:n], &rec); err != nil {
			l.mu.Lock()
			l.malformed++
			total := l.malformed
			l.mu.Unlock()
			l.log.Debug("non-JSON datagram skipped",
				zap.Uint64("malformed_total", total))
			continue
		}
		if device, ok := rec["device"].(string); ok {
			l.mu.Lock()
			l.lastSeen[device] = time.Now()
			l.mu.Unlock()
		}
		records = append(records, rec)
	}
	return records, nil
}

// Malformed reports how many undecodable datagrams arrived so far.
func (l *UDPListener) Malformed() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.malformed
}

// LastSeen returns a copy of the per-device last arrival times.
func (l *UDPListener) LastSeen() map[string]time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]time.Time, len(l.lastSeen))
	for k, v := range l.lastSeen {
		out[k] = v
	}
	return out
}

func (l *UDPListener) Close() error {
	return l.conn.Close()
}
