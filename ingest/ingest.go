// Package ingest provides the inbound record sources: a UDP listener for
// the wireless ESPs and a serial reader for a glove wired over USB. Both
// produce the same generic records the decoder classifies.
package ingest

import "github.com/Ayman-Singh/IoT-InvisiStrings/model"

// Source delivers bounded batches of decoded records. ReadBatch returns
// at most max records and an empty slice when nothing arrived in time;
// the transport is unreliable, so silent loss upstream is expected.
type Source interface {
	ReadBatch(max int) ([]model.Record, error)
	Close() error
}
