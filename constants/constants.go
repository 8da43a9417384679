package constants

import "os"

func GetListenAddr() string {
	addr := os.Getenv("INVISI_LISTEN_ADDR")
	if addr != "" {
		return addr
	}
	return "0.0.0.0:5005"
}

func GetHTTPAddr() string {
	addr := os.Getenv("INVISI_HTTP_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("INVISI_DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

// Strum detection tunables. Thresholds are in m/s² as reported by the
// MPU6050; timing values are in seconds.
const (
	UpStrumThreshold   = 7.5
	DownStrumThreshold = 7.5
	StrumCooldown      = 0.15
	MinStrumDuration   = 0.015
)

// StrumDisplayDuration is how long a detected strum stays visible in
// snapshots after it was emitted.
const StrumDisplayDuration = 0.5

const (
	ChordCount   = 5
	DefaultChord = 1
)

// History capacities. Axis history is sized for one second at 200 Hz.
const (
	PlayHistoryCap  = 20
	StrumHistoryCap = 10
	AxisHistoryCap  = 200
)

// BatchCapPerTick bounds how many datagrams one tick may consume so a
// flooding sensor cannot starve the render loop.
const BatchCapPerTick = 10

const DatagramBufSize = 1024

const SummaryTable = "invisistrings-sessions"
