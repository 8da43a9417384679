package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/spf13/cobra"
)

var sendFlags struct {
	target   string
	rate     int
	raw      bool
	duration time.Duration
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendFlags.target, "target", "127.0.0.1:5005", "address to send datagrams to")
	sendCmd.Flags().IntVar(&sendFlags.rate, "rate", 200, "samples per second in raw mode")
	sendCmd.Flags().BoolVar(&sendFlags.raw, "raw", false, "send raw axis samples instead of pre-classified strums")
	sendCmd.Flags().DurationVar(&sendFlags.duration, "duration", 10*time.Second, "how long to send")
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send synthetic sensor datagrams for bench testing",
	Long:  `Sends synthetic sensor datagrams for bench testing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return send()
	},
}

func send() error {
	conn, err := net.Dial("udp", sendFlags.target)
	if err != nil {
		return fmt.Errorf("dial %q: %w", sendFlags.target, err)
	}
	defer conn.Close()

	fmt.Printf("sending to %s for %s\n", sendFlags.target, sendFlags.duration)
	deadline := time.Now().Add(sendFlags.duration)

	if sendFlags.raw {
		return sendRawAxis(conn, deadline)
	}
	return sendClassified(conn, deadline)
}

// sendClassified emits a touch event then a strum every 400ms, cycling
// through the five chords, the shape the strum ESP firmware sends.
func sendClassified(conn net.Conn, deadline time.Time) error {
	slot := 1
	directions := []string{"UP", "DOWN"}
	for i := 0; time.Now().Before(deadline); i++ {
		touch := map[string]any{"device": "touch_esp", "sensor": slot}
		if err := writeJSON(conn, touch); err != nil {
			return err
		}

		strum := map[string]any{
			"device":    "motion_esp",
			"type":      "strum",
			"direction": directions[i%2],
			"peak":      8 + rand.Float64()*4,
			"duration":  0.02 + rand.Float64()*0.03,
		}
		if err := writeJSON(conn, strum); err != nil {
			return err
		}

		slot = slot%5 + 1
		time.Sleep(400 * time.Millisecond)
	}
	return nil
}

// sendRawAxis streams a synthetic Y-axis waveform: quiet baseline with a
// sharp alternating spike every half second, like an actual wrist snap.
func sendRawAxis(conn net.Conn, deadline time.Time) error {
	interval := time.Second / time.Duration(sendFlags.rate)
	start := time.Now()
	for time.Now().Before(deadline) {
		elapsed := time.Since(start).Seconds()
		ay := rand.Float64()*0.6 - 0.3
		sign := 1.0
		if int(elapsed/0.5)%2 == 1 {
			sign = -1.0
		}
		if math.Mod(elapsed, 0.5) < 0.04 {
			ay = sign * (9 + rand.Float64()*3)
		}

		rec := map[string]any{
			"device": "motion_esp",
			"t":      elapsed * 1000,
			"ax":     rand.Float64()*0.4 - 0.2,
			"ay":     ay,
			"az":     9.8 + rand.Float64()*0.2,
		}
		if err := writeJSON(conn, rec); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	return nil
}

func writeJSON(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = conn.Write(data)
	return err
}
