package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/audio"
	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
	"github.com/Ayman-Singh/IoT-InvisiStrings/db"
	"github.com/Ayman-Singh/IoT-InvisiStrings/engine"
	"github.com/Ayman-Singh/IoT-InvisiStrings/ingest"
	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/Ayman-Singh/IoT-InvisiStrings/sink"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var playFlags struct {
	listenAddr  string
	serialDev   string
	serialBaud  int
	httpAddr    string
	midiPort    int
	noMIDI      bool
	tickMillis  int
	upThresh    float64
	downThresh  float64
	cooldown    float64
	minDuration float64
	saveSummary bool
	debug       bool
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playFlags.listenAddr, "listen", constants.GetListenAddr(), "UDP listen address")
	playCmd.Flags().StringVar(&playFlags.serialDev, "serial", "", "read touch events from this serial device instead of UDP")
	playCmd.Flags().IntVar(&playFlags.serialBaud, "baud", 115200, "serial baud rate")
	playCmd.Flags().StringVar(&playFlags.httpAddr, "http", constants.GetHTTPAddr(), "status API address, empty disables")
	playCmd.Flags().IntVar(&playFlags.midiPort, "midi-port", 0, "MIDI out port index")
	playCmd.Flags().BoolVar(&playFlags.noMIDI, "no-midi", false, "log plays instead of sending MIDI")
	playCmd.Flags().IntVar(&playFlags.tickMillis, "tick", 50, "processing tick interval in milliseconds")
	playCmd.Flags().Float64Var(&playFlags.upThresh, "up-threshold", constants.UpStrumThreshold, "up strum threshold (m/s²)")
	playCmd.Flags().Float64Var(&playFlags.downThresh, "down-threshold", constants.DownStrumThreshold, "down strum threshold (m/s²)")
	playCmd.Flags().Float64Var(&playFlags.cooldown, "cooldown", constants.StrumCooldown, "seconds between strums")
	playCmd.Flags().Float64Var(&playFlags.minDuration, "min-duration", constants.MinStrumDuration, "minimum gesture duration in seconds")
	playCmd.Flags().BoolVar(&playFlags.saveSummary, "save-summary", false, "write the session summary to DynamoDB on exit")
	playCmd.Flags().BoolVar(&playFlags.debug, "debug", false, "enable debug logging")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the engine against live sensors",
	Long:  `Runs the engine against live sensors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return play()
	},
}

func newLogger() (*zap.Logger, error) {
	if playFlags.debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func play() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := model.DefaultConfig()
	cfg.UpThreshold = playFlags.upThresh
	cfg.DownThreshold = playFlags.downThresh
	cfg.CooldownSeconds = playFlags.cooldown
	cfg.MinStrumDuration = playFlags.minDuration

	var adapter audio.Adapter
	if playFlags.noMIDI {
		adapter = audio.NewNopAdapter(log.Named("audio"))
	} else {
		midiAdapter, err := audio.NewMIDIAdapter(playFlags.midiPort, log.Named("audio"))
		if err != nil {
			log.Warn("midi unavailable, plays will only be logged", zap.Error(err))
			adapter = audio.NewNopAdapter(log.Named("audio"))
		} else {
			adapter = midiAdapter
		}
	}
	defer adapter.Close()

	var source ingest.Source
	var lastSeen func() map[string]time.Time
	if playFlags.serialDev != "" {
		serial, err := ingest.OpenSerial(playFlags.serialDev, playFlags.serialBaud, log.Named("serial"))
		if err != nil {
			return err
		}
		source = serial
	} else {
		udp, err := ingest.ListenUDP(playFlags.listenAddr, log.Named("udp"))
		if err != nil {
			return err
		}
		source = udp
		lastSeen = udp.LastSeen
	}
	defer source.Close()

	eng := engine.New(cfg, adapter, log.Named("engine"))
	console := sink.NewConsole(log.Named("console"))
	store := &sink.SnapshotStore{}

	if playFlags.httpAddr != "" {
		handler := sink.NewRouter(store, lastSeen, log.Named("http"))
		go func() {
			log.Info("status API listening", zap.String("addr", playFlags.httpAddr))
			if err := http.ListenAndServe(playFlags.httpAddr, handler); err != nil {
				log.Error("status API stopped", zap.Error(err))
			}
		}()
	}

	log.Info("ready to rock",
		zap.String("session", eng.SessionID()),
		zap.Float64("up_threshold", cfg.UpThreshold),
		zap.Float64("down_threshold", cfg.DownThreshold),
		zap.Float64("cooldown_s", cfg.CooldownSeconds))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	start := time.Now()
	clock := func() float64 { return time.Since(start).Seconds() }

	ticker := time.NewTicker(time.Duration(playFlags.tickMillis) * time.Millisecond)
	defer ticker.Stop()

	var backlog []model.Record
	for {
		select {
		case <-ticker.C:
			batch, err := source.ReadBatch(cfg.BatchCapPerTick)
			if err != nil {
				log.Warn("read batch", zap.Error(err))
			}
			now := clock()
			backlog = eng.ProcessBatch(append(backlog, batch...), now)
			snap := eng.Snapshot(now)
			store.Publish(snap)
			console.OnSnapshot(snap)

		case <-stop:
			summary := eng.Summary(clock())
			log.Info("session summary",
				zap.Uint64("packets", summary.Counters.Packets),
				zap.Uint64("up_strums", summary.Counters.UpStrums),
				zap.Uint64("down_strums", summary.Counters.DownStrums),
				zap.Uint64("total_strums", summary.Counters.TotalStrums),
				zap.Uint64("total_plays", summary.Counters.TotalPlays),
				zap.Uint64("unrecognized", eng.Unrecognized()))
			if playFlags.saveSummary {
				if err := db.PutSessionSummary(summary); err != nil {
					log.Error("save session summary", zap.Error(err))
				}
			}
			return nil
		}
	}
}
